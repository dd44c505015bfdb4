// Package prompt asks the user to pick one of several discovered files.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrCancelled is returned when the user dismisses the selection.
var ErrCancelled = errors.New("selection cancelled")

// Prompter shows a single-choice selection.
type Prompter interface {
	Select(label string, items []string) (string, error)
}

// PromptUI is the terminal Prompter.
type PromptUI struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
	// Size is the number of items visible at once; 0 uses the promptui default.
	Size int
}

// Select shows items and returns the chosen one.
func (p *PromptUI) Select(label string, items []string) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("nothing to select for %q", label)
	}

	sel := promptui.Select{
		Label:        label,
		Items:        items,
		Size:         p.Size,
		HideSelected: true,
		Stdin:        p.Stdin,
		Stdout:       p.Stdout,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index]), strings.ToLower(input))
		},
	}

	_, result, err := sel.Run()
	if err != nil {
		return "", mapError(err)
	}
	return result, nil
}

func mapError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return ErrCancelled
	}
	return fmt.Errorf("selection failed: %w", err)
}

package testutil

import (
	"sync"

	"github.com/mtatools/mtatools/internal/prompt"
)

// PromptCall records one FakePrompter.Select call.
type PromptCall struct {
	Label string
	Items []string
}

// FakePrompter is a prompt.Prompter that picks Items[Choice] or cancels.
type FakePrompter struct {
	mu     sync.Mutex
	Choice int
	Cancel bool
	calls  []PromptCall
}

// Select implements prompt.Prompter.
func (f *FakePrompter) Select(label string, items []string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, PromptCall{Label: label, Items: append([]string(nil), items...)})

	if f.Cancel {
		return "", prompt.ErrCancelled
	}
	return items[f.Choice], nil
}

// Calls returns all recorded selections.
func (f *FakePrompter) Calls() []PromptCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]PromptCall(nil), f.calls...)
}

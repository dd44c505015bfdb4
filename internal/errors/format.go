package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// FormatError renders err with colors for terminal output.
func FormatError(err error) string {
	return format(err, true)
}

// FormatErrorPlain renders err without ANSI escape codes.
func FormatErrorPlain(err error) string {
	return format(err, false)
}

// FormatSimpleError renders a plain error under the given category title.
func FormatSimpleError(err error, category ErrorCategory) string {
	if err == nil {
		return ""
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return FormatError(cliErr)
	}
	return FormatError(&CLIError{Category: category, Message: err.Error()})
}

// PrintError writes the formatted error to stderr.
func PrintError(err error) {
	FprintError(os.Stderr, err)
}

// FprintError writes the formatted error to w. Nothing is written for nil.
func FprintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatSimpleError(err, Runtime))
}

func format(err error, colored bool) string {
	if err == nil {
		return ""
	}
	cliErr := AsCLIError(err)
	if cliErr == nil {
		cliErr = &CLIError{Category: Runtime, Message: err.Error()}
	}

	title := fmt.Sprint
	bold := fmt.Sprint
	if colored {
		title = color.New(color.FgRed, color.Bold).Sprint
		bold = color.New(color.Bold).Sprint
	}

	var sb strings.Builder
	sb.WriteString(title(cliErr.Category.String() + ":"))
	sb.WriteString(" ")
	sb.WriteString(cliErr.Message)
	sb.WriteString("\n")

	if cliErr.Usage != "" {
		sb.WriteString("\n")
		sb.WriteString(bold("Usage:"))
		sb.WriteString(" ")
		sb.WriteString(cliErr.Usage)
		sb.WriteString("\n")
	}

	if len(cliErr.Remediation) > 0 {
		sb.WriteString("\n")
		sb.WriteString(bold("To fix this:"))
		sb.WriteString("\n")
		for i, step := range cliErr.Remediation {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, step))
		}
	}

	return sb.String()
}

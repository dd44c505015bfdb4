package diagnostics

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
)

// FileDiagnostics groups the diagnostics of one file.
type FileDiagnostics struct {
	File        string       `json:"file"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Group sorts a snapshot by file. Files without diagnostics are dropped.
func Group(snapshot map[string][]Diagnostic) []FileDiagnostics {
	files := make([]string, 0, len(snapshot))
	for f, diags := range snapshot {
		if len(diags) > 0 {
			files = append(files, f)
		}
	}
	sort.Strings(files)

	out := make([]FileDiagnostics, 0, len(files))
	for _, f := range files {
		out = append(out, FileDiagnostics{File: f, Diagnostics: snapshot[f]})
	}
	return out
}

// Count returns the number of error and warning diagnostics.
func Count(snapshot map[string][]Diagnostic) (errs, warnings int) {
	for _, diags := range snapshot {
		for _, d := range diags {
			switch d.Severity {
			case SeverityError:
				errs++
			case SeverityWarning:
				warnings++
			}
		}
	}
	return errs, warnings
}

// RenderText writes "file:line:col: severity: message" lines with 1-based
// coordinates, followed by a summary line.
func RenderText(w io.Writer, snapshot map[string][]Diagnostic, colored bool) {
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	faint := color.New(color.Faint)
	if colored {
		red.EnableColor()
		yellow.EnableColor()
		faint.EnableColor()
	} else {
		red.DisableColor()
		yellow.DisableColor()
		faint.DisableColor()
	}

	groups := Group(snapshot)
	for _, g := range groups {
		for _, d := range g.Diagnostics {
			sev := d.Severity.String()
			switch d.Severity {
			case SeverityError:
				sev = red.Sprint(sev)
			case SeverityWarning:
				sev = yellow.Sprint(sev)
			}
			fmt.Fprintf(w, "%s:%d:%d: %s: %s", g.File, d.Range.Start.Line+1, d.Range.Start.Character+1, sev, d.Message)
			if d.Source != "" {
				fmt.Fprintf(w, " %s", faint.Sprintf("[%s]", d.Source))
			}
			fmt.Fprintln(w)
		}
	}

	errs, warnings := Count(snapshot)
	if errs == 0 && warnings == 0 {
		fmt.Fprintln(w, "No problems found")
		return
	}
	fmt.Fprintf(w, "%s, %s in %s\n", plural(errs, "error"), plural(warnings, "warning"), plural(len(groups), "file"))
}

// RenderJSON writes the grouped snapshot as an indented JSON array.
func RenderJSON(w io.Writer, snapshot map[string][]Diagnostic) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Group(snapshot)); err != nil {
		return fmt.Errorf("encoding diagnostics: %w", err)
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

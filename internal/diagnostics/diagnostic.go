// Package diagnostics holds named collections of editor-style diagnostics and
// converts MTA validation issues into them.
package diagnostics

import (
	"path/filepath"

	"github.com/mtatools/mtatools/internal/mta"
)

// Source is the origin tag set on every converted diagnostic.
const Source = "MTA"

// Severity of a diagnostic. Values follow the usual editor ordering.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInformation
	SeverityHint
)

// String returns the lower-case severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "information"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Position is a zero-based line/character pair.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range spans two positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Diagnostic is one problem attached to a file.
type Diagnostic struct {
	Range    Range    `json:"range"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Source   string   `json:"source,omitempty"`
}

// ConvertCoordinate maps a 1-based issue coordinate (0 = unknown) to a 0-based one.
func ConvertCoordinate(c int) int {
	return max(c-1, 0)
}

// IssueRange returns the zero-width range at the issue position.
func IssueRange(issue mta.Issue) Range {
	pos := Position{
		Line:      ConvertCoordinate(issue.Line),
		Character: ConvertCoordinate(issue.Column),
	}
	return Range{Start: pos, End: pos}
}

// SeverityFor maps an issue severity for the given file. Everything reported
// against dev.mtaext is a warning.
func SeverityFor(filePath string, severity mta.Severity) Severity {
	if filepath.Base(filePath) == mta.DevExtensionFile {
		return SeverityWarning
	}
	if severity == mta.SeverityWarning {
		return SeverityWarning
	}
	return SeverityError
}

// FromIssues converts the issues of one file. The result is never nil.
func FromIssues(filePath string, issues []mta.Issue) []Diagnostic {
	diags := make([]Diagnostic, 0, len(issues))
	for _, issue := range issues {
		diags = append(diags, Diagnostic{
			Range:    IssueRange(issue),
			Message:  issue.Message,
			Severity: SeverityFor(filePath, issue.Severity),
			Source:   Source,
		})
	}
	return diags
}

// Package mta parses and validates MTA project descriptors (mta.yaml) and
// extension descriptors (*.mtaext), reporting issues with 1-based positions.
package mta

import (
	"fmt"
	"strings"
)

// Severity of a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one problem found in a descriptor file.
// Line and Column are 1-based; 0 means the position is unknown.
type Issue struct {
	Severity Severity
	Message  string
	Line     int
	Column   int
}

// String returns "line:column: severity: message".
func (i Issue) String() string {
	var sb strings.Builder
	if i.Line > 0 {
		sb.WriteString(fmt.Sprintf("%d", i.Line))
		if i.Column > 0 {
			sb.WriteString(fmt.Sprintf(":%d", i.Column))
		}
		sb.WriteString(": ")
	}
	sb.WriteString(string(i.Severity))
	sb.WriteString(": ")
	sb.WriteString(i.Message)
	return sb.String()
}

// HasErrors reports whether any issue in the result has error severity.
func HasErrors(result map[string][]Issue) bool {
	for _, issues := range result {
		for _, issue := range issues {
			if issue.Severity == SeverityError {
				return true
			}
		}
	}
	return false
}

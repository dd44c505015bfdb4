package mta

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

var yamlLineErr = regexp.MustCompile(`^yaml: line (\d+): (.*)$`)

// parseFile parses a YAML file into its root mapping node. Syntax problems are
// returned as issues rather than errors; only I/O failures are errors.
func parseFile(path string) (*yaml.Node, []Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	root, issues := parseBytes(data)
	return root, issues, nil
}

func parseBytes(data []byte) (*yaml.Node, []Issue) {
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, []Issue{{Severity: SeverityError, Message: "the file is empty"}}
		}
		return nil, []Issue{syntaxIssue(err)}
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, []Issue{{
			Severity: SeverityError,
			Message:  "the file content must be a YAML mapping",
			Line:     root.Line,
			Column:   root.Column,
		}}
	}
	return root, nil
}

func syntaxIssue(err error) Issue {
	if m := yamlLineErr.FindStringSubmatch(err.Error()); m != nil {
		line, _ := strconv.Atoi(m[1])
		return Issue{Severity: SeverityError, Message: m[2], Line: line}
	}
	return Issue{Severity: SeverityError, Message: err.Error()}
}

// duplicateKeys reports every mapping key that repeats an earlier key of the
// same mapping, recursively.
func duplicateKeys(node *yaml.Node) []Issue {
	if node == nil {
		return nil
	}

	var issues []Issue
	if node.Kind == yaml.MappingNode {
		first := make(map[string]*yaml.Node)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if prev, ok := first[key.Value]; ok {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("mapping key %q already defined at line %d", key.Value, prev.Line),
					Line:     key.Line,
					Column:   key.Column,
				})
				continue
			}
			first[key.Value] = key
		}
	}
	for _, child := range node.Content {
		issues = append(issues, duplicateKeys(child)...)
	}
	return issues
}

// findNode returns the value of the first occurrence of key in a mapping node.
func findNode(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// scalarValue returns the value of a scalar child, or "" when absent or not a scalar.
func scalarValue(node *yaml.Node, key string) string {
	child := findNode(node, key)
	if child == nil || child.Kind != yaml.ScalarNode {
		return ""
	}
	return child.Value
}

// sequence returns the items of a sequence child.
func sequence(node *yaml.Node, key string) []*yaml.Node {
	child := findNode(node, key)
	if child == nil || child.Kind != yaml.SequenceNode {
		return nil
	}
	return child.Content
}

func issueAt(node *yaml.Node, severity Severity, format string, args ...interface{}) Issue {
	issue := Issue{Severity: severity, Message: fmt.Sprintf(format, args...)}
	if node != nil {
		issue.Line = node.Line
		issue.Column = node.Column
	}
	return issue
}

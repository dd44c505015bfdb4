package taskprovider

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mtatools/mtatools/internal/workspace"
)

// DefaultTasksFile is the tasks file looked up in a project folder.
const DefaultTasksFile = ".vscode/tasks.json"

// TasksFile is the content of a tasks.json file.
type TasksFile struct {
	Version string          `yaml:"version" json:"version"`
	Tasks   []RawDefinition `yaml:"tasks" json:"tasks"`
}

// LoadTasksFile reads a tasks.json file. Line comments and trailing commas are
// accepted, as editors write them. Tasks of other types are kept; callers
// filter by Type. file:// URIs in mtaFilePath and mtarPath become paths.
func LoadTasksFile(path string) (*TasksFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tasks file: %w", err)
	}

	var tf TasksFile
	if err := yaml.Unmarshal(dropTrailingCommas(stripJSONComments(data)), &tf); err != nil {
		return nil, fmt.Errorf("parsing tasks file %s: %w", filepath.Base(path), err)
	}
	for i := range tf.Tasks {
		if tf.Tasks[i].MtaFilePath != "" {
			tf.Tasks[i].MtaFilePath = workspace.FromURI(tf.Tasks[i].MtaFilePath)
		}
		if tf.Tasks[i].MtarPath != "" {
			tf.Tasks[i].MtarPath = workspace.FromURI(tf.Tasks[i].MtarPath)
		}
	}
	return &tf, nil
}

// Find returns the MTA task with the given label.
func (tf *TasksFile) Find(label string) (RawDefinition, bool) {
	for _, t := range tf.Tasks {
		if t.Label == label && (t.Type == TypeBuild || t.Type == TypeDeploy) {
			return t, true
		}
	}
	return RawDefinition{}, false
}

// stripJSONComments blanks // and /* */ comments outside string literals and
// turns tabs into spaces so the result parses as a YAML flow document.
func stripJSONComments(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inString, escaped := false, false

	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			out = append(out, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
			out = append(out, c)
		case c == '/' && i+1 < len(data) && data[i+1] == '/':
			for i < len(data) && data[i] != '\n' {
				i++
			}
			if i < len(data) {
				out = append(out, '\n')
			}
		case c == '/' && i+1 < len(data) && data[i+1] == '*':
			i += 2
			for i < len(data) && !(data[i] == '*' && i+1 < len(data) && data[i+1] == '/') {
				if data[i] == '\n' {
					out = append(out, '\n')
				}
				i++
			}
			i++
		case c == '\t':
			out = append(out, ' ')
		default:
			out = append(out, c)
		}
	}
	return out
}

// dropTrailingCommas removes commas directly followed, after whitespace, by a
// closing bracket or brace. Input must already be free of comments.
func dropTrailingCommas(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inString, escaped := false, false

	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			out = append(out, c)
			continue
		}
		if c == '"' {
			inString = true
		}
		if c == ',' {
			j := i + 1
			for j < len(data) && (data[j] == ' ' || data[j] == '\n' || data[j] == '\r') {
				j++
			}
			if j < len(data) && (data[j] == '}' || data[j] == ']') {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

package mta

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDescriptor = `_schema-version: "3.1"
ID: proj
version: 1.0.0
modules:
  - name: core
    type: nodejs
    provides:
      - name: core-api
  - name: ui
    type: html5
    requires:
      - name: core-api
      - name: uaa
resources:
  - name: uaa
    type: org.cloudfoundry.managed-service
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidator_Descriptor(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content string
		want    []Issue
	}{
		"valid descriptor has no issues": {
			content: validDescriptor,
			want:    nil,
		},
		"duplicate key is a warning": {
			content: "_schema-version: \"3.1\"\n_schema-version: \"3.1\"\nID: proj\nversion: 0.0.1\n",
			want: []Issue{{
				Severity: SeverityWarning,
				Message:  `mapping key "_schema-version" already defined at line 1`,
				Line:     2,
				Column:   1,
			}},
		},
		"missing ID is reported at the document root": {
			content: "_schema-version: \"3.1\"\nversion: 1.0.0\n",
			want: []Issue{{
				Severity: SeverityError,
				Message:  `missing the required "ID" property`,
				Line:     1,
				Column:   1,
			}},
		},
		"invalid ID is reported at the value": {
			content: "_schema-version: \"3.1\"\nID: my proj\n",
			want: []Issue{{
				Severity: SeverityError,
				Message:  `"my proj" is not a valid MTA ID; only letters, digits, "_", "-" and "." are allowed`,
				Line:     2,
				Column:   5,
			}},
		},
		"invalid version": {
			content: "_schema-version: \"3.1\"\nID: proj\nversion: \"1.0\"\n",
			want: []Issue{{
				Severity: SeverityError,
				Message:  `"1.0" is not a valid semantic version`,
				Line:     3,
				Column:   10,
			}},
		},
		"module without type": {
			content: "_schema-version: \"3.1\"\nID: proj\nmodules:\n  - name: core\n",
			want: []Issue{{
				Severity: SeverityError,
				Message:  `missing the required "type" property`,
				Line:     4,
				Column:   5,
			}},
		},
		"duplicate module name": {
			content: "_schema-version: \"3.1\"\nID: proj\nmodules:\n  - name: core\n    type: nodejs\n  - name: core\n    type: java\n",
			want: []Issue{{
				Severity: SeverityError,
				Message:  `the "core" module name is not unique; it is also defined at line 4`,
				Line:     6,
				Column:   11,
			}},
		},
		"unresolved requirement is a warning": {
			content: "_schema-version: \"3.1\"\nID: proj\nmodules:\n  - name: core\n    type: nodejs\n    requires:\n      - name: db\n",
			want: []Issue{{
				Severity: SeverityWarning,
				Message:  `the "db" requirement of the "core" module is not provided by any module or resource`,
				Line:     7,
				Column:   15,
			}},
		},
		"syntax error carries the yaml line": {
			content: "ID: a: b\n",
			want: []Issue{{
				Severity: SeverityError,
				Message:  "mapping values are not allowed in this context",
				Line:     1,
			}},
		},
		"non-mapping document": {
			content: "- a\n- b\n",
			want: []Issue{{
				Severity: SeverityError,
				Message:  "the file content must be a YAML mapping",
				Line:     1,
				Column:   1,
			}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := writeFile(t, dir, DescriptorFile, tt.content)

			result, err := NewValidator().Validate(context.Background(), dir, nil)
			require.NoError(t, err)
			require.Contains(t, result, path)
			assert.Len(t, result, 1)
			assert.Equal(t, tt.want, result[path])
		})
	}
}

func TestValidator_Extension(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content string
		want    []Issue
	}{
		"matching extension": {
			content: "_schema-version: \"3.1\"\nID: proj.dev\nextends: proj\nmodules:\n  - name: core\nresources:\n  - name: uaa\n",
			want:    nil,
		},
		"extends a different MTA": {
			content: "_schema-version: \"3.1\"\nID: proj.dev\nextends: other\n",
			want: []Issue{{
				Severity: SeverityError,
				Message:  `the "other" extended MTA ID does not match the "proj" MTA ID`,
				Line:     3,
				Column:   10,
			}},
		},
		"unknown module and resource": {
			content: "_schema-version: \"3.1\"\nID: proj.dev\nextends: proj\nmodules:\n  - name: nope\nresources:\n  - name: db\n",
			want: []Issue{
				{Severity: SeverityError, Message: `the "nope" module is not defined in the MTA descriptor`, Line: 5, Column: 11},
				{Severity: SeverityError, Message: `the "db" resource is not defined in the MTA descriptor`, Line: 7, Column: 11},
			},
		},
		"missing extends": {
			content: "_schema-version: \"3.1\"\nID: proj.dev\n",
			want: []Issue{{
				Severity: SeverityError,
				Message:  `missing the required "extends" property`,
				Line:     1,
				Column:   1,
			}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			descPath := writeFile(t, dir, DescriptorFile, validDescriptor)
			extPath := writeFile(t, dir, DevExtensionFile, tt.content)

			result, err := NewValidator().Validate(context.Background(), dir, []string{extPath})
			require.NoError(t, err)
			assert.Len(t, result, 2)
			assert.Empty(t, result[descPath])
			assert.Equal(t, tt.want, result[extPath])
		})
	}
}

func TestValidator_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing descriptor", func(t *testing.T) {
		t.Parallel()
		_, err := NewValidator().Validate(context.Background(), t.TempDir(), nil)
		assert.Error(t, err)
	})

	t.Run("missing extension", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, DescriptorFile, validDescriptor)
		_, err := NewValidator().Validate(context.Background(), dir, []string{filepath.Join(dir, "gone.mtaext")})
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, DescriptorFile, validDescriptor)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewValidator().Validate(ctx, dir, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestHasErrors(t *testing.T) {
	t.Parallel()

	assert.False(t, HasErrors(nil))
	assert.False(t, HasErrors(map[string][]Issue{"a": {{Severity: SeverityWarning}}}))
	assert.True(t, HasErrors(map[string][]Issue{"a": nil, "b": {{Severity: SeverityError}}}))
}

func TestIssue_String(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		issue Issue
		want  string
	}{
		"with position": {
			issue: Issue{Severity: SeverityError, Message: "boom", Line: 3, Column: 7},
			want:  "3:7: error: boom",
		},
		"line only": {
			issue: Issue{Severity: SeverityWarning, Message: "hmm", Line: 3},
			want:  "3: warning: hmm",
		},
		"no position": {
			issue: Issue{Severity: SeverityError, Message: "empty"},
			want:  "error: empty",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.issue.String())
		})
	}
}

// Package testutil provides test utilities and helpers for mtatools tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CreateTempProject writes <root>/<name>/mta.yaml declaring the given modules
// and returns the descriptor path.
func CreateTempProject(t *testing.T, root, name string, modules ...string) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("_schema-version: \"3.1\"\n")
	sb.WriteString(fmt.Sprintf("ID: %s\n", name))
	sb.WriteString("version: 1.0.0\n")
	if len(modules) > 0 {
		sb.WriteString("modules:\n")
		for _, m := range modules {
			sb.WriteString(fmt.Sprintf("  - name: %s\n    type: nodejs\n    path: %s\n", m, m))
		}
	}

	path := filepath.Join(root, name, "mta.yaml")
	WriteFile(t, path, sb.String())
	return path
}

// CreateTempMtar writes an empty archive file and returns its path.
func CreateTempMtar(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	WriteFile(t, path, "")
	return path
}

// WriteCFConfig writes <cfHome>/.cf/config.json with the given targeted org
// and space and returns its path.
func WriteCFConfig(t *testing.T, cfHome, org, space string) string {
	t.Helper()

	cfg := map[string]interface{}{
		"ConfigVersion":      3,
		"Target":             "https://api.cf.example.com",
		"OrganizationFields": map[string]string{"Name": org},
		"SpaceFields":        map[string]string{"Name": space},
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("failed to marshal cf config: %v", err)
	}

	path := filepath.Join(cfHome, ".cf", "config.json")
	WriteFile(t, path, string(data))
	return path
}

// WriteFile writes content to a file, creating parent directories as needed.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadFile reads a file and returns its content.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}
	return string(data)
}

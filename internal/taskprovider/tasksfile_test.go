package taskprovider

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtatools/mtatools/internal/testutil"
	"github.com/mtatools/mtatools/internal/workspace"
)

const tasksJSON = `{
	// See https://go.microsoft.com/fwlink/?LinkId=733558
	"version": "2.0.0",
	"tasks": [
		{
			"type": "build-mta",
			"label": "Build core", /* module only */
			"taskType": "Build",
			"mtaFilePath": "/w/proj/mta.yaml",
			"buildType": "Build MTA Module",
			"modules": ["core",],
			"dependencies": ["Build with dependencies"],
		},
		{
			"type": "deploy-mta",
			"label": "Deploy // prod",
			"mtarPath": "/w/proj/mta_archives/app.mtar",
			"extPath": "/w/proj/prod.mtaext"
		},
		{
			"type": "shell",
			"label": "lint",
			"command": "npm run lint"
		}
	]
}
`

func TestLoadTasksFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".vscode", "tasks.json")
	testutil.WriteFile(t, path, tasksJSON)

	tf, err := LoadTasksFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", tf.Version)
	require.Len(t, tf.Tasks, 3)

	assert.Equal(t, RawDefinition{
		Type:         TypeBuild,
		Label:        "Build core",
		TaskType:     TaskTypeBuild,
		MtaFilePath:  "/w/proj/mta.yaml",
		BuildType:    BuildModule,
		Modules:      []string{"core"},
		Dependencies: []string{BuildWithDependencies},
	}, tf.Tasks[0])
	assert.Equal(t, "Deploy // prod", tf.Tasks[1].Label)
	assert.Equal(t, "/w/proj/prod.mtaext", tf.Tasks[1].ExtPath)

	got, ok := tf.Find("Deploy // prod")
	require.True(t, ok)
	assert.Equal(t, TypeDeploy, got.Type)

	_, ok = tf.Find("lint")
	assert.False(t, ok, "non-MTA tasks are not returned")
	_, ok = tf.Find("missing")
	assert.False(t, ok)
}

func TestLoadTasksFile_FileURIs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tasks.json")
	testutil.WriteFile(t, path, `{"tasks": [
		{"type": "build-mta", "label": "b", "mtaFilePath": "file:///w/my%20proj/mta.yaml", "buildType": "Build MTA Project"},
		{"type": "deploy-mta", "label": "d", "mtarPath": "file:///w/app.mtar"}
	]}`)

	tf, err := LoadTasksFile(path)
	require.NoError(t, err)
	require.Len(t, tf.Tasks, 2)
	assert.Equal(t, workspace.NormalizePath("/w/my proj/mta.yaml"), tf.Tasks[0].MtaFilePath)
	assert.Equal(t, workspace.NormalizePath("/w/app.mtar"), tf.Tasks[1].MtarPath)
}

func TestLoadTasksFile_Errors(t *testing.T) {
	t.Parallel()

	_, err := LoadTasksFile(filepath.Join(t.TempDir(), "tasks.json"))
	assert.ErrorContains(t, err, "reading tasks file")

	path := filepath.Join(t.TempDir(), "tasks.json")
	testutil.WriteFile(t, path, `{"tasks": [`)
	_, err = LoadTasksFile(path)
	assert.ErrorContains(t, err, "parsing tasks file tasks.json")
}

func TestStripJSONComments(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  string
	}{
		"line comment": {
			input: "{\"a\": 1} // trailing\n",
			want:  "{\"a\": 1} \n",
		},
		"block comment": {
			input: "{/* x\ny */\"a\": 1}",
			want:  "{\n\"a\": 1}",
		},
		"slashes in string": {
			input: `{"url": "https://example.com"}`,
			want:  `{"url": "https://example.com"}`,
		},
		"escaped quote in string": {
			input: `{"a": "say \"//hi\""}`,
			want:  `{"a": "say \"//hi\""}`,
		},
		"tabs": {
			input: "{\n\t\"a\": 1\n}",
			want:  "{\n \"a\": 1\n}",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, string(stripJSONComments([]byte(tt.input))))
		})
	}
}

func TestDropTrailingCommas(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  string
	}{
		"object": {input: `{"a": 1, }`, want: `{"a": 1 }`},
		"array":  {input: "[1, 2,\n]", want: "[1, 2\n]"},
		"inner":  {input: `{"a": 1, "b": 2}`, want: `{"a": 1, "b": 2}`},
		"string": {input: `{"a": ",}"}`, want: `{"a": ",}"}`},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, string(dropTrailingCommas([]byte(tt.input))))
		})
	}
}

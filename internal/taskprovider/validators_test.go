package taskprovider

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtatools/mtatools/internal/messages"
	"github.com/mtatools/mtatools/internal/testutil"
)

func TestValidators(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ext := filepath.Join(dir, "prod.mtaext")
	testutil.WriteFile(t, ext, "_schema-version: \"3.1\"\n")
	missing := filepath.Join(dir, "missing")

	assert.Empty(t, ValidateExtPath(""))
	assert.Empty(t, ValidateExtPath(ext))
	assert.Equal(t, messages.MtaExtPathValidationErr, ValidateExtPath(missing))

	assert.Empty(t, ValidateTargetFolder(""))
	assert.Empty(t, ValidateTargetFolder(dir))
	assert.Equal(t, messages.TargetFolderPathValidationErr, ValidateTargetFolder(missing))

	assert.Empty(t, ValidateModules([]string{"core"}))
	assert.Equal(t, messages.ModulesValidationErr, ValidateModules(nil))
	assert.Equal(t, messages.ModulesValidationErr, ValidateModules([]string{}))
}

func TestCheckDefinition(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	missing := filepath.Join(dir, "missing")

	tests := map[string]struct {
		raw  RawDefinition
		want []FieldProblem
	}{
		"valid project build": {
			raw:  RawDefinition{Type: TypeBuild, Label: "b", MtaFilePath: "/p/mta.yaml", BuildType: BuildProject, MtarTargetPath: dir},
			want: []FieldProblem{},
		},
		"project build with missing target": {
			raw: RawDefinition{Type: TypeBuild, Label: "b", MtaFilePath: "/p/mta.yaml", BuildType: BuildProject, MtarTargetPath: missing},
			want: []FieldProblem{
				{Field: "mtarTargetPath", Message: messages.TargetFolderPathValidationErr},
			},
		},
		"module build without modules": {
			raw: RawDefinition{Type: TypeBuild, Label: "m", MtaFilePath: "/p/mta.yaml", BuildType: BuildModule, ExtPath: missing},
			want: []FieldProblem{
				{Field: "extPath", Message: messages.MtaExtPathValidationErr},
				{Field: "modules", Message: messages.ModulesValidationErr},
			},
		},
		"build without mtaFilePath": {
			raw: RawDefinition{Type: TypeBuild, Label: "b", BuildType: BuildProject},
			want: []FieldProblem{
				{Field: "mtaFilePath", Message: messages.MtaPropertyMissing("b")},
			},
		},
		"deploy without mtarPath": {
			raw: RawDefinition{Type: TypeDeploy, Label: "d", ExtPath: missing},
			want: []FieldProblem{
				{Field: "mtarPath", Message: messages.MtarPropertyMissing("d")},
				{Field: "extPath", Message: messages.MtaExtPathValidationErr},
			},
		},
		"other type": {
			raw: RawDefinition{Type: "shell", Label: "s"},
			want: []FieldProblem{
				{Field: "type", Message: `unsupported task type "shell"`},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CheckDefinition(tt.raw))
		})
	}
}

func TestBuildTypeOptions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	withModules := testutil.CreateTempProject(t, root, "full", "core", "ui")
	bare := testutil.CreateTempProject(t, root, "bare")

	got, err := BuildTypeOptions(withModules)
	require.NoError(t, err)
	assert.Equal(t, []string{BuildProject, BuildModule}, got)

	got, err = BuildTypeOptions(bare)
	require.NoError(t, err)
	assert.Equal(t, []string{BuildProject}, got)

	names, err := ModuleNames(withModules)
	require.NoError(t, err)
	assert.Equal(t, []string{"core", "ui"}, names)

	_, err = BuildTypeOptions(filepath.Join(root, "none", "mta.yaml"))
	assert.Error(t, err)
}

package taskprovider

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/mtatools/mtatools/internal/messages"
	"github.com/mtatools/mtatools/internal/mta"
)

// FieldProblem is a user-facing problem with one task definition property.
type FieldProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateExtPath accepts an empty path or a path to an existing file.
// It returns the error message, or "" when valid.
func ValidateExtPath(path string) string {
	if path == "" || exists(path) {
		return ""
	}
	return messages.MtaExtPathValidationErr
}

// ValidateTargetFolder accepts an empty path or a path to an existing folder.
func ValidateTargetFolder(path string) string {
	if path == "" || exists(path) {
		return ""
	}
	return messages.TargetFolderPathValidationErr
}

// ValidateModules requires at least one module.
func ValidateModules(modules []string) string {
	if len(modules) == 0 {
		return messages.ModulesValidationErr
	}
	return ""
}

// CheckDefinition returns every problem of raw: missing mandatory properties
// and optional paths that do not exist.
func CheckDefinition(raw RawDefinition) []FieldProblem {
	problems := []FieldProblem{}
	add := func(field, msg string) {
		if msg != "" {
			problems = append(problems, FieldProblem{Field: field, Message: msg})
		}
	}

	if _, err := Decode(raw); err != nil {
		var fe *FieldError
		switch {
		case errors.As(err, &fe) && fe.Field == "modules":
			// reported by ValidateModules below
		case fe != nil:
			add(fe.Field, fe.Error())
		default:
			add("type", err.Error())
		}
	}

	switch raw.Type {
	case TypeBuild:
		add("extPath", ValidateExtPath(raw.ExtPath))
		if raw.BuildType == BuildModule {
			add("modules", ValidateModules(raw.Modules))
			add("targetFolderPath", ValidateTargetFolder(raw.TargetFolderPath))
		} else {
			add("mtarTargetPath", ValidateTargetFolder(raw.MtarTargetPath))
		}
	case TypeDeploy:
		add("extPath", ValidateExtPath(raw.ExtPath))
	}
	return problems
}

// BuildTypeOptions lists the build types offered for the project of mtaFilePath.
// Module builds are offered only when the descriptor declares modules.
func BuildTypeOptions(mtaFilePath string) ([]string, error) {
	names, err := ModuleNames(mtaFilePath)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return []string{BuildProject}, nil
	}
	return []string{BuildProject, BuildModule}, nil
}

// ModuleNames lists the module names declared in the descriptor at mtaFilePath.
func ModuleNames(mtaFilePath string) ([]string, error) {
	desc, err := mta.LoadDescriptor(filepath.Dir(mtaFilePath))
	if err != nil {
		return nil, err
	}
	return desc.ModuleNames(), nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

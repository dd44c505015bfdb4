// Package taskprovider turns MTA build and deploy task definitions into
// runnable shell command lines, and auto-detects tasks for the workspace.
package taskprovider

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mtatools/mtatools/internal/messages"
)

// Task definition types.
const (
	TypeBuild  = "build-mta"
	TypeDeploy = "deploy-mta"
)

// Build types and the module build dependency option.
const (
	BuildProject          = "Build MTA Project"
	BuildModule           = "Build MTA Module"
	BuildWithDependencies = "Build with dependencies"
)

// Task type labels of auto-detected tasks.
const (
	TaskTypeBuild  = "Build"
	TaskTypeDeploy = "Deploy"
)

var (
	// ErrMissingField is wrapped by decode errors for absent mandatory properties.
	ErrMissingField = errors.New("missing mandatory property")
	// ErrUnsupportedType is returned for definitions of another task type.
	ErrUnsupportedType = errors.New("unsupported task type")
	// ErrInvalidBuildType is returned for an unknown buildType value.
	ErrInvalidBuildType = errors.New("invalid build type")
)

// RawDefinition is a task definition as written in a tasks file.
type RawDefinition struct {
	Type             string   `yaml:"type" json:"type"`
	Label            string   `yaml:"label" json:"label"`
	TaskType         string   `yaml:"taskType,omitempty" json:"taskType,omitempty"`
	MtaFilePath      string   `yaml:"mtaFilePath,omitempty" json:"mtaFilePath,omitempty"`
	BuildType        string   `yaml:"buildType,omitempty" json:"buildType,omitempty"`
	MtarTargetPath   string   `yaml:"mtarTargetPath,omitempty" json:"mtarTargetPath,omitempty"`
	MtarName         string   `yaml:"mtarName,omitempty" json:"mtarName,omitempty"`
	ExtPath          string   `yaml:"extPath,omitempty" json:"extPath,omitempty"`
	Modules          []string `yaml:"modules,omitempty" json:"modules,omitempty"`
	Dependencies     []string `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	TargetFolderPath string   `yaml:"targetFolderPath,omitempty" json:"targetFolderPath,omitempty"`
	MtarPath         string   `yaml:"mtarPath,omitempty" json:"mtarPath,omitempty"`
}

// Definition is a decoded, well-formed task definition: one of
// ProjectBuild, ModuleBuild or Deploy.
type Definition interface {
	definition()
}

// ProjectBuild builds the whole MTA archive.
type ProjectBuild struct {
	MtaFilePath    string `json:"mtaFilePath" validate:"required"`
	MtarTargetPath string `json:"mtarTargetPath"`
	MtarName       string `json:"mtarName"`
	ExtPath        string `json:"extPath"`
}

// ModuleBuild builds selected modules.
type ModuleBuild struct {
	MtaFilePath      string   `json:"mtaFilePath" validate:"required"`
	Modules          []string `json:"modules" validate:"required,min=1"`
	WithDependencies bool     `json:"dependencies"`
	TargetFolderPath string   `json:"targetFolderPath"`
	ExtPath          string   `json:"extPath"`
}

// Deploy deploys an MTA archive.
type Deploy struct {
	MtarPath string `json:"mtarPath" validate:"required"`
	ExtPath  string `json:"extPath"`
}

func (ProjectBuild) definition() {}
func (ModuleBuild) definition()  {}
func (Deploy) definition()       {}

// FieldError reports a missing or invalid property of a named task.
type FieldError struct {
	Task  string
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	switch {
	case errors.Is(e.Err, ErrMissingField):
		switch e.Field {
		case "mtaFilePath":
			return messages.MtaPropertyMissing(e.Task)
		case "buildType":
			return messages.BuildTypePropertyMissing(e.Task)
		case "modules":
			return messages.ModulesPropertyMissing(e.Task)
		case "mtarPath":
			return messages.MtarPropertyMissing(e.Task)
		}
		return fmt.Sprintf("The %q task is missing the %s property", e.Task, e.Field)
	default:
		return fmt.Sprintf("The %q task has an invalid %s property: %v", e.Task, e.Field, e.Err)
	}
}

func (e *FieldError) Unwrap() error { return e.Err }

var validate = newDefinitionValidator()

func newDefinitionValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Decode checks the mandatory properties of raw and returns the typed definition.
func Decode(raw RawDefinition) (Definition, error) {
	var def Definition
	switch raw.Type {
	case TypeBuild:
		if raw.MtaFilePath == "" {
			return nil, &FieldError{Task: raw.Label, Field: "mtaFilePath", Err: ErrMissingField}
		}
		switch raw.BuildType {
		case "":
			return nil, &FieldError{Task: raw.Label, Field: "buildType", Err: ErrMissingField}
		case BuildProject:
			def = ProjectBuild{
				MtaFilePath:    raw.MtaFilePath,
				MtarTargetPath: raw.MtarTargetPath,
				MtarName:       raw.MtarName,
				ExtPath:        raw.ExtPath,
			}
		case BuildModule:
			def = ModuleBuild{
				MtaFilePath:      raw.MtaFilePath,
				Modules:          raw.Modules,
				WithDependencies: len(raw.Dependencies) > 0,
				TargetFolderPath: raw.TargetFolderPath,
				ExtPath:          raw.ExtPath,
			}
		default:
			return nil, &FieldError{Task: raw.Label, Field: "buildType", Err: fmt.Errorf("%w %q", ErrInvalidBuildType, raw.BuildType)}
		}
	case TypeDeploy:
		def = Deploy{MtarPath: raw.MtarPath, ExtPath: raw.ExtPath}
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedType, raw.Type)
	}

	if err := validate.Struct(def); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return nil, &FieldError{Task: raw.Label, Field: fieldErrs[0].Field(), Err: ErrMissingField}
		}
		return nil, err
	}
	return def, nil
}

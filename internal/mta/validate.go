package mta

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var mtaIDPattern = regexp.MustCompile(`^[A-Za-z0-9_\-\.]+$`)

// Validator checks an MTA project descriptor together with its extension
// descriptors. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator with the MTA-specific struct rules registered.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("mtaid", func(fl validator.FieldLevel) bool {
		return mtaIDPattern.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Validate checks <projectDir>/mta.yaml and every extension path given.
// The result has an entry, possibly empty, for each validated file.
// Problems in the files are issues; only I/O failures are returned as errors.
func (v *Validator) Validate(ctx context.Context, projectDir string, extensions []string) (map[string][]Issue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := make(map[string][]Issue)
	descPath := filepath.Join(projectDir, DescriptorFile)

	desc, issues, err := v.validateDescriptor(descPath)
	if err != nil {
		return nil, err
	}
	result[descPath] = issues

	for _, extPath := range extensions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		issues, err := v.validateExtension(extPath, desc)
		if err != nil {
			return nil, err
		}
		result[extPath] = issues
	}

	return result, nil
}

func (v *Validator) validateDescriptor(path string) (*Descriptor, []Issue, error) {
	root, issues, err := parseFile(path)
	if err != nil || root == nil {
		return nil, issues, err
	}

	issues = append(issues, duplicateKeys(root)...)
	desc, pos := buildDescriptor(root)
	issues = append(issues, v.structIssues(desc, pos)...)
	issues = append(issues, uniqueNames("module", "modules", moduleNames(desc), pos)...)
	issues = append(issues, uniqueNames("resource", "resources", resourceNames(desc), pos)...)
	issues = append(issues, unresolvedRequires(desc, pos)...)

	sortIssues(issues)
	return desc, issues, nil
}

func (v *Validator) validateExtension(path string, desc *Descriptor) ([]Issue, error) {
	root, issues, err := parseFile(path)
	if err != nil || root == nil {
		return issues, err
	}

	issues = append(issues, duplicateKeys(root)...)
	ext, pos := buildExtension(root)
	issues = append(issues, v.structIssues(ext, pos)...)

	if desc != nil {
		if ext.Extends != "" && ext.Extends != desc.ID {
			issues = append(issues, issueAt(pos.lookup("extends"), SeverityError,
				"the %q extended MTA ID does not match the %q MTA ID", ext.Extends, desc.ID))
		}
		issues = append(issues, unknownReferences("module", "modules", ext.Modules, desc.ModuleNames(), pos)...)
		issues = append(issues, unknownReferences("resource", "resources", ext.Resources, resourceNames(desc), pos)...)
	}

	sortIssues(issues)
	return issues, nil
}

// structIssues converts validator field errors into positioned issues.
func (v *Validator) structIssues(s interface{}, pos positions) []Issue {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Issue{{Severity: SeverityError, Message: err.Error()}}
	}

	issues := make([]Issue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		ns := fe.Namespace()
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		issues = append(issues, issueAt(pos.lookup(ns), SeverityError, "%s", fieldMessage(fe)))
	}
	return issues
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("missing the required %q property", fe.Field())
	case "mtaid":
		return fmt.Sprintf(`%q is not a valid MTA ID; only letters, digits, "_", "-" and "." are allowed`, fe.Value())
	case "semver":
		return fmt.Sprintf("%q is not a valid semantic version", fe.Value())
	default:
		return fmt.Sprintf("the %q property is invalid", fe.Field())
	}
}

func uniqueNames(kind, section string, names []string, pos positions) []Issue {
	var issues []Issue
	seen := make(map[string]*yaml.Node)
	for i := range names {
		if names[i] == "" {
			continue
		}
		node := pos.lookup(index(section, i) + ".name")
		if prev, ok := seen[names[i]]; ok {
			issues = append(issues, issueAt(node, SeverityError,
				"the %q %s name is not unique; it is also defined at line %d", names[i], kind, prev.Line))
			continue
		}
		seen[names[i]] = node
	}
	return issues
}

func unresolvedRequires(desc *Descriptor, pos positions) []Issue {
	provided := make(map[string]bool)
	for _, m := range desc.Modules {
		for _, p := range m.Provides {
			provided[p.Name] = true
		}
	}
	for _, r := range desc.Resources {
		provided[r.Name] = true
	}

	var issues []Issue
	for i, m := range desc.Modules {
		for j, r := range m.Requires {
			if r.Name == "" || provided[r.Name] {
				continue
			}
			ns := index(join(index("modules", i), "requires"), j) + ".name"
			issues = append(issues, issueAt(pos.lookup(ns), SeverityWarning,
				"the %q requirement of the %q module is not provided by any module or resource", r.Name, m.Name))
		}
	}
	return issues
}

func unknownReferences(kind, section string, refs []Reference, known []string, pos positions) []Issue {
	exists := make(map[string]bool, len(known))
	for _, name := range known {
		exists[name] = true
	}

	var issues []Issue
	for i, ref := range refs {
		if ref.Name == "" || exists[ref.Name] {
			continue
		}
		issues = append(issues, issueAt(pos.lookup(index(section, i)+".name"), SeverityError,
			"the %q %s is not defined in the MTA descriptor", ref.Name, kind))
	}
	return issues
}

// moduleNames keeps empty names so indexes line up with recorded positions.
func moduleNames(desc *Descriptor) []string {
	names := make([]string, len(desc.Modules))
	for i, m := range desc.Modules {
		names[i] = m.Name
	}
	return names
}

func resourceNames(desc *Descriptor) []string {
	names := make([]string, len(desc.Resources))
	for i, r := range desc.Resources {
		names[i] = r.Name
	}
	return names
}

func sortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Line != issues[j].Line {
			return issues[i].Line < issues[j].Line
		}
		return issues[i].Column < issues[j].Column
	})
}

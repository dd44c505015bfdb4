// Package validation keeps MTA diagnostics up to date: it validates projects,
// publishes the results into diagnostics collections and reacts to file and
// workspace folder changes.
package validation

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mtatools/mtatools/internal/mta"
)

// Validator validates a project directory together with optional extension
// descriptors. mta.Validator is the production implementation.
type Validator interface {
	Validate(ctx context.Context, projectDir string, extensions []string) (map[string][]mta.Issue, error)
}

// Adapter decides which files take part in a project validation.
type Adapter struct {
	validator Validator
}

// NewAdapter wraps v.
func NewAdapter(v Validator) *Adapter {
	return &Adapter{validator: v}
}

// Validate returns the issues of projectDir by file path. A project without
// mta.yaml yields an empty result without running the validator. dev.mtaext
// is included only when it exists.
func (a *Adapter) Validate(ctx context.Context, projectDir string) (map[string][]mta.Issue, error) {
	if !exists(filepath.Join(projectDir, mta.DescriptorFile)) {
		return map[string][]mta.Issue{}, nil
	}

	var extensions []string
	devPath := filepath.Join(projectDir, mta.DevExtensionFile)
	if exists(devPath) {
		extensions = []string{devPath}
	}

	return a.validator.Validate(ctx, projectDir, extensions)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

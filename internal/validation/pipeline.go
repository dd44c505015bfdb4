package validation

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/mtatools/mtatools/internal/diagnostics"
	"github.com/mtatools/mtatools/internal/messages"
	"github.com/mtatools/mtatools/internal/workspace"
)

// DefaultConcurrency bounds parallel project validations when none is configured.
const DefaultConcurrency = 4

// Pipeline validates projects and replaces their diagnostics atomically.
type Pipeline struct {
	cache       *diagnostics.Cache
	adapter     *Adapter
	ws          *workspace.Workspace
	concurrency int
	log         logr.Logger
}

// NewPipeline creates a pipeline. concurrency < 1 uses DefaultConcurrency.
func NewPipeline(cache *diagnostics.Cache, adapter *Adapter, ws *workspace.Workspace, concurrency int, log logr.Logger) *Pipeline {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Pipeline{
		cache:       cache,
		adapter:     adapter,
		ws:          ws,
		concurrency: concurrency,
		log:         log,
	}
}

// UpdateForProject revalidates the project owning descriptorPath. Everything
// the project collection held before is removed and the new results are added
// in a single Set, so observers see one change. The Set also happens when
// validation fails, in which case the collection ends up empty and the error
// is returned.
func (p *Pipeline) UpdateForProject(ctx context.Context, descriptorPath string) error {
	projectDir := filepath.Dir(descriptorPath)
	col := p.cache.GetOrCreate(messages.DiagnosticsCollectionName(projectDir))

	var entries []diagnostics.Entry
	col.ForEach(func(uri string, _ []diagnostics.Diagnostic) {
		entries = append(entries, diagnostics.Entry{URI: uri})
	})

	result, err := p.adapter.Validate(ctx, projectDir)
	if err == nil {
		paths := make([]string, 0, len(result))
		for path := range result {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		for _, path := range paths {
			entries = append(entries, diagnostics.Entry{
				URI:         path,
				Diagnostics: diagnostics.FromIssues(path, result[path]),
			})
		}
	}

	col.Set(entries)

	if err != nil {
		return fmt.Errorf("validating project %s: %w", projectDir, err)
	}
	p.log.V(1).Info("project validated", "project", projectDir, "files", len(result))
	return nil
}

// Revalidate validates every mta.yaml in the workspace. With clearExisting
// all cached collections are cleared first. A failing project is logged and
// does not stop the others.
func (p *Pipeline) Revalidate(ctx context.Context, clearExisting bool) error {
	if clearExisting {
		p.cache.ClearAll()
	}

	paths, err := p.ws.Discover(ctx, workspace.MtaYaml, workspace.MtaYamlPattern)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for _, path := range paths {
		g.Go(func() error {
			if err := p.UpdateForProject(gctx, path); err != nil {
				p.log.Error(err, "project validation failed", "descriptor", path)
			}
			return nil
		})
	}

	_ = g.Wait()
	return ctx.Err()
}

// Package batch regenerates pipelines for many projects in parallel.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"golang.org/x/sync/errgroup"

	"github.com/lucasnoah/pipegen/internal/autoconfig"
	"github.com/lucasnoah/pipegen/internal/output"
	"github.com/lucasnoah/pipegen/internal/render"
)

// DefaultConcurrency bounds parallel projects when Options.Concurrency is unset.
const DefaultConcurrency = 4

// ErrNoPipelines marks a project with no existing pipeline file and no
// explicit platform list.
var ErrNoPipelines = errors.New("no pipeline files found")

// Options configures a regeneration pass.
type Options struct {
	// Platforms to regenerate. Empty means every platform whose pipeline
	// file already exists in the project.
	Platforms      []render.Platform
	Concurrency    int
	DryRun         bool
	ApplyBuildFile bool
	// Open returns the filesystem rooted at a project. Defaults to osfs.
	Open   func(root string) billy.Filesystem
	Logger *slog.Logger
}

// ProjectResult is the outcome for one project. Err is set when the project
// failed; siblings are unaffected.
type ProjectResult struct {
	Root      string
	Platforms []render.Platform
	Written   []string
	Patched   []string
	Warnings  []render.Warning
	Err       error
}

// Regenerate autoconfigures, renders and writes the pipelines of every root.
// Results come back in the order of roots. The returned error is non-nil
// only when ctx was cancelled; per-project failures live in the results.
func Regenerate(ctx context.Context, roots []string, opts Options) ([]ProjectResult, error) {
	if opts.Open == nil {
		opts.Open = func(root string) billy.Filesystem { return osfs.New(root) }
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	results := make([]ProjectResult, len(roots))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	for i, root := range roots {
		results[i].Root = root
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			regenerate(opts.Open(root), &results[i], opts)
			if results[i].Err != nil {
				opts.Logger.Warn("project failed", "root", root, "error", results[i].Err)
			} else {
				opts.Logger.Info("project regenerated", "root", root, "platforms", len(results[i].Platforms), "files", len(results[i].Written))
			}
			return nil
		})
	}
	_ = eg.Wait()
	return results, ctx.Err()
}

func regenerate(fsys billy.Filesystem, res *ProjectResult, opts Options) {
	platforms := opts.Platforms
	if len(platforms) == 0 {
		platforms = autoconfig.ExistingPlatforms(fsys)
	}
	if len(platforms) == 0 {
		res.Err = ErrNoPipelines
		return
	}
	res.Platforms = platforms

	// Render everything before writing anything.
	var files []render.File
	var requests []render.BuildFileRequest
	for _, p := range platforms {
		inferred := autoconfig.Infer(fsys, p)
		r, err := render.Select(string(p), render.WithFragmentOverrides(fsys))
		if err != nil {
			res.Err = err
			return
		}
		out, err := r.Render(inferred.Descriptor)
		if err != nil {
			res.Err = fmt.Errorf("%s: %w", p, err)
			return
		}
		files = append(files, out.Files...)
		requests = append(requests, out.BuildFileRequests...)
		res.Warnings = append(res.Warnings, out.Warnings...)
	}

	for _, f := range files {
		res.Written = append(res.Written, f.Path)
	}
	if opts.DryRun {
		return
	}
	if err := output.WriteFiles(fsys, files); err != nil {
		res.Err = err
		return
	}
	if !opts.ApplyBuildFile {
		return
	}
	for _, req := range requests {
		changed, err := output.ApplyBuildFileRequest(fsys, req)
		if err != nil {
			res.Err = err
			return
		}
		if changed {
			res.Patched = append(res.Patched, req.Path)
		}
	}
}

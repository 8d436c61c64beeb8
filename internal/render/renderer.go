// Package render plans the stages a Descriptor calls for and lays them out
// as the pipeline definition of one CI platform.
package render

import (
	"fmt"

	"github.com/go-git/go-billy/v5"

	"github.com/lucasnoah/pipegen/internal/descriptor"
	"github.com/lucasnoah/pipegen/internal/fragment"
)

// File is one generated file, addressed relative to the project root.
type File struct {
	Path    string
	Content string
}

// BuildFileRequest asks the host build-file collaborator to add a fragment.
// Marker is text whose presence means the fragment is already applied.
// Anchor, when set, is the text the fragment is inserted before; otherwise
// the fragment is appended.
type BuildFileRequest struct {
	Path     string
	Marker   string
	Anchor   string
	Fragment string
}

// Result is everything a render run produces. Files[0] is the pipeline
// definition; companion files follow.
type Result struct {
	Platform          Platform
	Files             []File
	BuildFileRequests []BuildFileRequest
	Warnings          []Warning
	Plan              *PipelinePlan
}

// Pipeline returns the pipeline definition file.
func (r *Result) Pipeline() File {
	return r.Files[0]
}

// Renderer produces one platform's pipeline from a Descriptor.
type Renderer interface {
	Platform() Platform
	Render(d descriptor.Descriptor) (*Result, error)
}

// formatter lays a plan out in one platform's syntax.
type formatter interface {
	format(p *PipelinePlan) string
}

// companionFormatter is implemented by formatters that emit extra files.
type companionFormatter interface {
	companions(p *PipelinePlan, fsys billy.Filesystem) ([]File, error)
}

var formatters = map[Platform]formatter{
	Jenkins: jenkinsFormatter{},
	GitLab:  gitlabFormatter{},
	Travis:  travisFormatter{},
	Circle:  circleFormatter{},
	GitHub:  githubFormatter{},
	Azure:   azureFormatter{},
}

// Option configures a Renderer.
type Option func(*renderer)

// WithFragmentOverrides makes fragment lookups consult fsys (normally the
// target project) before the built-in fragments.
func WithFragmentOverrides(fsys billy.Filesystem) Option {
	return func(r *renderer) {
		r.overrides = fsys
	}
}

type renderer struct {
	platform  Platform
	f         formatter
	overrides billy.Filesystem
}

// Select returns the renderer for platformID. Unknown ids return an error
// wrapping ErrUnknownPlatform.
func Select(platformID string, opts ...Option) (Renderer, error) {
	p, err := ParsePlatform(platformID)
	if err != nil {
		return nil, err
	}
	r := &renderer{platform: p, f: formatters[p]}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Render is Select followed by Renderer.Render.
func Render(d descriptor.Descriptor, platformID string, opts ...Option) (*Result, error) {
	r, err := Select(platformID, opts...)
	if err != nil {
		return nil, err
	}
	return r.Render(d)
}

func (r *renderer) Platform() Platform {
	return r.platform
}

func (r *renderer) Render(d descriptor.Descriptor) (*Result, error) {
	plan, warnings, err := Plan(d)
	if err != nil {
		return nil, fmt.Errorf("planning %s pipeline: %w", r.platform, err)
	}

	res := &Result{
		Platform: r.platform,
		Files:    []File{{Path: r.platform.Path(), Content: r.f.format(plan)}},
		Warnings: warnings,
		Plan:     plan,
	}

	if cf, ok := r.f.(companionFormatter); ok {
		extra, err := cf.companions(plan, r.overrides)
		if err != nil {
			return nil, fmt.Errorf("rendering %s companion files: %w", r.platform, err)
		}
		res.Files = append(res.Files, extra...)
	}

	if plan.Descriptor.DistributionManagement() {
		req, err := distributionRequest(plan, r.overrides)
		if err != nil {
			return nil, fmt.Errorf("rendering distribution management: %w", err)
		}
		res.BuildFileRequests = append(res.BuildFileRequests, req)
	}
	return res, nil
}

// distributionRequest renders the build-file fragment declaring where
// deployed artifacts go.
func distributionRequest(p *PipelinePlan, fsys billy.Filesystem) (BuildFileRequest, error) {
	repo := descriptor.ArtifactRepository{}
	if p.Descriptor.ArtifactRepository != nil {
		repo = *p.Descriptor.ArtifactRepository
	}
	vars := fragment.Vars{
		"snapshots_id":  repo.SnapshotsID,
		"snapshots_url": repo.SnapshotsURL,
		"releases_id":   repo.ReleasesID,
		"releases_url":  repo.ReleasesURL,
	}

	req := BuildFileRequest{Path: "pom.xml", Marker: "<distributionManagement>", Anchor: "</project>"}
	name := fragment.MavenDistributionManagement
	if p.Descriptor.BuildTool == descriptor.Gradle {
		req = BuildFileRequest{Path: "build.gradle", Marker: "publishing {"}
		name = fragment.GradlePublishing
	}

	tmpl, err := fragment.Load(name, fsys)
	if err != nil {
		return BuildFileRequest{}, err
	}
	req.Fragment, err = fragment.Render(tmpl, vars)
	if err != nil {
		return BuildFileRequest{}, err
	}
	return req, nil
}

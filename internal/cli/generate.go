package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/lucasnoah/pipegen/internal/autoconfig"
	"github.com/lucasnoah/pipegen/internal/config"
	"github.com/lucasnoah/pipegen/internal/descriptor"
	"github.com/lucasnoah/pipegen/internal/output"
	"github.com/lucasnoah/pipegen/internal/render"
)

// generateOptions holds the flags shared by generate, autoconfigure and watch.
type generateOptions struct {
	platform       string
	file           string
	dir            string
	dryRun         bool
	autoconfigure  bool
	applyBuildFile bool
	buildTool      string
	docker         bool
	dockerSet      bool
	integrations   []string
}

var genOpts generateOptions

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render the pipeline for one platform and write it into the project",
	Example: `  pipegen generate --platform github
  pipegen generate --platform jenkins --docker --integration sonar --integration snyk --dry-run
  pipegen generate --platform gitlab --autoconfigure --dir ../shop`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := genOpts
		opts.dockerSet = cmd.Flags().Changed("docker")
		return runGenerate(cmd.OutOrStdout(), opts)
	},
}

var autoconfigureCmd = &cobra.Command{
	Use:   "autoconfigure",
	Short: "Regenerate a pipeline from what already exists in the project",
	Long: `autoconfigure infers the descriptor from the project (build tool marker files
and the platform's existing pipeline file) and regenerates the pipeline without
integrations. It is the unattended upgrade path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := genOpts
		opts.autoconfigure = true
		return runGenerate(cmd.OutOrStdout(), opts)
	},
}

// resolveDescriptor builds the descriptor and platform for a run from the
// config file (or autoconfigure) and the flag overrides.
func resolveDescriptor(opts generateOptions) (descriptor.Descriptor, render.Platform, error) {
	var cfg *config.ProjectConfig
	var err error
	platformID := opts.platform

	switch {
	case opts.file != "":
		cfg, err = config.Load(opts.file)
		if err != nil {
			return descriptor.Descriptor{}, "", err
		}
	case !opts.autoconfigure:
		cfg, err = config.LoadDefault(opts.dir)
		if err != nil {
			logger.Info("no project config, using defaults", "dir", opts.dir, "reason", err)
			cfg = &config.ProjectConfig{}
			fsys := osfs.New(opts.dir)
			cfg.Project.BuildTool = autoconfig.DetectBuildTool(fsys)
			cfg.Project.FrontendTool = autoconfig.DetectFrontendTool(fsys)
			cfg.Project.BaseName = autoconfig.DetectBaseName(fsys)
		}
	}
	if platformID == "" && cfg != nil {
		platformID = cfg.Platform
	}
	if platformID == "" {
		return descriptor.Descriptor{}, "", errors.New("no platform given: use --platform or set platform in pipegen.yaml")
	}
	platform, err := render.ParsePlatform(platformID)
	if err != nil {
		return descriptor.Descriptor{}, "", err
	}

	var d descriptor.Descriptor
	if opts.autoconfigure {
		inferred := autoconfig.Infer(osfs.New(opts.dir), platform)
		for _, reason := range inferred.Reasons {
			logger.Debug("autoconfigure", "platform", platform, "reason", reason)
		}
		d = inferred.Descriptor
	} else {
		if errs := config.Validate(cfg); len(errs) > 0 {
			for _, e := range errs {
				logger.Error("invalid descriptor", "field", e.Field, "message", e.Message)
			}
			return descriptor.Descriptor{}, "", fmt.Errorf("descriptor has %d validation error(s), first: %s", len(errs), errs[0])
		}
		d = cfg.Project
	}

	if opts.buildTool != "" {
		d.BuildTool = descriptor.BuildTool(opts.buildTool)
	}
	if opts.dockerSet {
		d.DockerExecutionMode = opts.docker
	}
	for _, raw := range opts.integrations {
		i, ok := descriptor.ParseIntegration(raw)
		if !ok {
			return descriptor.Descriptor{}, "", fmt.Errorf("unknown integration %q", raw)
		}
		d.Integrations = append(d.Integrations, i)
	}
	return d, platform, nil
}

func runGenerate(out io.Writer, opts generateOptions) error {
	d, platform, err := resolveDescriptor(opts)
	if err != nil {
		return err
	}

	fsys := osfs.New(opts.dir)
	r, err := render.Select(string(platform), render.WithFragmentOverrides(fsys))
	if err != nil {
		return err
	}
	res, err := r.Render(d)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		logger.Warn("stage degraded", "platform", platform, "code", w.Code, "stage", w.Stage, "message", w.Message)
	}

	if opts.dryRun {
		for _, f := range res.Files {
			fmt.Fprintf(out, "--- %s ---\n%s", f.Path, f.Content)
		}
		for _, req := range res.BuildFileRequests {
			fmt.Fprintf(out, "--- %s (fragment) ---\n%s", req.Path, req.Fragment)
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "warning: %s\n", w)
		}
		return nil
	}

	if err := output.WriteFiles(fsys, res.Files); err != nil {
		return err
	}
	for _, f := range res.Files {
		fmt.Fprintf(out, "wrote %s\n", filepath.Join(opts.dir, f.Path))
	}
	logger.Info("pipeline generated", "platform", platform, "files", len(res.Files), "warnings", len(res.Warnings))

	for _, req := range res.BuildFileRequests {
		if !opts.applyBuildFile {
			fmt.Fprintf(out, "%s needs distribution management; rerun with --apply-build-file to add it\n", req.Path)
			continue
		}
		changed, err := output.ApplyBuildFileRequest(fsys, req)
		if err != nil {
			return err
		}
		if changed {
			fmt.Fprintf(out, "updated %s\n", filepath.Join(opts.dir, req.Path))
		} else {
			fmt.Fprintf(out, "%s already has distribution management\n", req.Path)
		}
	}
	return nil
}

func addGenerateFlags(cmd *cobra.Command, opts *generateOptions, overrides bool) {
	cmd.Flags().StringVarP(&opts.platform, "platform", "p", "", "target platform (see 'pipegen platforms')")
	cmd.Flags().StringVar(&opts.dir, "dir", ".", "project directory")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print files instead of writing them")
	cmd.Flags().BoolVar(&opts.applyBuildFile, "apply-build-file", false, "add distribution management to the host build file when deploy is enabled")
	if !overrides {
		return
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "path to descriptor file (default: pipegen.yaml in --dir)")
	cmd.Flags().BoolVar(&opts.autoconfigure, "autoconfigure", false, "infer the descriptor from the project instead of reading a file")
	cmd.Flags().StringVar(&opts.buildTool, "build-tool", "", "override build tool (maven or gradle)")
	cmd.Flags().BoolVar(&opts.docker, "docker", false, "override docker execution mode")
	cmd.Flags().StringArrayVarP(&opts.integrations, "integration", "i", nil, "enable an integration (repeatable)")
}

func init() {
	addGenerateFlags(generateCmd, &genOpts, true)
	addGenerateFlags(autoconfigureCmd, &genOpts, false)
}

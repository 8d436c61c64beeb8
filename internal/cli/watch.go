package cli

import (
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/pipegen/internal/config"
	"github.com/lucasnoah/pipegen/internal/watch"
)

var (
	watchOpts     generateOptions
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the pipeline whenever the descriptor file changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := watchOpts
		if opts.file == "" {
			opts.file = defaultDescriptorPath(opts.dir)
		}
		out := cmd.OutOrStdout()

		if err := runGenerate(out, opts); err != nil {
			logger.Error("initial generation failed", "err", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		w := watch.New(opts.file, func(string) {
			if err := runGenerate(out, opts); err != nil {
				logger.Error("regeneration failed", "err", err)
			}
		}, watch.WithDebounce(watchDebounce), watch.WithLogger(logger))
		return w.Run(ctx)
	},
}

// defaultDescriptorPath returns the first existing default descriptor in
// dir, or the first default name when none exists yet.
func defaultDescriptorPath(dir string) string {
	for _, name := range config.DefaultFileNames {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return filepath.Join(dir, config.DefaultFileNames[0])
}

func init() {
	addGenerateFlags(watchCmd, &watchOpts, false)
	watchCmd.Flags().StringVarP(&watchOpts.file, "file", "f", "", "descriptor file to watch (default: pipegen.yaml in --dir)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before regenerating")
}

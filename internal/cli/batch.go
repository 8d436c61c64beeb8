package cli

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/pipegen/internal/batch"
	"github.com/lucasnoah/pipegen/internal/render"
)

var (
	batchPlatforms      []string
	batchConcurrency    int
	batchDryRun         bool
	batchApplyBuildFile bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>...",
	Short: "Autoconfigure and regenerate pipelines for many projects in parallel",
	Long: `batch regenerates the pipelines of every given project directory without
prompting. By default each project is regenerated for every platform whose
pipeline file it already has; --platform restricts or extends that set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var platforms []render.Platform
		for _, id := range batchPlatforms {
			p, err := render.ParsePlatform(id)
			if err != nil {
				return err
			}
			platforms = append(platforms, p)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		results, err := batch.Regenerate(ctx, args, batch.Options{
			Platforms:      platforms,
			Concurrency:    batchConcurrency,
			DryRun:         batchDryRun,
			ApplyBuildFile: batchApplyBuildFile,
			Logger:         logger,
		})

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PROJECT\tPLATFORMS\tFILES\tWARNINGS\tSTATUS")
		failed := 0
		for _, r := range results {
			status := "ok"
			if r.Err != nil {
				status = "error: " + r.Err.Error()
				failed++
			}
			names := make([]string, len(r.Platforms))
			for i, p := range r.Platforms {
				names[i] = string(p)
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", r.Root, strings.Join(names, ","), len(r.Written), len(r.Warnings), status)
		}
		if flushErr := tw.Flush(); flushErr != nil {
			return flushErr
		}

		if err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d project(s) failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringArrayVarP(&batchPlatforms, "platform", "p", nil, "platform to regenerate (repeatable; default: existing pipeline files)")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", batch.DefaultConcurrency, "projects processed in parallel")
	batchCmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "render without writing files")
	batchCmd.Flags().BoolVar(&batchApplyBuildFile, "apply-build-file", false, "add distribution management to host build files")
}

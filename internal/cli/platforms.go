package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/pipegen/internal/fragment"
	"github.com/lucasnoah/pipegen/internal/render"
)

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List supported CI platforms and their pipeline file paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PLATFORM\tFILE")
		for _, p := range render.Platforms() {
			fmt.Fprintf(tw, "%s\t%s\n", p, p.Path())
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\nFragments (override in %s/):\n", fragment.OverrideDir)
		for _, name := range fragment.Names() {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
		}
		return nil
	},
}

package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean cached artifacts, captured outputs and stale locks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outputs, _ := cmd.Flags().GetBool("outputs")
			locks, _ := cmd.Flags().GetBool("locks")
			all, _ := cmd.Flags().GetBool("all")
			pruneAge, _ := cmd.Flags().GetDuration("prune-age")

			opts := app.CleanOptions{PruneAge: pruneAge}

			switch {
			case all:
				opts.Artifacts = true
				opts.Outputs = true
				opts.Locks = true
			case outputs:
				opts.Outputs = true
			case locks:
				opts.Locks = true
			default:
				// Default behavior: clean cached artifacts
				opts.Artifacts = true
			}

			return c.app.Clean(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolP("outputs", "u", false, "Clean captured execution outputs")
	cmd.Flags().BoolP("locks", "l", false, "Clear locks left behind by crashed builds")
	cmd.Flags().BoolP("all", "a", false, "Clean artifacts, outputs and stale locks")
	cmd.Flags().Duration("prune-age", 0, "Prune cache entries older than this age instead of removing everything")

	return cmd
}

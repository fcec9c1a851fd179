package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [notebooks...]",
		Short: "Build and execute the given notebooks",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			outputMode, _ := cmd.Flags().GetString("output-mode")
			ci, _ := cmd.Flags().GetBool("ci")
			watch, _ := cmd.Flags().GetBool("watch")
			noReport, _ := cmd.Flags().GetBool("no-report")
			jobs, _ := cmd.Flags().GetInt("jobs")

			// If --ci is set, override output-mode to "linear"
			if ci {
				outputMode = "linear"
			}

			return c.app.Run(cmd.Context(), args, app.RunOptions{
				OutputMode:  outputMode,
				Watch:       watch,
				NoReport:    noReport,
				Parallelism: jobs,
			})
		},
	}
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, tui, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	cmd.Flags().BoolP("watch", "w", false, "Re-execute notebooks when their files change")
	cmd.Flags().Bool("no-report", false, "Skip writing the markdown report next to each notebook")
	cmd.Flags().IntP("jobs", "j", 0, "Maximum notebooks executed in parallel (0 uses all CPUs)")
	return cmd
}

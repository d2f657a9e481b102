package cmd

import (
	"github.com/spf13/cobra"
	"github.com/wardrobe-labs/stylematch/internal/evalcmd"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Matching accuracy evaluation tools",
		Long: `Evaluation tools for measuring catalog matching accuracy.

Runs a labeled dataset of query images with known best matches through the
matching service and reports top-1/top-3 accuracy, then renders saved
results as a readable report.`,
	}

	// Add eval subcommands
	cmd.AddCommand(evalcmd.NewRunCmd())
	cmd.AddCommand(evalcmd.NewReportCmd())

	return cmd
}

package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stylematch",
		Short: "Conversational catalog image matching with vision LLMs",
		Long: `Stylematch finds the closest items in a fixed reference catalog for a
photo or text description, using a vision-language model as the matching
engine.

It serves a chat interface for interactive matching and ships evaluation
tooling for measuring match accuracy against a labeled dataset.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newEvalCmd())

	return cmd
}

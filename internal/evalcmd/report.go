package evalcmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wardrobe-labs/stylematch/internal/eval/metrics"
)

// NewReportCmd creates the eval report command
func NewReportCmd() *cobra.Command {
	var resultsPath string
	var format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a saved evaluation results file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeReport(resultsPath, format)
		},
	}

	cmd.Flags().StringVarP(&resultsPath, "results", "r", "eval-results.json", "Path to results JSON")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or json")

	return cmd
}

func executeReport(resultsPath, format string) error {
	data, err := os.ReadFile(resultsPath)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}

	var results Results
	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("failed to parse results: %w", err)
	}

	switch format {
	case "text":
		return printTextReport(&results)
	case "json":
		return printJSONReport(&results)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printTextReport(results *Results) error {
	fmt.Println("========================================")
	fmt.Println("Catalog Matching Evaluation Report")
	fmt.Println("========================================")
	fmt.Printf("Provider: %s\n", results.Provider)
	fmt.Printf("Model:    %s\n", results.Model)
	fmt.Println()

	s := results.Summary
	fmt.Printf("Records:          %d\n", s.Total)
	fmt.Printf("Errors:           %d\n", s.Errors)
	fmt.Printf("Top-1 accuracy:   %.1f%% (%d/%d)\n", s.Top1Accuracy*100, s.Top1Hits, s.Total)
	fmt.Printf("Top-3 accuracy:   %.1f%% (%d/%d)\n", s.Top3Accuracy*100, s.Top3Hits, s.Total)
	fmt.Printf("Mean confidence:  %.2f\n", s.MeanConfidence)
	fmt.Printf("Mean top conf.:   %.2f\n", s.MeanTopConfidence)

	fmt.Println("\nDetailed Results:")
	fmt.Println("========================================")

	for i, outcome := range results.Outcomes {
		fmt.Printf("\n[%d] %s (expected %s)\n", i+1, outcome.ID, outcome.Expected)

		if outcome.Error != "" {
			fmt.Printf("  Error: %s\n", outcome.Error)
			continue
		}

		rank := metrics.HitRank(outcome.Expected, outcome.Matches)
		if rank >= 0 {
			fmt.Printf("  Hit at rank %d\n", rank+1)
		} else {
			fmt.Println("  Miss")
		}
		for _, m := range outcome.Matches {
			fmt.Printf("    %-30s confidence %.2f\n", m.Filename, m.Confidence)
		}
	}

	return nil
}

func printJSONReport(results *Results) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

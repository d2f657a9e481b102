package evalcmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/wardrobe-labs/stylematch/internal/catalog"
	"github.com/wardrobe-labs/stylematch/internal/config"
	"github.com/wardrobe-labs/stylematch/internal/eval/dataset"
	"github.com/wardrobe-labs/stylematch/internal/eval/metrics"
	"github.com/wardrobe-labs/stylematch/internal/matching"
	"github.com/wardrobe-labs/stylematch/internal/providers"
)

// Results is the saved output of one evaluation run.
type Results struct {
	Provider string            `json:"provider"`
	Model    string            `json:"model"`
	Summary  metrics.Summary   `json:"summary"`
	Outcomes []metrics.Outcome `json:"outcomes"`
}

// NewRunCmd creates the eval run command
func NewRunCmd() *cobra.Command {
	var datasetPath string
	var configPath string
	var output string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the matcher against a labeled dataset",
		Long: `Runs every record of a labeled dataset (JSONL or Parquet) through the
matching service and reports top-1/top-3 accuracy against the expected
catalog filenames.`,
		Example: `  # Evaluate with the default config
  stylematch eval run --dataset eval/labeled.jsonl

  # Evaluate a parquet dataset with more workers
  stylematch eval run --dataset eval/labeled.parquet --concurrency 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeRun(cmd, datasetPath, configPath, output, concurrency)
		},
	}

	cmd.Flags().StringVarP(&datasetPath, "dataset", "d", "", "Path to labeled dataset (.jsonl or .parquet)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")
	cmd.Flags().StringVarP(&output, "output", "o", "eval-results.json", "Where to write results JSON")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "n", 2, "Number of concurrent model calls")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func executeRun(cmd *cobra.Command, datasetPath, configPath, output string, concurrency int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	slog.Info("Starting evaluation run", "dataset", datasetPath, "provider", cfg.Provider, "model", cfg.Model)

	records, err := dataset.NewLoader(datasetPath).Load()
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	slog.Info("Dataset loaded", "records", len(records))

	provider, err := matching.NewProvider(cfg.Provider)
	if err != nil {
		return err
	}

	cat := catalog.New(cfg.CatalogDir, cfg.MetadataPath)
	matcher := matching.NewService(cat, provider, providers.Config{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
	}, "")

	if concurrency < 1 {
		concurrency = 1
	}
	slog.Info("Processing records", "concurrency", concurrency)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)
	outcomesChan := make(chan metrics.Outcome, len(records))

	for i, record := range records {
		wg.Add(1)
		go func(idx int, record dataset.Record) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			slog.Info("Processing record", "id", record.ID, "progress", fmt.Sprintf("%d/%d", idx+1, len(records)))
			outcomesChan <- processRecord(cmd, matcher, record)
		}(i, record)
	}

	go func() {
		wg.Wait()
		close(outcomesChan)
	}()

	outcomes := make([]metrics.Outcome, 0, len(records))
	for outcome := range outcomesChan {
		outcomes = append(outcomes, outcome)
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].ID < outcomes[j].ID })

	results := &Results{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		Summary:  metrics.Summarize(outcomes),
		Outcomes: outcomes,
	}

	if err := saveResults(results, output); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	slog.Info("Evaluation complete",
		"top1_accuracy", fmt.Sprintf("%.1f%%", results.Summary.Top1Accuracy*100),
		"top3_accuracy", fmt.Sprintf("%.1f%%", results.Summary.Top3Accuracy*100),
		"errors", results.Summary.Errors,
		"output", output)
	return nil
}

func processRecord(cmd *cobra.Command, matcher *matching.Service, record dataset.Record) metrics.Outcome {
	outcome := metrics.Outcome{ID: record.ID, Expected: record.Expected}

	imageData, err := os.ReadFile(record.ImagePath)
	if err != nil {
		outcome.Error = fmt.Sprintf("failed to read image: %v", err)
		return outcome
	}

	resp, err := matcher.Match(cmd.Context(), matching.Request{
		Text:      record.Message,
		Image:     imageData,
		ImageMIME: mimeForPath(record.ImagePath),
	})
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Matches = resp.Matches
	return outcome
}

func mimeForPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return "image/png"
	}
	return "image/jpeg"
}

func saveResults(results *Results, path string) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/drewhammond/folio-api/internal/ai"
	"github.com/drewhammond/folio-api/internal/content"
	"github.com/drewhammond/folio-api/internal/credentials"
	"github.com/drewhammond/folio-api/internal/generator"
	"github.com/drewhammond/folio-api/internal/observability"
	"github.com/drewhammond/folio-api/internal/pdf"
	"github.com/drewhammond/folio-api/internal/store"
)

var (
	generateInput    string
	generateType     string
	generateProvider string
	generateOutDir   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run one generation locally",
	Long: `Run a single generation end to end without the API server: read
portfolio content and a job target from a JSON file, call the configured
model provider, and write rendered PDFs to the output directory.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateInput, "input", "", "Path to JSON file with snapshot and job target (required)")
	generateCmd.Flags().StringVar(&generateType, "type", "both", "Documents to generate: resume, coverLetter, or both")
	generateCmd.Flags().StringVar(&generateProvider, "provider", "", "Model provider: openai or gemini (defaults to gemini)")
	generateCmd.Flags().StringVar(&generateOutDir, "out", "generated", "Directory for rendered PDFs")
	_ = generateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(generateCmd)
}

// generateFile is the on-disk input format for one-shot runs. Snapshot
// and job are required; the rest mirrors the POST /generate payload.
type generateFile struct {
	Snapshot    *content.Snapshot     `json:"snapshot"`
	Job         ai.JobTarget          `json:"job"`
	Preferences generator.Preferences `json:"preferences"`
	Prompts     *ai.PromptOverride    `json:"prompts,omitempty"`
}

func runGenerate(_ *cobra.Command, _ []string) error {
	logger := observability.SetDefault()

	data, err := os.ReadFile(generateInput)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	var input generateFile
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("failed to parse input file: %w", err)
	}
	if input.Snapshot == nil {
		return fmt.Errorf("input file must contain a snapshot")
	}

	orch := generator.New(
		store.NewMemory(),
		ai.NewFactory(credentials.NewResolver(nil)),
		pdf.NewRenderer(),
		store.NewLocalFiles(generateOutDir),
		logger,
	)

	ctx := context.Background()
	req, err := orch.CreateRequest(ctx, generator.NewRequestInput{
		GenerateType:   generator.GenerateType(generateType),
		Provider:       ai.ProviderType(generateProvider),
		Snapshot:       input.Snapshot,
		Job:            input.Job,
		Preferences:    input.Preferences,
		PromptOverride: input.Prompts,
	})
	if err != nil {
		return err
	}

	resp, err := orch.Run(ctx, req)
	if err != nil {
		return err
	}
	if !resp.Result.Success {
		return fmt.Errorf("generation failed at stage %s: %s", resp.Result.Error.Stage, resp.Result.Error.Message)
	}

	for _, f := range resp.Files {
		fmt.Printf("wrote %s (%d bytes)\n", f.Path, f.SizeBytes)
	}
	fmt.Printf("model: %s, tokens: %d, cost: $%.6f, duration: %dms\n",
		resp.Metrics.Model, resp.Metrics.TokenUsage.TotalTokens, resp.Metrics.CostUSD, resp.Metrics.DurationMs)
	return nil
}

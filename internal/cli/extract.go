package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kavya5jan-prog/ema-claims/internal/model"
	"github.com/kavya5jan-prog/ema-claims/internal/pipeline"
)

var (
	extractOut     string
	extractTimeout time.Duration
	extractModel   string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <documents.json>",
	Short: "Extract the normalized fact matrix and conflicts from claim documents",
	Long: `Extract runs the full document-to-fact pipeline over a JSON file of
extracted document records:

- validates image count and payload size ceilings
- packages text and images into one multimodal model request
- parses and repairs the structured response
- re-attributes facts to their originating documents
- canonicalizes directions, impact points, and times
- detects cross-document conflicts with verified evidence snippets

Example:
  ema-claims extract claim-123/documents.json
  ema-claims extract documents.json --json facts.json --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractOut, "json", "facts.json", "output JSON path")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 10*time.Minute, "overall extraction timeout")
	extractCmd.Flags().StringVar(&extractModel, "model", "", "override the configured model name")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if extractModel != "" {
		cfg.LLM.Model = extractModel
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	gw, err := newGateway(cfg, log)
	if err != nil {
		return err
	}

	docs, err := readDocuments(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	p := pipeline.New(cfg, gw, log)
	result, err := p.ExtractFacts(ctx, docs)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if err := writeJSON(extractOut, result); err != nil {
		return err
	}

	fmt.Printf("✓ Extracted %d facts, %d conflicts (run %s)\n", len(result.Facts), len(result.Conflicts), result.RunID)
	fmt.Printf("✓ Wrote %s\n", extractOut)
	return nil
}

// documentsFile matches the upload payload shape: either a bare array of
// records or an object with a "files" key
type documentsFile struct {
	Files []model.DocumentRecord `json:"files"`
}

func readDocuments(path string) ([]model.DocumentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read documents file: %w", err)
	}

	var wrapped documentsFile
	if err := json.Unmarshal(data, &wrapped); err == nil && len(wrapped.Files) > 0 {
		return wrapped.Files, nil
	}

	var docs []model.DocumentRecord
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("documents file is neither a record array nor a {\"files\": [...]} object: %w", err)
	}
	return docs, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

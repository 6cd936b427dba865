package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kavya5jan-prog/ema-claims/internal/analysis"
	"github.com/kavya5jan-prog/ema-claims/internal/attribute"
	"github.com/kavya5jan-prog/ema-claims/internal/model"
)

var (
	analyzeOut     string
	analyzeTimeout time.Duration
	signalsPath    string

	emailContact string
	emailRole    string
	emailContext string
	emailItems   []string
)

// analyzeCmd groups the derived-artifact operations
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Derive adjuster artifacts from an extracted fact matrix",
	Long: `Analyze runs one derived-artifact operation over the output of
"ema-claims extract" (or, for evidence checks, over the documents file).

Available artifacts:
  signals     liability signal grid
  timeline    chronological accident reconstruction
  liability   liability split recommendation (sums to 100)
  rationale   adjuster claim rationale document
  escalation  supervisor escalation packet
  evidence    evidence package completeness check`,
}

var signalsCmd = &cobra.Command{
	Use:   "signals <facts.json>",
	Short: "Identify liability signals in the fact matrix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(args[0], func(ctx context.Context, a *analysis.Analyzer, facts []model.Fact) (any, error) {
			signals, err := a.LiabilitySignals(ctx, facts)
			if err != nil {
				return nil, err
			}
			return model.SignalSet{Signals: signals}, nil
		})
	},
}

var timelineCmd = &cobra.Command{
	Use:   "timeline <facts.json>",
	Short: "Reconstruct the accident timeline from the fact matrix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(args[0], func(ctx context.Context, a *analysis.Analyzer, facts []model.Fact) (any, error) {
			return a.Timeline(ctx, facts)
		})
	},
}

var liabilityCmd = &cobra.Command{
	Use:   "liability <facts.json>",
	Short: "Recommend a liability split between claimant and other driver",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(args[0], func(ctx context.Context, a *analysis.Analyzer, facts []model.Fact) (any, error) {
			signals, err := loadSignals(ctx, a, facts)
			if err != nil {
				return nil, err
			}
			return a.LiabilityRecommendation(ctx, facts, signals)
		})
	},
}

var rationaleCmd = &cobra.Command{
	Use:   "rationale <facts.json>",
	Short: "Generate the adjuster claim rationale document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(args[0], func(ctx context.Context, a *analysis.Analyzer, facts []model.Fact) (any, error) {
			signals, err := loadSignals(ctx, a, facts)
			if err != nil {
				return nil, err
			}
			rec, err := a.LiabilityRecommendation(ctx, facts, signals)
			if err != nil {
				return nil, err
			}
			return a.ClaimRationale(ctx, facts, signals, rec)
		})
	},
}

var escalationCmd = &cobra.Command{
	Use:   "escalation <facts.json>",
	Short: "Assemble the supervisor escalation packet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(args[0], func(ctx context.Context, a *analysis.Analyzer, facts []model.Fact) (any, error) {
			signals, err := loadSignals(ctx, a, facts)
			if err != nil {
				return nil, err
			}
			rec, err := a.LiabilityRecommendation(ctx, facts, signals)
			if err != nil {
				return nil, err
			}
			rationale, err := a.ClaimRationale(ctx, facts, signals, rec)
			if err != nil {
				return nil, err
			}
			return a.EscalationPackage(ctx, facts, signals, rec, rationale)
		})
	},
}

var evidenceCmd = &cobra.Command{
	Use:   "evidence <documents.json>",
	Short: "Check the evidence package for completeness",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, ctx, cancel, err := newAnalyzer()
		if err != nil {
			return err
		}
		defer cancel()

		docs, err := readDocuments(args[0])
		if err != nil {
			return err
		}
		result, err := a.EvidenceCompleteness(ctx, docs)
		if err != nil {
			return err
		}
		return emitResult(result)
	},
}

// summarizeCmd generates the free-text narrative summary
var summarizeCmd = &cobra.Command{
	Use:   "summarize <documents.json>",
	Short: "Generate a narrative summary of the claim documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
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

		ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
		defer cancel()

		resolver := attribute.NewResolver(gw, cfg.Classifier, log)
		sources := resolver.ResolveAll(ctx, docs)

		a := analysis.New(gw, cfg.LLM, log)
		summary, err := a.Summarize(ctx, docs, sources)
		if err != nil {
			return err
		}
		fmt.Println(summary)
		return nil
	},
}

// draftEmailCmd writes a missing-evidence request email
var draftEmailCmd = &cobra.Command{
	Use:   "draft-email",
	Short: "Draft an email requesting missing evidence",
	Long: `Draft a professional email asking a claim contact for missing evidence.

Example:
  ema-claims draft-email --contact "Jane Roe" --role claimant \
    --item "photos of the rear-left damage" --item "repair estimate"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, ctx, cancel, err := newAnalyzer()
		if err != nil {
			return err
		}
		defer cancel()

		email, err := a.DraftEmail(ctx, analysis.EmailRequest{
			ContactName:  emailContact,
			ContactRole:  emailRole,
			ClaimContext: emailContext,
			MissingItems: emailItems,
		})
		if err != nil {
			return err
		}
		fmt.Println(email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(draftEmailCmd)

	analyzeCmd.AddCommand(signalsCmd)
	analyzeCmd.AddCommand(timelineCmd)
	analyzeCmd.AddCommand(liabilityCmd)
	analyzeCmd.AddCommand(rationaleCmd)
	analyzeCmd.AddCommand(escalationCmd)
	analyzeCmd.AddCommand(evidenceCmd)

	analyzeCmd.PersistentFlags().StringVar(&analyzeOut, "json", "", "output JSON path (default: stdout)")
	analyzeCmd.PersistentFlags().DurationVar(&analyzeTimeout, "timeout", 5*time.Minute, "overall analysis timeout")
	analyzeCmd.PersistentFlags().StringVar(&signalsPath, "signals", "", "previously saved signals JSON (skips the signals round-trip)")

	summarizeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 5*time.Minute, "overall summary timeout")

	draftEmailCmd.Flags().StringVar(&emailContact, "contact", "", "contact name")
	draftEmailCmd.Flags().StringVar(&emailRole, "role", "claimant", "contact role (claimant, other driver, fnol agent)")
	draftEmailCmd.Flags().StringVar(&emailContext, "context", "", "brief claim context")
	draftEmailCmd.Flags().StringArrayVar(&emailItems, "item", nil, "missing evidence item (repeatable)")
	_ = draftEmailCmd.MarkFlagRequired("contact")
	_ = draftEmailCmd.MarkFlagRequired("item")
}

func newAnalyzer() (*analysis.Analyzer, context.Context, context.CancelFunc, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	gw, err := newGateway(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	return analysis.New(gw, cfg.LLM, log), ctx, cancel, nil
}

func runAnalysis(factsPath string, op func(context.Context, *analysis.Analyzer, []model.Fact) (any, error)) error {
	a, ctx, cancel, err := newAnalyzer()
	if err != nil {
		return err
	}
	defer cancel()

	facts, err := readFacts(factsPath)
	if err != nil {
		return err
	}

	result, err := op(ctx, a, facts)
	if err != nil {
		return err
	}
	return emitResult(result)
}

// loadSignals reads pre-computed signals when --signals was given,
// otherwise runs the signal analysis round-trip
func loadSignals(ctx context.Context, a *analysis.Analyzer, facts []model.Fact) ([]model.LiabilitySignal, error) {
	if signalsPath == "" {
		return a.LiabilitySignals(ctx, facts)
	}
	data, err := os.ReadFile(signalsPath)
	if err != nil {
		return nil, fmt.Errorf("read signals file: %w", err)
	}
	var set model.SignalSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse signals file: %w", err)
	}
	return set.Signals, nil
}

func readFacts(path string) ([]model.Fact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read facts file: %w", err)
	}
	var result model.ExtractionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parse facts file: %w", err)
	}
	if len(result.Facts) == 0 {
		return nil, fmt.Errorf("facts file %s contains no facts", path)
	}
	return result.Facts, nil
}

func emitResult(v any) error {
	if analyzeOut != "" {
		if err := writeJSON(analyzeOut, v); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %s\n", analyzeOut)
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(strings.TrimSpace(string(data)))
	return nil
}

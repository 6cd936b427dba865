package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kavya5jan-prog/ema-claims/internal/llm"
	"github.com/kavya5jan-prog/ema-claims/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ema-claims",
	Short: "Ema Claims - auto-insurance claim document analysis",
	Long: `Ema Claims ingests extracted auto-insurance claim documents (PDF pages,
audio transcriptions, photos), builds a normalized fact matrix through a
multimodal model call, detects cross-document conflicts with grounded
evidence, and derives adjuster artifacts: liability signals, timelines,
split recommendations, rationales, and escalation packets.

Every fact is anchored to a verbatim source_text quote and every conflict
carries evidence snippets verified against the real documents.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("ema-claims v0.3.1")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.ema-claims/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.ema-claims")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match EMA_*
	viper.SetEnvPrefix("EMA")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig merges the viper hierarchy over the built-in defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	cfg.Output.Verbose = verbose || cfg.Output.Verbose

	return cfg, nil
}

// newLogger builds the process logger
func newLogger(cfg *model.Config) (*zap.Logger, error) {
	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{"stderr"}
	if cfg.Output.Verbose {
		logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return logCfg.Build()
}

// newGateway constructs the one process-wide gateway from configuration.
// Commands inject it into the pipeline explicitly; there is no hidden
// singleton to reach around.
func newGateway(cfg *model.Config, log *zap.Logger) (llm.Gateway, error) {
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key not configured: set OPENAI_API_KEY or llm.api_key in the config file")
	}
	return llm.NewOpenAIGateway(cfg.LLM, log)
}

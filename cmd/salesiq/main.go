package main

import (
	"fmt"
	"os"

	"salesiq/internal/config"
	"salesiq/internal/llm"
	"salesiq/internal/pipeline"
	"salesiq/internal/store"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	dbPath     string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "salesiq",
	Short: "salesiq - natural-language assistant for a retail sales table",
	Long: `salesiq answers plain-language questions about a retail sales dataset.

A question is classified into one of two modes: FACT_SQL generates and runs
a single SQL statement and shows the rows; SUMMARY generates a fixed bundle
of five analytical queries, runs them, and narrates the aggregated results.
All generated SQL passes a mutating-statement denylist before execution.

Load a sales CSV export first with "salesiq ingest", then ask questions
with "salesiq ask", "salesiq chat", or over HTTP with "salesiq serve".`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The chat TUI owns the terminal; keep zap off its screen.
		if cmd.Name() == "chat" {
			logger = zap.NewNop()
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "salesiq.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the sales database (overrides config)")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(statsCmd)
}

// loadConfig loads the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Store.DatabasePath = dbPath
	}
	return cfg, nil
}

// openStore opens the sales database from config.
func openStore(cfg *config.Config) (*store.SalesStore, error) {
	s, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sales database: %w", err)
	}
	return s, nil
}

// buildPipeline wires the model client and store into an orchestrator.
// The caller owns closing the returned store.
func buildPipeline(cfg *config.Config) (*pipeline.Orchestrator, *store.SalesStore, error) {
	timeout, err := cfg.LLMTimeout()
	if err != nil {
		return nil, nil, err
	}
	client, err := llm.NewClient(llm.Config{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
		Timeout:  timeout,
	})
	if err != nil {
		return nil, nil, err
	}

	s, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	return pipeline.New(client, s, logger), s, nil
}

func main() {
	// Loads .env if present, silently ignores if not.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

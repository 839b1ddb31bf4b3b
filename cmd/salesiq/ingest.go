package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ingestCmd loads a sales CSV export into the local database, replacing
// the sales table wholesale. Must run before the assistant can answer.
var ingestCmd = &cobra.Command{
	Use:   "ingest [csv-file]",
	Short: "Load a sales CSV export into the local database",
	Long: `Replaces the sales table with the contents of a CSV export. Column
names are taken verbatim from the header row; column types are sniffed
from the data. Without an argument the configured csv_path is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	csvPath := cfg.Store.CSVPath
	if len(args) > 0 {
		csvPath = args[0]
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	spinner, _ := pterm.DefaultSpinner.Start("Ingesting ", csvPath)
	stats, err := s.IngestCSV(cmd.Context(), csvPath)
	if err != nil {
		spinner.Fail("ingest failed")
		return err
	}
	spinner.Success("ingest complete")

	logger.Info("sales table replaced",
		zap.String("csv", csvPath),
		zap.String("db", cfg.Store.DatabasePath),
		zap.Int64("rows", stats.Rows),
		zap.Int("columns", stats.Columns))
	pterm.Success.Printfln("loaded %d rows (%d columns) into %s", stats.Rows, stats.Columns, cfg.Store.DatabasePath)
	return nil
}

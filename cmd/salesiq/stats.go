package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// statsCmd reports on the local sales database.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the state of the local sales database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		count, err := s.RowCount(cmd.Context())
		if err != nil {
			pterm.Warning.Printfln("sales table not loaded yet (%v); run \"salesiq ingest\" first", err)
			return nil
		}

		data := pterm.TableData{
			{"database", cfg.Store.DatabasePath},
			{"table", "sales"},
			{"rows", pterm.Sprintf("%d", count)},
		}
		return pterm.DefaultTable.WithData(data).Render()
	},
}

package main

import (
	"salesiq/cmd/salesiq/chat"

	"github.com/spf13/cobra"
)

// chatCmd launches the interactive TUI.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat with the sales assistant",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		orch, s, err := buildPipeline(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		return chat.Run(orch.Submit)
	},
}

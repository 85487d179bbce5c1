package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mongrate/internal/analyzer"
	"mongrate/internal/llm"
	"mongrate/internal/migrate/agentic"
)

var agenticCmd = &cobra.Command{
	Use:   "agentic <path>",
	Short: "Run the group-chat migration mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		if _, err := os.Stat(root); err != nil {
			return fmt.Errorf("repository path %s does not exist", root)
		}

		client := llm.NewOpenAIChat(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Temperature, cfg.LLM.MaxTokens)
		a := analyzer.New(analyzer.Config{Ignore: cfg.Analyzer.Ignore})
		system := agentic.NewSystem(client, a, cfg.Output.Dir)

		fmt.Fprintf(os.Stderr, "Starting agentic migration for %s...\n", root)
		result, err := system.Run(cmd.Context(), root)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "%s Report written to %s\n", color.GreenString("✓"), result.ReportPath)
		fmt.Fprintf(os.Stderr, "%s Transcript written to %s\n", color.GreenString("✓"), result.ContextPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(agenticCmd)
}

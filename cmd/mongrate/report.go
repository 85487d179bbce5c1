package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mongrate/internal/analyzer"
	"mongrate/internal/curate"
	"mongrate/internal/llm"
	"mongrate/internal/migrate/sequential"
)

var flagReportOut string

var reportCmd = &cobra.Command{
	Use:   "report <path>",
	Short: "Run the sequential migration pipeline and write the report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		a := analyzer.New(analyzer.Config{Ignore: cfg.Analyzer.Ignore})
		fmt.Fprintf(os.Stderr, "Analyzing %s...\n", root)
		summary, err := a.AnalyzeCodebase(cmd.Context(), root)
		if err != nil {
			return err
		}

		curated := curate.New(nil).Build(summary)
		fmt.Fprintf(os.Stderr, "Curated %d entities, %d relationships\n",
			len(curated.Entities), len(curated.Relationships))

		client := llm.NewOpenAIChat(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Temperature, cfg.LLM.MaxTokens)
		migration, err := sequential.New(client, summary, curated)
		if err != nil {
			return err
		}

		reportPath := flagReportOut
		if reportPath == "" {
			timestamp := time.Now().Format("20060102_150405")
			reportPath = filepath.Join(cfg.Output.Dir, fmt.Sprintf("migration_report_%s.md", timestamp))
		}

		fmt.Fprintln(os.Stderr, "Generating migration plan...")
		if err := migration.Run(cmd.Context(), reportPath); err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "%s Report written to %s\n", color.GreenString("✓"), reportPath)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&flagReportOut, "out", "o", "", "report path (default <output.dir>/migration_report_<timestamp>.md)")
	rootCmd.AddCommand(reportCmd)
}

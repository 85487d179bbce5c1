package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mongrate/internal/analyzer"
)

var (
	flagJSON    bool
	flagVerbose bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <path>",
	Short: "Analyze a Java codebase and print its summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		a := analyzer.New(analyzer.Config{
			Ignore: cfg.Analyzer.Ignore,
			Progress: func(path string) {
				if flagVerbose {
					fmt.Fprintf(os.Stderr, "%s %s\n", color.HiBlackString("scanning"), path)
				}
			},
		})

		fmt.Fprintf(os.Stderr, "Analyzing %s...\n", root)
		start := time.Now()

		summary, err := a.AnalyzeCodebase(cmd.Context(), root)
		if err != nil {
			return err
		}

		if flagJSON {
			data, err := summary.JSON()
			if err != nil {
				return err
			}
			fmt.Println(string(data))
		} else {
			fmt.Println(summary.String())
		}

		fmt.Fprintf(os.Stderr, "\n%s in %s: %d files, %d entities, %d repositories, %d database configs\n",
			color.GreenString("Done"), time.Since(start).Round(time.Millisecond),
			len(summary.Files), len(summary.Entities), len(summary.Repositories), len(summary.DatabaseConfigs))

		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&flagJSON, "json", false, "print the summary as JSON")
	analyzeCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "print each scanned file")
	rootCmd.AddCommand(analyzeCmd)
}

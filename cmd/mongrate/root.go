package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mongrate/internal/config"
)

var (
	flagConfig string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mongrate",
	Short: "Analyze Java Spring codebases and plan JPA to MongoDB migrations",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "warning: %v, using defaults\n", err)
			}
			loaded = config.Default()
			loaded.Resolve()
		}
		cfg = loaded
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "mongrate.yaml", "path to the configuration file")
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var envFile string

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "registry",
		Short: "Clinical registry of patient records with cardiovascular risk classification",
		Long: `registry stores patient records, derives BMI, blood pressure stage and
cardiovascular risk for each one, and keeps CSV, XLSX and PDF exports of the
whole table up to date.

Running it without a subcommand starts the HTTP API.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file to load")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newTokenCommand())

	return rootCmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

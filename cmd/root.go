// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the Martedit application.
// It implements subcommands for editing mart SQL files from natural-language
// requests, listing the mart catalog, and managing the model API key, using
// the Cobra CLI framework with a rich terminal UI.
package cmd

import (
	"fmt"
	"os"

	"martedit/cli/internal/logging"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "martedit",
	Short: "Edit SQL mart files from natural-language requests",
	Long: `Martedit rewrites SQL mart files from plain-language change requests.
A request is routed to exactly one mart in the catalog, the mart's SQL is
regenerated by the model, checked against the query policy, and only then
written back to the file. A request that cannot be routed or validated
changes nothing.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("martedit %s\n", Version)
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, logging.PresentError("", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
}

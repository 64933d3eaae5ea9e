// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"martedit/cli/internal/martmeta"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	martsRoot string
)

// martsCmd lists the mart catalog the editor routes requests against.
var martsCmd = &cobra.Command{
	Use:   "marts",
	Short: "List the marts in the catalog",
	Long: `The marts command prints every mart declared in marts.json: its name, the
SQL file it owns, and the description the router uses to match requests
against it.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := martmeta.Get(martsRoot)
		if err != nil {
			return err
		}

		rows := pterm.TableData{{"Name", "Path", "Description"}}
		for _, e := range reg.Entries {
			rows = append(rows, []string{e.Name, e.Path, e.Description})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

func init() {
	rootCmd.AddCommand(martsCmd)
	martsCmd.Flags().StringVar(&martsRoot, "root", ".", "Directory holding marts.json and the mart SQL files")
}

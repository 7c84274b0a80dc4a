package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citecheck/internal/engine"
)

var selectionMapCmd = &cobra.Command{
	Use:   "selection-map",
	Short: "Build a selection map from a first-pass result batch",
	Long: `Selection-map reads a result batch and extracts every citation flagged
selection_required, mapping its ID to the engine's recommended candidate rank.
Edit the ranks as needed, then pass the file to check --selection-map on a
second pass over the same input.`,
	RunE: runSelectionMap,
}

func init() {
	selectionMapCmd.Flags().StringP("results", "r", "", "result file from a previous check run (required)")
	selectionMapCmd.Flags().StringP("output", "o", "selection.json", "selection map file to write (JSON or YAML by extension)")

	rootCmd.AddCommand(selectionMapCmd)
}

func runSelectionMap(cmd *cobra.Command, args []string) error {
	resultsPath, _ := cmd.Flags().GetString("results")
	if resultsPath == "" {
		return fmt.Errorf("provide a result file with --results")
	}

	results, err := engine.LoadResults(resultsPath)
	if err != nil {
		return err
	}

	m, err := engine.BuildSelectionMap(results)
	if err != nil {
		return err
	}
	if len(m) == 0 {
		fmt.Fprintln(os.Stderr, "No citations require selection; nothing to write.")
		return nil
	}

	output, _ := cmd.Flags().GetString("output")
	if err := engine.WriteSelectionMap(output, m); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %d selection(s) to %s\n", len(m), output)
	return nil
}

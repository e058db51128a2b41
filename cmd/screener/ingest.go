package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Ingest a single resume file",
	Long:  `Extract, analyze and store one resume. Prints the resulting candidate id, or reports a duplicate.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	app, err := newApp(context.Background())
	if err != nil {
		return err
	}
	defer app.Close()

	outcome, err := app.runner.Process(cmd.Context(), filepath.Base(args[0]), data)
	if err != nil {
		return err
	}

	switch {
	case outcome.Duplicate:
		fmt.Printf("Duplicate of candidate %d, nothing stored\n", outcome.CandidateID)
	case outcome.Updated:
		fmt.Printf("Updated candidate %d (%s)\n", outcome.CandidateID, outcome.FullName)
	default:
		fmt.Printf("Created candidate %d (%s)\n", outcome.CandidateID, outcome.FullName)
	}
	return nil
}

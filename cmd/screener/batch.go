package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/batch"
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Ingest every resume in a directory",
	Long:  `Process all .pdf, .docx and .txt files in a directory through the ingestion pipeline and print a per-file summary.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	entries, err := os.ReadDir(args[0])
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", args[0], err)
	}

	var files []batch.File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".pdf", ".docx", ".txt":
		default:
			continue
		}
		data, err := os.ReadFile(filepath.Join(args[0], entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}
		files = append(files, batch.File{Name: entry.Name(), Data: data})
	}
	if len(files) == 0 {
		return fmt.Errorf("no resume files found in %s", args[0])
	}

	app, err := newApp(context.Background())
	if err != nil {
		return err
	}
	defer app.Close()

	summary := app.batch.Run(cmd.Context(), files)

	for _, result := range summary.Results {
		switch {
		case result.Err != nil:
			fmt.Printf("FAIL  %s: %v\n", result.Filename, result.Err)
		case result.Outcome.Duplicate:
			fmt.Printf("DUP   %s -> candidate %d\n", result.Filename, result.Outcome.CandidateID)
		case result.Outcome.Updated:
			fmt.Printf("MERGE %s -> candidate %d\n", result.Filename, result.Outcome.CandidateID)
		default:
			fmt.Printf("OK    %s -> candidate %d\n", result.Filename, result.Outcome.CandidateID)
		}
	}
	fmt.Printf("\n%d processed: %d new, %d duplicates, %d failed\n",
		summary.Total, summary.Succeeded, summary.Duplicates, summary.Failed)
	return nil
}

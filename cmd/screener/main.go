// Package main provides the entry point for the resume screener.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Resume ingestion and screening service",
	Long:  "Screener extracts text from uploaded resumes, turns it into structured candidate records with an LLM, deduplicates them into PostgreSQL and ranks them against job descriptions.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

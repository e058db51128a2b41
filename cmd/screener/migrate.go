package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	database, err := db.Connect(cmd.Context(), databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Schema is up to date")
	return nil
}

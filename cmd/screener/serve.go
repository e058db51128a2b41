package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing resume upload, candidate CRUD, dashboard and shortlist endpoints.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, err := newApp(context.Background())
	if err != nil {
		return err
	}
	defer app.Close()

	srv := server.New(app.cfg.ListenAddr, server.Deps{
		Ingestor:   app.runner,
		Batch:      app.batch,
		Candidates: app.database,
		Ranker:     app.shortlister,
		Store:      app.store,
	})
	return srv.Start()
}

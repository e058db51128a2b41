package main

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-screener/internal/analyze"
	"github.com/jonathan/resume-screener/internal/batch"
	"github.com/jonathan/resume-screener/internal/config"
	"github.com/jonathan/resume-screener/internal/db"
	"github.com/jonathan/resume-screener/internal/extract"
	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/pipeline"
	"github.com/jonathan/resume-screener/internal/shortlist"
	"github.com/jonathan/resume-screener/internal/storage"
)

// app holds every wired component a command might need.
type app struct {
	cfg         *config.Config
	database    *db.DB
	client      *llm.GeminiClient
	store       storage.Store
	runner      *pipeline.Runner
	batch       *batch.Processor
	shortlister *shortlist.Shortlister
}

// newApp builds the full component graph from the environment.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	llmCfg := llm.DefaultConfig()
	llmCfg.Model = cfg.GeminiModel
	client, err := llm.NewGeminiClient(ctx, llmCfg, cfg.GeminiAPIKey)
	if err != nil {
		database.Close()
		return nil, err
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		database.Close()
		_ = client.Close()
		return nil, err
	}

	var ocrLangs []string
	if cfg.OCRLanguage != "" {
		ocrLangs = append(ocrLangs, cfg.OCRLanguage)
	}
	extractor := extract.NewExtractor(extract.NewFitzRenderer(), extract.NewTesseractOCR(ocrLangs...))
	analyzer := analyze.NewAnalyzer(client)

	runner := pipeline.NewRunner(extractor, analyzer, database, store, client)

	return &app{
		cfg:         cfg,
		database:    database,
		client:      client,
		store:       store,
		runner:      runner,
		batch:       batch.NewProcessor(runner, cfg.BatchChunkSize, cfg.BatchFileTimeout),
		shortlister: shortlist.NewShortlister(client),
	}, nil
}

func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case "s3":
		return storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			UseSSL:    cfg.S3UseSSL,
		})
	case "local":
		return storage.NewLocalStore(cfg.LocalStorePath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func (a *app) Close() {
	if a.client != nil {
		_ = a.client.Close()
	}
	if a.database != nil {
		a.database.Close()
	}
}

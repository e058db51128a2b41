// Package batch processes many resume files through the ingestion
// pipeline, bounding concurrency so a large drop of files cannot swamp
// the model API or the database.
package batch

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-screener/internal/pipeline"
)

const (
	defaultChunkSize   = 5
	defaultFileTimeout = 2 * time.Minute
)

// Ingestor is the per-file pipeline entry point.
type Ingestor interface {
	Process(ctx context.Context, filename string, data []byte) (*pipeline.Outcome, error)
}

// File is one resume to ingest.
type File struct {
	Name string
	Data []byte
}

// Result pairs a file with how its ingestion ended. Err is nil on
// success; Outcome is nil on failure.
type Result struct {
	Filename string            `json:"filename"`
	Outcome  *pipeline.Outcome `json:"outcome,omitempty"`
	Err      error             `json:"-"`
	Error    string            `json:"error,omitempty"`
}

// Summary aggregates a whole batch run.
type Summary struct {
	Total      int      `json:"total"`
	Succeeded  int      `json:"succeeded"`
	Duplicates int      `json:"duplicates"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// Processor runs files in sequential chunks, with the files inside a
// chunk processed concurrently. One bad file never stops the batch.
type Processor struct {
	ingestor    Ingestor
	chunkSize   int
	fileTimeout time.Duration
}

func NewProcessor(ingestor Ingestor, chunkSize int, fileTimeout time.Duration) *Processor {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if fileTimeout <= 0 {
		fileTimeout = defaultFileTimeout
	}
	return &Processor{ingestor: ingestor, chunkSize: chunkSize, fileTimeout: fileTimeout}
}

// Run ingests every file and reports per-file results in input order.
// It stops early only when the parent context is cancelled.
func (p *Processor) Run(ctx context.Context, files []File) Summary {
	summary := Summary{Total: len(files), Results: make([]Result, len(files))}

	for start := 0; start < len(files); start += p.chunkSize {
		if ctx.Err() != nil {
			for i := start; i < len(files); i++ {
				summary.Results[i] = Result{Filename: files[i].Name, Err: ctx.Err(), Error: ctx.Err().Error()}
			}
			break
		}

		end := start + p.chunkSize
		if end > len(files) {
			end = len(files)
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				summary.Results[i] = p.processOne(gctx, files[i])
				return nil
			})
		}
		_ = g.Wait()
	}

	for _, r := range summary.Results {
		switch {
		case r.Err != nil:
			summary.Failed++
		case r.Outcome != nil && r.Outcome.Duplicate:
			summary.Duplicates++
		default:
			summary.Succeeded++
		}
	}
	return summary
}

func (p *Processor) processOne(ctx context.Context, f File) Result {
	ctx, cancel := context.WithTimeout(ctx, p.fileTimeout)
	defer cancel()

	outcome, err := p.ingestor.Process(ctx, f.Name, f.Data)
	if err != nil {
		log.Printf("batch: failed to process %s: %v", f.Name, err)
		return Result{Filename: f.Name, Err: err, Error: err.Error()}
	}
	return Result{Filename: f.Name, Outcome: outcome}
}

// Package pipeline chains extraction, validation, analysis, storage and
// persistence into the single-resume ingestion flow.
package pipeline

import (
	"context"
	"log"
	"path/filepath"

	"github.com/jonathan/resume-screener/internal/analyze"
	"github.com/jonathan/resume-screener/internal/db"
	"github.com/jonathan/resume-screener/internal/extract"
	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/storage"
	"github.com/jonathan/resume-screener/internal/types"
	"github.com/jonathan/resume-screener/internal/validate"
)

// TextExtractor pulls plain text out of a resume file.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, format extract.Format) (string, error)
}

// ResumeAnalyzer turns resume text into a structured record.
type ResumeAnalyzer interface {
	Analyze(ctx context.Context, resumeText string) (*types.ExtractedResume, error)
}

// Upserter persists a structured record with duplicate detection.
type Upserter interface {
	Upsert(ctx context.Context, rec *types.ExtractedResume, ref db.FileRef) (db.UpsertResult, error)
}

// Runner executes the ingestion pipeline. The classifier is optional;
// when nil, skills keep their keyword-based categories.
type Runner struct {
	extractor  TextExtractor
	analyzer   ResumeAnalyzer
	upserter   Upserter
	store      storage.Store
	classifier llm.Client
}

func NewRunner(extractor TextExtractor, analyzer ResumeAnalyzer, upserter Upserter, store storage.Store, classifier llm.Client) *Runner {
	return &Runner{
		extractor:  extractor,
		analyzer:   analyzer,
		upserter:   upserter,
		store:      store,
		classifier: classifier,
	}
}

// Outcome reports what happened to one processed resume.
type Outcome struct {
	Filename    string `json:"filename"`
	CandidateID int64  `json:"candidate_id"`
	Duplicate   bool   `json:"duplicate"`
	Updated     bool   `json:"updated"`
	ResumeURL   string `json:"resume_url,omitempty"`
	FullName    string `json:"full_name,omitempty"`
}

// Process runs one resume through the full pipeline. Stages fail fast:
// a failure anywhere propagates its typed error and nothing later runs.
// The file is only stored once analysis succeeds, and a store blob for a
// duplicate upload is removed again so it does not leak.
func (r *Runner) Process(ctx context.Context, filename string, data []byte) (*Outcome, error) {
	if err := storage.ValidateUpload(filename, data); err != nil {
		return nil, err
	}
	format, err := extract.ParseFormat(filepath.Ext(filename))
	if err != nil {
		return nil, err
	}

	text, err := r.extractor.Extract(ctx, data, format)
	if err != nil {
		return nil, err
	}
	text, err = validate.Resume(text)
	if err != nil {
		return nil, err
	}

	rec, err := r.analyzer.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}
	rec.Skills = analyze.CategorizeSkills(rec.Skills)
	if r.classifier != nil {
		rec.Skills = analyze.ClassifySkills(ctx, r.classifier, rec.Skills)
	}

	key := storage.GenerateKey(filename)
	if err := r.store.Save(ctx, key, data); err != nil {
		return nil, err
	}
	url, err := r.store.URL(ctx, key)
	if err != nil {
		return nil, err
	}

	result, err := r.upserter.Upsert(ctx, rec, db.FileRef{
		Path:             key,
		URL:              url,
		OriginalFilename: filepath.Base(filename),
	})
	if err != nil {
		return nil, err
	}

	if result.Duplicate {
		if err := r.store.Delete(ctx, key); err != nil {
			log.Printf("warning: failed to clean up duplicate upload %s: %v", key, err)
		}
	}

	return &Outcome{
		Filename:    filepath.Base(filename),
		CandidateID: result.CandidateID,
		Duplicate:   result.Duplicate,
		Updated:     result.Updated,
		ResumeURL:   result.ResumeURL,
		FullName:    rec.FullName,
	}, nil
}

package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/resume-screener/internal/analyze"
	"github.com/jonathan/resume-screener/internal/db"
	"github.com/jonathan/resume-screener/internal/extract"
	"github.com/jonathan/resume-screener/internal/fetch"
	"github.com/jonathan/resume-screener/internal/shortlist"
	"github.com/jonathan/resume-screener/internal/storage"
	"github.com/jonathan/resume-screener/internal/validate"
)

// HTTPStatus maps pipeline errors to response codes: client mistakes are
// 400, files we understood but could not read are 422, upstream model
// trouble is 502, everything else is 500.
func HTTPStatus(err error) int {
	var (
		unsupported   *extract.UnsupportedFormatError
		invalidUpload *storage.InvalidUploadError
		invalidResume *validate.InvalidResumeError
		extraction    *extract.ExtractionError
		analysis      *analyze.AnalysisError
		scoring       *shortlist.ScoringError
		fetchErr      *fetch.Error
		persistence   *db.PersistenceError
		storageErr    *storage.StorageError
	)

	switch {
	case errors.As(err, &unsupported), errors.As(err, &invalidUpload), errors.As(err, &invalidResume):
		return http.StatusBadRequest
	case errors.As(err, &extraction):
		return http.StatusUnprocessableEntity
	case errors.As(err, &analysis), errors.As(err, &scoring), errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.As(err, &persistence), errors.As(err, &storageErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

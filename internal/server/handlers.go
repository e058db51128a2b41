package server

import (
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-screener/internal/batch"
	"github.com/jonathan/resume-screener/internal/fetch"
	"github.com/jonathan/resume-screener/internal/storage"
	"github.com/jonathan/resume-screener/internal/types"
)

// multipartMemoryLimit bounds how much of a multipart body stays in
// memory before spilling to disk.
const multipartMemoryLimit = 32 << 20

// handleUpload ingests a single resume file
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing 'file' field")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxUploadSize+1))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read file: "+err.Error())
		return
	}

	outcome, err := s.deps.Ingestor.Process(r.Context(), header.Filename, data)
	if err != nil {
		log.Printf("upload failed for %s: %v", header.Filename, err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	status := http.StatusCreated
	if outcome.Duplicate {
		status = http.StatusOK
	}
	s.jsonResponse(w, status, outcome)
}

// handleBatchUpload ingests every file in the 'files' multipart field
func (s *Server) handleBatchUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "Missing 'files' field")
		return
	}

	files := make([]batch.File, 0, len(r.MultipartForm.File["files"]))
	for _, header := range r.MultipartForm.File["files"] {
		data, err := readMultipartFile(header)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Failed to read "+header.Filename+": "+err.Error())
			return
		}
		files = append(files, batch.File{Name: header.Filename, Data: data})
	}

	summary := s.deps.Batch.Run(r.Context(), files)
	s.jsonResponse(w, http.StatusOK, summary)
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(io.LimitReader(f, storage.MaxUploadSize+1))
}

// handleListCandidates lists candidates, optionally filtered by status
func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	var status *types.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, ok := types.ParseStatus(raw)
		if !ok {
			s.errorResponse(w, http.StatusBadRequest, "Unknown status: "+raw)
			return
		}
		status = &parsed
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit: "+raw)
			return
		}
		limit = parsed
	}

	candidates, err := s.deps.Candidates.ListCandidates(r.Context(), status, limit)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"candidates": candidates,
		"count":      len(candidates),
	})
}

func (s *Server) candidateID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.errorResponse(w, http.StatusBadRequest, "Invalid candidate id")
		return 0, false
	}
	return id, true
}

// handleGetCandidate returns one candidate with education, skills and
// work experience
func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.candidateID(w, r)
	if !ok {
		return
	}

	candidate, err := s.deps.Candidates.GetCandidate(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if candidate == nil {
		s.errorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	// Presigned links expire; hand out a fresh one on every read.
	if candidate.ResumeFilePath != "" {
		if url, err := s.deps.Store.URL(r.Context(), candidate.ResumeFilePath); err == nil && url != candidate.ResumeURL {
			if err := s.deps.Candidates.RefreshResumeURL(r.Context(), candidate.ID, url); err != nil {
				log.Printf("warning: failed to refresh resume URL for candidate %d: %v", candidate.ID, err)
			} else {
				candidate.ResumeURL = url
			}
		}
	}
	s.jsonResponse(w, http.StatusOK, candidate)
}

// handleDeleteCandidate removes a candidate and its stored resume file
func (s *Server) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.candidateID(w, r)
	if !ok {
		return
	}

	candidate, err := s.deps.Candidates.GetCandidate(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if candidate == nil {
		s.errorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	deleted, err := s.deps.Candidates.DeleteCandidate(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if deleted && candidate.ResumeFilePath != "" {
		if err := s.deps.Store.Delete(r.Context(), candidate.ResumeFilePath); err != nil {
			log.Printf("warning: failed to delete resume file %s: %v", candidate.ResumeFilePath, err)
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"deleted": deleted})
}

// StatusRequest represents the body for /candidates/{id}/status
type StatusRequest struct {
	Status string `json:"status"`
}

// handleUpdateStatus moves a candidate through the screening funnel
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.candidateID(w, r)
	if !ok {
		return
	}

	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	status, ok := types.ParseStatus(req.Status)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "Unknown status: "+req.Status)
		return
	}

	updated, err := s.deps.Candidates.UpdateStatus(r.Context(), id, status)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if !updated {
		s.errorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"candidate_id": id, "status": status})
}

// handleDashboardStats returns the screening funnel counters
func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.deps.Candidates.Stats(r.Context())
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, stats)
}

// ShortlistRequest represents the body for /shortlist. Exactly one of
// JobDescription and JobURL must be set.
type ShortlistRequest struct {
	JobDescription string `json:"job_description,omitempty"`
	JobURL         string `json:"job_url,omitempty"`
	TopN           int    `json:"top_n,omitempty"`
	UpdateStatus   bool   `json:"update_status,omitempty"`
}

// handleShortlist scores stored candidates against a job description
// and optionally marks the winners as shortlisted
func (s *Server) handleShortlist(w http.ResponseWriter, r *http.Request) {
	var req ShortlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if (req.JobDescription == "") == (req.JobURL == "") {
		s.errorResponse(w, http.StatusBadRequest, "Exactly one of job_description or job_url is required")
		return
	}
	if req.TopN <= 0 {
		req.TopN = 10
	}

	jobDescription := req.JobDescription
	if req.JobURL != "" {
		fetchJob := s.deps.FetchJob
		if fetchJob == nil {
			fetchJob = fetch.JobPosting
		}
		text, err := fetchJob(r.Context(), req.JobURL)
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
		jobDescription = text
	}

	candidates, err := s.deps.Candidates.ListCandidates(r.Context(), nil, 500)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if len(candidates) == 0 {
		s.jsonResponse(w, http.StatusOK, map[string]any{"shortlist": []any{}})
		return
	}

	scores, err := s.deps.Ranker.Rank(r.Context(), jobDescription, candidates, req.TopN)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if req.UpdateStatus {
		for _, score := range scores {
			if _, err := s.deps.Candidates.UpdateStatus(r.Context(), score.CandidateID, types.StatusShortlisted); err != nil {
				log.Printf("warning: failed to shortlist candidate %d: %v", score.CandidateID, err)
			}
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"shortlist": scores})
}

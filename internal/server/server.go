// Package server provides the HTTP REST API for the resume screener.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/resume-screener/internal/batch"
	"github.com/jonathan/resume-screener/internal/db"
	"github.com/jonathan/resume-screener/internal/pipeline"
	"github.com/jonathan/resume-screener/internal/shortlist"
	"github.com/jonathan/resume-screener/internal/storage"
	"github.com/jonathan/resume-screener/internal/types"
)

// Ingestor runs one resume through the pipeline.
type Ingestor interface {
	Process(ctx context.Context, filename string, data []byte) (*pipeline.Outcome, error)
}

// BatchRunner runs many resumes with bounded concurrency.
type BatchRunner interface {
	Run(ctx context.Context, files []batch.File) batch.Summary
}

// CandidateStore is the persistence surface the handlers need.
type CandidateStore interface {
	ListCandidates(ctx context.Context, status *types.Status, limit int) ([]types.Candidate, error)
	GetCandidate(ctx context.Context, id int64) (*types.Candidate, error)
	UpdateStatus(ctx context.Context, id int64, status types.Status) (bool, error)
	DeleteCandidate(ctx context.Context, id int64) (bool, error)
	Stats(ctx context.Context) (db.DashboardStats, error)
	RefreshResumeURL(ctx context.Context, id int64, url string) error
}

// Ranker scores candidates against a job description.
type Ranker interface {
	Rank(ctx context.Context, jobDescription string, candidates []types.Candidate, topN int) ([]shortlist.Score, error)
}

// Deps wires the server to the rest of the system. FetchJob may be nil,
// in which case job URLs are fetched over real HTTP.
type Deps struct {
	Ingestor   Ingestor
	Batch      BatchRunner
	Candidates CandidateStore
	Ranker     Ranker
	Store      storage.Store
	FetchJob   func(ctx context.Context, url string) (string, error)
}

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	deps       Deps
}

// New creates a server listening on addr.
func New(addr string, deps Deps) *Server {
	s := &Server{deps: deps}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // batch uploads can take a while
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /resumes/upload", s.handleUpload)
	mux.HandleFunc("POST /resumes/batch", s.handleBatchUpload)

	mux.HandleFunc("GET /candidates", s.handleListCandidates)
	mux.HandleFunc("GET /candidates/{id}", s.handleGetCandidate)
	mux.HandleFunc("DELETE /candidates/{id}", s.handleDeleteCandidate)
	mux.HandleFunc("POST /candidates/{id}/status", s.handleUpdateStatus)

	mux.HandleFunc("GET /dashboard/stats", s.handleDashboardStats)
	mux.HandleFunc("POST /shortlist", s.handleShortlist)
	mux.HandleFunc("GET /health", s.handleHealth)

	return mux
}

// Start begins listening and blocks until SIGINT or SIGTERM, then
// drains in-flight requests before returning.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Println("Server stopped")
	return nil
}

// Handler exposes the routed handler stack for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging logs each request with its duration
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// jsonResponse writes a JSON response with the given status
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

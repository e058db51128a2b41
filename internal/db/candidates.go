package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jonathan/resume-screener/internal/types"
)

// uniqueViolation is the PostgreSQL error code raised by the partial unique
// index on email when two uploads for the same person race.
const uniqueViolation = "23505"

// FileRef carries the stored resume file location alongside an upsert.
type FileRef struct {
	Path             string
	URL              string
	OriginalFilename string
}

// UpsertResult reports what the upsert engine decided.
type UpsertResult struct {
	CandidateID int64
	// Duplicate means an identical resume already exists; nothing was written.
	Duplicate bool
	// Updated means an existing candidate was merged rather than inserted.
	Updated bool
	// ResumeURL is the stored resume link, useful when Duplicate is true.
	ResumeURL string
}

// Upsert persists a freshly extracted record inside one transaction.
// Detection first: a record with neither email nor phone is always treated
// as a new person. A full-field match is a duplicate and writes nothing; a
// partial match merges in place, replacing all children wholesale; no match
// inserts a new candidate with status pending. Any failure rolls back
// everything for this call.
func (db *DB) Upsert(ctx context.Context, rec *types.ExtractedResume, ref FileRef) (UpsertResult, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return UpsertResult{}, &PersistenceError{Message: "failed to begin transaction", Cause: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	result, err := upsertTx(ctx, tx, rec, ref)
	if err != nil {
		var persistence *PersistenceError
		if errors.As(err, &persistence) {
			return UpsertResult{}, err
		}
		return UpsertResult{}, &PersistenceError{Message: "upsert failed", Cause: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return UpsertResult{}, &PersistenceError{Message: "failed to commit upsert", Cause: err}
	}
	return result, nil
}

func upsertTx(ctx context.Context, tx pgx.Tx, rec *types.ExtractedResume, ref FileRef) (UpsertResult, error) {
	existing, err := findByIdentity(ctx, tx, rec.Email, rec.Phone)
	if err != nil {
		return UpsertResult{}, err
	}

	if existing != nil && IsDuplicate(existing, rec) {
		return UpsertResult{
			CandidateID: existing.ID,
			Duplicate:   true,
			ResumeURL:   existing.ResumeURL,
		}, nil
	}

	if existing != nil {
		if err := mergeCandidate(ctx, tx, existing.ID, rec, ref); err != nil {
			return UpsertResult{}, err
		}
		return UpsertResult{CandidateID: existing.ID, Updated: true, ResumeURL: ref.URL}, nil
	}

	id, err := insertCandidateIsolated(ctx, tx, rec, ref)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// Lost the insert race on email: another upload committed the
			// same address between our lookup and insert. Re-run detection
			// against the winner's row instead.
			return retryAsMerge(ctx, tx, rec, ref)
		}
		return UpsertResult{}, err
	}

	if err := insertChildren(ctx, tx, id, rec); err != nil {
		return UpsertResult{}, err
	}
	return UpsertResult{CandidateID: id, ResumeURL: ref.URL}, nil
}

// insertCandidateIsolated wraps the insert in a savepoint so a unique
// violation does not poison the surrounding transaction.
func insertCandidateIsolated(ctx context.Context, tx pgx.Tx, rec *types.ExtractedResume, ref FileRef) (int64, error) {
	nested, err := tx.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to open savepoint: %w", err)
	}
	id, err := insertCandidate(ctx, nested, rec, ref)
	if err != nil {
		_ = nested.Rollback(ctx)
		return 0, err
	}
	if err := nested.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to release savepoint: %w", err)
	}
	return id, nil
}

func retryAsMerge(ctx context.Context, tx pgx.Tx, rec *types.ExtractedResume, ref FileRef) (UpsertResult, error) {
	existing, err := findByIdentity(ctx, tx, rec.Email, rec.Phone)
	if err != nil {
		return UpsertResult{}, err
	}
	if existing == nil {
		return UpsertResult{}, &PersistenceError{
			Message: fmt.Sprintf("concurrent upload for %q, retry the request", rec.Email),
		}
	}
	if IsDuplicate(existing, rec) {
		return UpsertResult{CandidateID: existing.ID, Duplicate: true, ResumeURL: existing.ResumeURL}, nil
	}
	if err := mergeCandidate(ctx, tx, existing.ID, rec, ref); err != nil {
		return UpsertResult{}, err
	}
	return UpsertResult{CandidateID: existing.ID, Updated: true, ResumeURL: ref.URL}, nil
}

// findByIdentity looks up an existing candidate by exact email match
// (case-sensitive), then by exact phone match, loading children eagerly.
// Records with neither email nor phone skip detection entirely.
func findByIdentity(ctx context.Context, tx pgx.Tx, email, phone string) (*types.Candidate, error) {
	if email == "" && phone == "" {
		return nil, nil
	}

	var candidate *types.Candidate
	var err error
	if email != "" {
		candidate, err = queryCandidate(ctx, tx, `SELECT `+candidateColumns+` FROM candidates WHERE email = $1`, email)
		if err != nil {
			return nil, err
		}
	}
	if candidate == nil && phone != "" {
		candidate, err = queryCandidate(ctx, tx, `SELECT `+candidateColumns+` FROM candidates WHERE phone = $1`, phone)
		if err != nil {
			return nil, err
		}
	}
	if candidate == nil {
		return nil, nil
	}

	if err := loadChildren(ctx, tx, candidate); err != nil {
		return nil, err
	}
	return candidate, nil
}

const candidateColumns = `candidate_id, full_name, email, phone, location, years_experience,
	resume_file_path, resume_url, original_filename, status, created_at, updated_at`

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func queryCandidate(ctx context.Context, q rowQuerier, sql string, args ...any) (*types.Candidate, error) {
	var c types.Candidate
	err := q.QueryRow(ctx, sql, args...).Scan(
		&c.ID, &c.FullName, &c.Email, &c.Phone, &c.Location, &c.YearsExperience,
		&c.ResumeFilePath, &c.ResumeURL, &c.OriginalFilename, &c.Status,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query candidate: %w", err)
	}
	return &c, nil
}

func loadChildren(ctx context.Context, q rowQuerier, c *types.Candidate) error {
	eduRows, err := q.Query(ctx,
		`SELECT education_id, degree, institution, graduation_year
		 FROM education WHERE candidate_id = $1 ORDER BY education_id`, c.ID)
	if err != nil {
		return fmt.Errorf("failed to load education: %w", err)
	}
	c.Education, err = pgx.CollectRows(eduRows, func(row pgx.CollectableRow) (types.Education, error) {
		var e types.Education
		err := row.Scan(&e.ID, &e.Degree, &e.Institution, &e.GraduationYear)
		return e, err
	})
	if err != nil {
		return fmt.Errorf("failed to scan education: %w", err)
	}

	skillRows, err := q.Query(ctx,
		`SELECT skill_id, skill_name, skill_category, proficiency_level
		 FROM skills WHERE candidate_id = $1 ORDER BY skill_id`, c.ID)
	if err != nil {
		return fmt.Errorf("failed to load skills: %w", err)
	}
	c.Skills, err = pgx.CollectRows(skillRows, func(row pgx.CollectableRow) (types.Skill, error) {
		var s types.Skill
		err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Proficiency)
		return s, err
	})
	if err != nil {
		return fmt.Errorf("failed to scan skills: %w", err)
	}

	expRows, err := q.Query(ctx,
		`SELECT experience_id, company, position, duration, start_date, end_date
		 FROM work_experiences WHERE candidate_id = $1 ORDER BY experience_id`, c.ID)
	if err != nil {
		return fmt.Errorf("failed to load work experiences: %w", err)
	}
	c.WorkExperiences, err = pgx.CollectRows(expRows, func(row pgx.CollectableRow) (types.WorkExperience, error) {
		var w types.WorkExperience
		err := row.Scan(&w.ID, &w.Company, &w.Position, &w.Duration, &w.StartDate, &w.EndDate)
		return w, err
	})
	if err != nil {
		return fmt.Errorf("failed to scan work experiences: %w", err)
	}
	return nil
}

// insertCandidate creates the parent row and returns its assigned id.
// Children are always inserted after the parent is flushed.
func insertCandidate(ctx context.Context, tx pgx.Tx, rec *types.ExtractedResume, ref FileRef) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx,
		`INSERT INTO candidates
			(full_name, email, phone, location, years_experience,
			 resume_file_path, resume_url, original_filename, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING candidate_id`,
		rec.FullName, rec.Email, rec.Phone, rec.Location, rec.YearsExperience,
		ref.Path, ref.URL, ref.OriginalFilename, types.StatusPending,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert candidate: %w", err)
	}
	return id, nil
}

// mergeCandidate overwrites mutable fields and replaces every child row
// wholesale. No incremental diffing: reconciling stale children is not worth
// the complexity for resume re-uploads.
func mergeCandidate(ctx context.Context, tx pgx.Tx, id int64, rec *types.ExtractedResume, ref FileRef) error {
	_, err := tx.Exec(ctx,
		`UPDATE candidates SET
			full_name = $1, phone = $2, location = $3, years_experience = $4,
			resume_file_path = $5, resume_url = $6, original_filename = $7,
			updated_at = now()
		 WHERE candidate_id = $8`,
		rec.FullName, rec.Phone, rec.Location, rec.YearsExperience,
		ref.Path, ref.URL, ref.OriginalFilename, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update candidate %d: %w", id, err)
	}

	for _, table := range []string{"education", "skills", "work_experiences"} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE candidate_id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear %s for candidate %d: %w", table, id, err)
		}
	}

	return insertChildren(ctx, tx, id, rec)
}

func insertChildren(ctx context.Context, tx pgx.Tx, id int64, rec *types.ExtractedResume) error {
	for _, edu := range rec.Education {
		_, err := tx.Exec(ctx,
			`INSERT INTO education (candidate_id, degree, institution, graduation_year)
			 VALUES ($1, $2, $3, $4)`,
			id, edu.Degree, edu.Institution, parseGraduationYear(edu.Year),
		)
		if err != nil {
			return fmt.Errorf("failed to insert education for candidate %d: %w", id, err)
		}
	}

	for _, skill := range rec.Skills {
		_, err := tx.Exec(ctx,
			`INSERT INTO skills (candidate_id, skill_name, skill_category, proficiency_level)
			 VALUES ($1, $2, $3, $4)`,
			id, skill.Name, skill.Category, skill.Proficiency,
		)
		if err != nil {
			return fmt.Errorf("failed to insert skill for candidate %d: %w", id, err)
		}
	}

	for _, line := range rec.WorkExperience {
		exp := ParseWorkExperience(line)
		_, err := tx.Exec(ctx,
			`INSERT INTO work_experiences (candidate_id, company, position, duration, start_date, end_date)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			id, exp.Company, exp.Position, exp.Duration, exp.StartDate, exp.EndDate,
		)
		if err != nil {
			return fmt.Errorf("failed to insert work experience for candidate %d: %w", id, err)
		}
	}
	return nil
}

// RefreshResumeURL stores a newly generated presigned URL for a candidate.
// This is a collaborator convenience, not a data-model mutation: updated_at
// is left alone.
func (db *DB) RefreshResumeURL(ctx context.Context, id int64, url string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE candidates SET resume_url = $1 WHERE candidate_id = $2`, url, id)
	if err != nil {
		return &PersistenceError{Message: fmt.Sprintf("failed to refresh resume URL for candidate %d", id), Cause: err}
	}
	return nil
}

// ListCandidates returns candidates with children loaded, optionally
// filtered by status, newest first.
func (db *DB) ListCandidates(ctx context.Context, status *types.Status, limit int) ([]types.Candidate, error) {
	if limit <= 0 {
		limit = 100
	}

	var (
		rows pgx.Rows
		err  error
	)
	if status != nil {
		rows, err = db.pool.Query(ctx,
			`SELECT `+candidateColumns+` FROM candidates WHERE status = $1
			 ORDER BY created_at DESC LIMIT $2`, *status, limit)
	} else {
		rows, err = db.pool.Query(ctx,
			`SELECT `+candidateColumns+` FROM candidates
			 ORDER BY created_at DESC LIMIT $1`, limit)
	}
	if err != nil {
		return nil, &PersistenceError{Message: "failed to list candidates", Cause: err}
	}

	candidates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.Candidate, error) {
		var c types.Candidate
		err := row.Scan(
			&c.ID, &c.FullName, &c.Email, &c.Phone, &c.Location, &c.YearsExperience,
			&c.ResumeFilePath, &c.ResumeURL, &c.OriginalFilename, &c.Status,
			&c.CreatedAt, &c.UpdatedAt,
		)
		return c, err
	})
	if err != nil {
		return nil, &PersistenceError{Message: "failed to scan candidates", Cause: err}
	}

	for i := range candidates {
		if err := loadChildren(ctx, db.pool, &candidates[i]); err != nil {
			return nil, &PersistenceError{Message: "failed to load candidate children", Cause: err}
		}
	}
	return candidates, nil
}

// GetCandidate returns one candidate with children, or nil when not found.
func (db *DB) GetCandidate(ctx context.Context, id int64) (*types.Candidate, error) {
	candidate, err := queryCandidate(ctx, db.pool,
		`SELECT `+candidateColumns+` FROM candidates WHERE candidate_id = $1`, id)
	if err != nil {
		return nil, &PersistenceError{Message: fmt.Sprintf("failed to get candidate %d", id), Cause: err}
	}
	if candidate == nil {
		return nil, nil
	}
	if err := loadChildren(ctx, db.pool, candidate); err != nil {
		return nil, &PersistenceError{Message: fmt.Sprintf("failed to load children of candidate %d", id), Cause: err}
	}
	return candidate, nil
}

// UpdateStatus moves a candidate through the screening funnel and refreshes
// updated_at. Returns false when the candidate does not exist.
func (db *DB) UpdateStatus(ctx context.Context, id int64, status types.Status) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE candidates SET status = $1, updated_at = now() WHERE candidate_id = $2`,
		status, id)
	if err != nil {
		return false, &PersistenceError{Message: fmt.Sprintf("failed to update status of candidate %d", id), Cause: err}
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteCandidate removes a candidate; children cascade at the schema level.
// Returns false when the candidate does not exist.
func (db *DB) DeleteCandidate(ctx context.Context, id int64) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM candidates WHERE candidate_id = $1`, id)
	if err != nil {
		return false, &PersistenceError{Message: fmt.Sprintf("failed to delete candidate %d", id), Cause: err}
	}
	return tag.RowsAffected() > 0, nil
}

// DashboardStats holds the screening funnel counters.
type DashboardStats struct {
	Total       int64 `json:"total_candidates"`
	Pending     int64 `json:"pending_candidates"`
	Shortlisted int64 `json:"shortlisted_candidates"`
	Rejected    int64 `json:"rejected_candidates"`
}

// Stats computes the dashboard counters in a single query.
func (db *DB) Stats(ctx context.Context) (DashboardStats, error) {
	var s DashboardStats
	err := db.pool.QueryRow(ctx,
		`SELECT count(*),
			count(*) FILTER (WHERE status = 'pending'),
			count(*) FILTER (WHERE status = 'shortlisted'),
			count(*) FILTER (WHERE status = 'rejected')
		 FROM candidates`,
	).Scan(&s.Total, &s.Pending, &s.Shortlisted, &s.Rejected)
	if err != nil {
		return DashboardStats{}, &PersistenceError{Message: "failed to compute dashboard stats", Cause: err}
	}
	return s, nil
}

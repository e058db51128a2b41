// Package db provides PostgreSQL persistence for the candidate aggregate.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// schema is the full DDL for the candidate aggregate. The partial unique
// index on email backs the insert-conflict retry that closes the concurrent
// same-person upload race.
const schema = `
CREATE TABLE IF NOT EXISTS candidates (
	candidate_id      BIGSERIAL PRIMARY KEY,
	full_name         TEXT NOT NULL DEFAULT '',
	email             TEXT NOT NULL DEFAULT '',
	phone             TEXT NOT NULL DEFAULT '',
	location          TEXT NOT NULL DEFAULT '',
	years_experience  INT  NOT NULL DEFAULT 0 CHECK (years_experience >= 0),
	resume_file_path  TEXT NOT NULL DEFAULT '',
	resume_url        TEXT NOT NULL DEFAULT '',
	original_filename TEXT NOT NULL DEFAULT '',
	status            TEXT NOT NULL DEFAULT 'pending'
	                  CHECK (status IN ('pending', 'shortlisted', 'rejected')),
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS candidates_email_uniq
	ON candidates (email) WHERE email <> '';
CREATE INDEX IF NOT EXISTS candidates_phone_idx
	ON candidates (phone) WHERE phone <> '';
CREATE INDEX IF NOT EXISTS candidates_status_idx
	ON candidates (status);

CREATE TABLE IF NOT EXISTS education (
	education_id    BIGSERIAL PRIMARY KEY,
	candidate_id    BIGINT NOT NULL REFERENCES candidates(candidate_id) ON DELETE CASCADE,
	degree          TEXT NOT NULL DEFAULT '',
	institution     TEXT NOT NULL DEFAULT '',
	graduation_year INT
);
CREATE INDEX IF NOT EXISTS education_candidate_idx ON education (candidate_id);

CREATE TABLE IF NOT EXISTS skills (
	skill_id          BIGSERIAL PRIMARY KEY,
	candidate_id      BIGINT NOT NULL REFERENCES candidates(candidate_id) ON DELETE CASCADE,
	skill_name        TEXT NOT NULL DEFAULT '',
	skill_category    TEXT NOT NULL DEFAULT 'technical'
	                  CHECK (skill_category IN ('technical', 'soft', 'language', 'other')),
	proficiency_level TEXT NOT NULL DEFAULT 'unknown'
	                  CHECK (proficiency_level IN ('beginner', 'intermediate', 'advanced', 'expert', 'unknown'))
);
CREATE INDEX IF NOT EXISTS skills_candidate_idx ON skills (candidate_id);

CREATE TABLE IF NOT EXISTS work_experiences (
	experience_id BIGSERIAL PRIMARY KEY,
	candidate_id  BIGINT NOT NULL REFERENCES candidates(candidate_id) ON DELETE CASCADE,
	company       TEXT NOT NULL DEFAULT '',
	position      TEXT NOT NULL DEFAULT '',
	duration      TEXT NOT NULL DEFAULT '',
	start_date    TEXT NOT NULL DEFAULT '',
	end_date      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS work_experiences_candidate_idx ON work_experiences (candidate_id);
`

// Migrate creates all tables and indexes if they do not exist.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

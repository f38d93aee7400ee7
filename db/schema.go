package db

import (
	"context"
	"database/sql"
	"fmt"
)

const Schema = `
-- Integrity signals reported by exam windows
CREATE TABLE IF NOT EXISTS exam_signals (
    id SERIAL PRIMARY KEY,
    attempt_id UUID NOT NULL,
    quiz_id VARCHAR(64) NOT NULL,
    student VARCHAR(255) NOT NULL,
    reason VARCHAR(32) NOT NULL,
    triggered_submit BOOLEAN NOT NULL DEFAULT FALSE,
    reported_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS exam_signals_attempt_idx ON exam_signals (attempt_id);

-- One row per call to the backend submit endpoint
CREATE TABLE IF NOT EXISTS exam_submissions (
    id SERIAL PRIMARY KEY,
    attempt_id UUID NOT NULL,
    quiz_id VARCHAR(64) NOT NULL,
    student VARCHAR(255) NOT NULL,
    answered INTEGER NOT NULL,
    tamper_reason VARCHAR(32),
    signals TEXT[] NOT NULL DEFAULT '{}',
    succeeded BOOLEAN NOT NULL,
    score INTEGER,
    total INTEGER,
    error TEXT,
    submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS exam_submissions_quiz_idx ON exam_submissions (quiz_id);
`

// InitSchema initializes the database schema
func InitSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, Schema)
	if err != nil {
		return fmt.Errorf("error initializing database schema: %w", err)
	}
	return nil
}

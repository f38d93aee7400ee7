package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"quiz_portal/exam"
)

// AuditLog writes integrity signals and submission outcomes to Postgres.
type AuditLog struct {
	db *sql.DB
}

func NewAuditLog(db *sql.DB) *AuditLog {
	return &AuditLog{db: db}
}

func (l *AuditLog) RecordSignal(ctx context.Context, attemptID, quizID, student, reason string, triggered bool, at time.Time) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO exam_signals (attempt_id, quiz_id, student, reason, triggered_submit, reported_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, attemptID, quizID, student, reason, triggered, at)
	if err != nil {
		return fmt.Errorf("insert exam signal: %w", err)
	}
	return nil
}

func (l *AuditLog) RecordSubmission(ctx context.Context, sub exam.Submission) error {
	var (
		tamper  sql.NullString
		score   sql.NullInt64
		total   sql.NullInt64
		errText sql.NullString
	)
	if sub.TamperReason != "" {
		tamper = sql.NullString{String: sub.TamperReason, Valid: true}
	}
	if sub.Score != nil {
		score = sql.NullInt64{Int64: int64(*sub.Score), Valid: true}
	}
	if sub.Total != nil {
		total = sql.NullInt64{Int64: int64(*sub.Total), Valid: true}
	}
	if sub.Err != nil {
		errText = sql.NullString{String: sub.Err.Error(), Valid: true}
	}
	signals := sub.Signals
	if signals == nil {
		signals = []string{}
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO exam_submissions
			(attempt_id, quiz_id, student, answered, tamper_reason, signals, succeeded, score, total, error, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, sub.AttemptID, sub.QuizID, sub.Owner, sub.Answered, tamper, pq.Array(signals),
		sub.Err == nil, score, total, errText, sub.At)
	if err != nil {
		return fmt.Errorf("insert exam submission: %w", err)
	}
	return nil
}

// Ping is used by the health check.
func (l *AuditLog) Ping(ctx context.Context) error {
	return l.db.PingContext(ctx)
}

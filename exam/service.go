package exam

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quiz_portal/models"
)

// Submitter sends a finished attempt to the backend.
type Submitter interface {
	SubmitQuiz(ctx context.Context, token, quizID string, req models.SubmitRequest) (*models.SubmitResponse, error)
}

// Submission is the outcome of one call to the backend submit endpoint.
type Submission struct {
	AttemptID    string
	QuizID       string
	Owner        string
	Answered     int
	TamperReason string
	Signals      []string
	Score        *int
	Total        *int
	Err          error
	At           time.Time
}

// Recorder keeps an audit trail of integrity signals and submissions.
type Recorder interface {
	RecordSignal(ctx context.Context, attemptID, quizID, owner, reason string, triggered bool, at time.Time) error
	RecordSubmission(ctx context.Context, sub Submission) error
}

type nopRecorder struct{}

func (nopRecorder) RecordSignal(context.Context, string, string, string, string, bool, time.Time) error {
	return nil
}

func (nopRecorder) RecordSubmission(context.Context, Submission) error { return nil }

// NopRecorder discards everything.
var NopRecorder Recorder = nopRecorder{}

const submitTimeout = 30 * time.Second

type Service struct {
	store     *Store
	submitter Submitter
	recorder  Recorder
	logger    *zap.Logger
}

func NewService(store *Store, submitter Submitter, recorder Recorder, logger *zap.Logger) *Service {
	if recorder == nil {
		recorder = NopRecorder
	}
	return &Service{
		store:     store,
		submitter: submitter,
		recorder:  recorder,
		logger:    logger,
	}
}

// Open returns the student's open attempt for quiz, creating it if needed.
func (s *Service) Open(owner string, quiz *models.QuizDetail) (*Attempt, error) {
	a, created, err := s.store.GetOrCreate(owner, quiz.QuizID, func() (*Attempt, error) {
		return NewAttempt(uuid.NewString(), owner, quiz)
	})
	if err != nil {
		return nil, fmt.Errorf("open attempt for quiz %s: %w", quiz.QuizID, err)
	}
	if created {
		s.logger.Info("exam attempt opened",
			zap.String("attempt_id", a.ID),
			zap.String("quiz_id", a.QuizID),
			zap.Int("questions", len(a.questions)),
		)
	}
	return a, nil
}

// Attempt looks up an attempt owned by owner. Attempts of other students are
// reported as not found.
func (s *Service) Attempt(id, owner string) (*Attempt, error) {
	a, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if a.Owner != owner {
		return nil, ErrAttemptNotFound
	}
	return a, nil
}

// Submit is the student's own submission.
func (s *Service) Submit(ctx context.Context, a *Attempt, token string) (*models.SubmitResponse, error) {
	return s.submit(ctx, a, token, "")
}

// MarkTamperedAndSubmit forces submission because of an integrity signal.
// Signals arriving before the start, after submission, or while another
// submission is running are recorded and otherwise ignored; the bool reports
// whether this call submitted.
func (s *Service) MarkTamperedAndSubmit(ctx context.Context, a *Attempt, token, reason string) (bool, error) {
	_, err := s.submit(ctx, a, token, reason)
	triggered := err == nil

	if recErr := s.recorder.RecordSignal(context.WithoutCancel(ctx), a.ID, a.QuizID, a.Owner, reason, triggered, time.Now()); recErr != nil {
		s.logger.Warn("record integrity signal", zap.String("attempt_id", a.ID), zap.Error(recErr))
	}

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotStarted), errors.Is(err, ErrAlreadySubmitted), errors.Is(err, ErrSubmitInProgress):
		return false, nil
	default:
		return false, err
	}
}

func (s *Service) submit(ctx context.Context, a *Attempt, token, reason string) (*models.SubmitResponse, error) {
	req, err := a.beginSubmit(reason)
	if err != nil {
		return nil, err
	}

	// The exam window may close right after a signal; the submission must
	// outlive the request that carried it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), submitTimeout)
	defer cancel()

	result, err := s.submitter.SubmitQuiz(ctx, token, a.QuizID, req)
	if err == nil && result == nil {
		result = &models.SubmitResponse{}
	}
	a.finishSubmit(result)

	sub := Submission{
		AttemptID:    a.ID,
		QuizID:       a.QuizID,
		Owner:        a.Owner,
		Answered:     len(req.Answers),
		TamperReason: req.TamperReason,
		Signals:      req.Signals,
		Err:          err,
		At:           time.Now(),
	}
	if result != nil {
		sub.Score, sub.Total = &result.Score, &result.Total
	}
	if recErr := s.recorder.RecordSubmission(ctx, sub); recErr != nil {
		s.logger.Warn("record submission", zap.String("attempt_id", a.ID), zap.Error(recErr))
	}

	if err != nil {
		s.logger.Error("exam submission failed",
			zap.String("attempt_id", a.ID),
			zap.String("quiz_id", a.QuizID),
			zap.String("tamper_reason", req.TamperReason),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("exam submitted",
		zap.String("attempt_id", a.ID),
		zap.String("quiz_id", a.QuizID),
		zap.Int("answered", len(req.Answers)),
		zap.String("tamper_reason", req.TamperReason),
	)
	return result, nil
}

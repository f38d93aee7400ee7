// Package exam holds the exam-taking state machine. One Attempt is one
// student working through one quiz in the exam window:
//
//	not-started -> in-progress -> submitted
//
// Answers and navigation go through Dispatch. Submission, whether asked for
// by the student or forced by an integrity signal, goes through Service so it
// happens at most once per attempt.
package exam

import (
	"errors"
	"sync"
	"time"

	"quiz_portal/models"
)

type State string

const (
	StateNotStarted State = "not-started"
	StateInProgress State = "in-progress"
	StateSubmitted  State = "submitted"
)

var (
	ErrAttemptNotFound  = errors.New("exam attempt not found")
	ErrNotStarted       = errors.New("exam has not started")
	ErrAlreadyStarted   = errors.New("exam already started")
	ErrAlreadySubmitted = errors.New("exam already submitted")
	ErrSubmitInProgress = errors.New("exam submission in progress")
	ErrUnknownQuestion  = errors.New("unknown question")
	ErrUnknownOption    = errors.New("option is not one of the question's choices")
	ErrIndexOutOfRange  = errors.New("question index out of range")
	ErrNoQuestions      = errors.New("quiz has no questions")
)

type Attempt struct {
	ID     string
	QuizID string
	Title  string
	Owner  string

	mu         sync.Mutex
	questions  []models.Question
	keys       []string
	state      State
	index      int
	answers    models.AnswerMap
	submitting bool
	tamper     string
	signals    []string
	result     *models.SubmitResponse
	createdAt  time.Time
	updatedAt  time.Time
}

// NewAttempt starts an attempt in not-started.
func NewAttempt(id, owner string, quiz *models.QuizDetail) (*Attempt, error) {
	if len(quiz.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	keys := make([]string, len(quiz.Questions))
	for i, q := range quiz.Questions {
		keys[i] = q.Key(i)
	}
	now := time.Now()
	return &Attempt{
		ID:        id,
		QuizID:    quiz.QuizID,
		Title:     quiz.Title,
		Owner:     owner,
		questions: quiz.Questions,
		keys:      keys,
		state:     StateNotStarted,
		answers:   models.AnswerMap{},
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Questions returns the quiz questions in order. The slice must not be modified.
func (a *Attempt) Questions() []models.Question {
	return a.questions
}

// Key returns the answer map key of the question at index i.
func (a *Attempt) Key(i int) string {
	return a.keys[i]
}

// Start moves not-started to in-progress. The page only calls it once the
// browser has granted fullscreen.
func (a *Attempt) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.state {
	case StateInProgress:
		return ErrAlreadyStarted
	case StateSubmitted:
		return ErrAlreadySubmitted
	}
	a.state = StateInProgress
	a.touch()
	return nil
}

// Dispatch applies one answer or navigation action.
func (a *Attempt) Dispatch(act Action) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case a.state == StateNotStarted:
		return ErrNotStarted
	case a.state == StateSubmitted:
		return ErrAlreadySubmitted
	case a.submitting:
		return ErrSubmitInProgress
	}

	if err := act.apply(a); err != nil {
		return err
	}
	a.touch()
	return nil
}

// beginSubmit claims the single submission slot and returns the request to
// send. It fails when the attempt is not in progress or another caller
// already holds the slot.
func (a *Attempt) beginSubmit(reason string) (models.SubmitRequest, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case a.state == StateNotStarted:
		return models.SubmitRequest{}, ErrNotStarted
	case a.state == StateSubmitted:
		return models.SubmitRequest{}, ErrAlreadySubmitted
	case a.submitting:
		return models.SubmitRequest{}, ErrSubmitInProgress
	}

	a.submitting = true
	if reason != "" {
		if a.tamper == "" {
			a.tamper = reason
		}
		a.signals = append(a.signals, reason)
	}
	a.touch()

	req := models.SubmitRequest{Answers: a.answers.Clone()}
	if a.tamper != "" {
		req.Tampered = true
		req.TamperReason = a.tamper
		req.Signals = append([]string(nil), a.signals...)
	}
	return req, nil
}

// finishSubmit releases the slot. A nil result means the backend call failed
// and the student may try again.
func (a *Attempt) finishSubmit(result *models.SubmitResponse) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.submitting = false
	if result != nil {
		a.state = StateSubmitted
		a.result = result
	}
	a.touch()
}

func (a *Attempt) touch() {
	a.updatedAt = time.Now()
}

// expired reports whether the attempt has been idle longer than ttl.
// Attempts with a submission in flight never expire.
func (a *Attempt) expired(now time.Time, ttl time.Duration) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.submitting && now.Sub(a.updatedAt) > ttl
}

func (a *Attempt) isOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state != StateSubmitted
}

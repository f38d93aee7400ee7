package exam

import (
	"sync"
	"time"
)

// Store keeps attempts in memory, at most one open attempt per student and
// quiz, so a second exam window joins the first instead of racing it.
type Store struct {
	mu       sync.RWMutex
	attempts map[string]*Attempt
	open     map[string]string // owner+quiz -> attempt id
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		attempts: make(map[string]*Attempt),
		open:     make(map[string]string),
		ttl:      ttl,
	}
}

func openKey(owner, quizID string) string {
	return owner + "\x00" + quizID
}

func (s *Store) Get(id string) (*Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attempts[id]
	if !ok {
		return nil, ErrAttemptNotFound
	}
	return a, nil
}

// GetOrCreate returns the open attempt of owner for quizID, or stores the one
// built by create. The bool reports whether a new attempt was created. A
// submitted attempt still held by the store blocks a new one with
// ErrAlreadySubmitted until it is swept.
func (s *Store) GetOrCreate(owner, quizID string, create func() (*Attempt, error)) (*Attempt, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := openKey(owner, quizID)
	if id, ok := s.open[key]; ok {
		if a, ok := s.attempts[id]; ok {
			if !a.isOpen() {
				return a, false, ErrAlreadySubmitted
			}
			return a, false, nil
		}
		delete(s.open, key)
	}

	a, err := create()
	if err != nil {
		return nil, false, err
	}
	s.attempts[a.ID] = a
	s.open[key] = a.ID
	return a, true, nil
}

// Sweep drops attempts idle for longer than the store TTL and returns how
// many were removed.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, a := range s.attempts {
		if !a.expired(now, s.ttl) {
			continue
		}
		delete(s.attempts, id)
		key := openKey(a.Owner, a.QuizID)
		if s.open[key] == id {
			delete(s.open, key)
		}
		removed++
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.attempts)
}

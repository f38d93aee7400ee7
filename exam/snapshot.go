package exam

import "quiz_portal/models"

type GridCell struct {
	Index    int    `json:"index"`
	Key      string `json:"key"`
	Answered bool   `json:"answered"`
	Current  bool   `json:"current"`
}

// Snapshot is a consistent copy of an attempt for rendering.
type Snapshot struct {
	AttemptID    string                 `json:"attempt_id"`
	QuizID       string                 `json:"quiz_id"`
	Title        string                 `json:"title"`
	State        State                  `json:"state"`
	Index        int                    `json:"index"`
	Total        int                    `json:"total"`
	Answered     int                    `json:"answered"`
	Answers      models.AnswerMap       `json:"answers"`
	Grid         []GridCell             `json:"grid"`
	Submitting   bool                   `json:"submitting"`
	TamperReason string                 `json:"tamper_reason,omitempty"`
	Result       *models.SubmitResponse `json:"result,omitempty"`
}

// Progress is the answered share in percent.
func (s Snapshot) Progress() int {
	if s.Total == 0 {
		return 0
	}
	return s.Answered * 100 / s.Total
}

func (a *Attempt) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	grid := make([]GridCell, len(a.keys))
	answered := 0
	for i, key := range a.keys {
		_, ok := a.answers[key]
		if ok {
			answered++
		}
		grid[i] = GridCell{Index: i, Key: key, Answered: ok, Current: i == a.index}
	}

	return Snapshot{
		AttemptID:    a.ID,
		QuizID:       a.QuizID,
		Title:        a.Title,
		State:        a.state,
		Index:        a.index,
		Total:        len(a.questions),
		Answered:     answered,
		Answers:      a.answers.Clone(),
		Grid:         grid,
		Submitting:   a.submitting,
		TamperReason: a.tamper,
		Result:       a.result,
	}
}

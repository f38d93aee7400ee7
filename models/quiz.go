package models

import (
	"encoding/json"
	"strconv"
)

type Question struct {
	QuestionID string   `json:"question_id,omitempty"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Answer     string   `json:"answer,omitempty"`
	COTag      string   `json:"co_tag,omitempty"`
}

// Key identifies the question inside an AnswerMap. Older backend payloads
// omit question_id, in which case the position is used instead.
func (q Question) Key(index int) string {
	if q.QuestionID != "" {
		return q.QuestionID
	}
	return strconv.Itoa(index)
}

// HasOption reports whether option is one of the question's choices.
func (q Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

type QuizSummary struct {
	QuizID         string `json:"quiz_id"`
	Title          string `json:"title"`
	CourseID       string `json:"course_id"`
	QuestionsCount int    `json:"questions_count"`
	CreatedAt      string `json:"created_at,omitempty"`
	Description    string `json:"description,omitempty"`
	Submitted      bool   `json:"submitted,omitempty"`
}

// DisplayTitle falls back to the backend's own default for untitled quizzes.
func (q QuizSummary) DisplayTitle() string {
	if q.Title == "" {
		return "Untitled Quiz"
	}
	return q.Title
}

type QuizDetail struct {
	QuizID    string     `json:"quiz_id"`
	Title     string     `json:"title"`
	CourseID  string     `json:"course_id"`
	Questions []Question `json:"questions"`
}

// AnswerMap maps a question key to the selected option text.
type AnswerMap map[string]string

// Clone returns a copy that is safe to hand out while the source keeps changing.
func (m AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type SubmitRequest struct {
	Answers      AnswerMap `json:"answers"`
	Tampered     bool      `json:"tampered,omitempty"`
	TamperReason string    `json:"tamper_reason,omitempty"`
	Signals      []string  `json:"signals,omitempty"`
}

type QuestionResult struct {
	QuestionID    string `json:"question_id"`
	QuestionText  string `json:"question_text"`
	StudentAnswer string `json:"student_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
}

type SubmitResponse struct {
	Results    []QuestionResult `json:"results"`
	Score      int              `json:"score"`
	Total      int              `json:"total"`
	Percentage float64          `json:"percentage"`
}

type UploadQuizRequest struct {
	FileName       string
	PDF            []byte
	CourseID       string
	Title          string
	NumQuestions   int
	CourseOutcomes string
}

type UploadQuizResponse struct {
	Message string     `json:"message"`
	QuizID  string     `json:"quiz_id"`
	Quiz    []Question `json:"quiz"`
}

// QuizList accepts both a bare JSON array and an object wrapping it under
// "quizzes"; the staff and student endpoints disagree on the shape.
type QuizList []QuizSummary

func (l *QuizList) UnmarshalJSON(data []byte) error {
	var items []QuizSummary
	if err := json.Unmarshal(data, &items); err == nil {
		*l = items
		return nil
	}
	var wrapped struct {
		Quizzes []QuizSummary `json:"quizzes"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	*l = wrapped.Quizzes
	return nil
}

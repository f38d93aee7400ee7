package models

import (
	"encoding/json"
	"testing"
)

func TestQuizListAcceptsBothShapes(t *testing.T) {
	for name, body := range map[string]string{
		"bare array": `[{"quiz_id":"a"},{"quiz_id":"b"}]`,
		"wrapped":    `{"quizzes":[{"quiz_id":"a"},{"quiz_id":"b"}]}`,
	} {
		var list QuizList
		if err := json.Unmarshal([]byte(body), &list); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(list) != 2 || list[1].QuizID != "b" {
			t.Fatalf("%s: unexpected list %+v", name, list)
		}
	}
}

func TestQuestionKeyFallsBackToPosition(t *testing.T) {
	if k := (Question{QuestionID: "q7"}).Key(3); k != "q7" {
		t.Fatalf("expected q7, got %s", k)
	}
	if k := (Question{}).Key(3); k != "3" {
		t.Fatalf("expected 3, got %s", k)
	}
}

package model

import (
	"github.com/google/uuid"
)

// QuestionType enumerates the supported question kinds.
type QuestionType string

const (
	QuestionTypeTrueFalse      QuestionType = "TRUE_FALSE"
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTypeMultipleSelect QuestionType = "MULTIPLE_SELECT"
)

// Choice is one answer option. Correct is server-side only and is never
// serialized toward clients.
type Choice struct {
	ID      uuid.UUID `json:"id"`
	Text    string    `json:"text"`
	Correct bool      `json:"-"`
}

// Question is the catalog's full view of a question, correctness included.
type Question struct {
	ID      uuid.UUID    `json:"id"`
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Choices []Choice     `json:"choices"`
}

// CorrectChoiceIDs returns the set of choices flagged correct.
func (q *Question) CorrectChoiceIDs() map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]struct{})
	for _, c := range q.Choices {
		if c.Correct {
			out[c.ID] = struct{}{}
		}
	}
	return out
}

// ChoiceView is a sanitized choice safe to deliver to a student.
type ChoiceView struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
}

// QuestionView is the student-facing rendering of one materialized
// question together with its point weight.
type QuestionView struct {
	ID      uuid.UUID    `json:"id"`
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Points  float64      `json:"points"`
	Choices []ChoiceView `json:"choices"`
}

// Sanitized builds a fresh QuestionView with correctness stripped.
// It always copies; the catalog's Question is never mutated in place.
func (q *Question) Sanitized(points float64) QuestionView {
	choices := make([]ChoiceView, len(q.Choices))
	for i, c := range q.Choices {
		choices[i] = ChoiceView{ID: c.ID, Text: c.Text}
	}
	return QuestionView{
		ID:      q.ID,
		Text:    q.Text,
		Type:    q.Type,
		Points:  points,
		Choices: choices,
	}
}

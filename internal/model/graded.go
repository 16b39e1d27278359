package model

import (
	"time"

	"github.com/google/uuid"
)

// GradedChoice is a choice annotated with its authoritative correctness
// and whether the student selected it. Review-time only; never sent to a
// student while the session is still in progress.
type GradedChoice struct {
	ChoiceID uuid.UUID `json:"choice_id"`
	Text     string    `json:"text"`
	Correct  bool      `json:"correct"`
	Selected bool      `json:"selected"`
}

// GradedEntry is the graded view of one answered question. Awarded records
// whether the full point weight was earned; there is no partial credit.
type GradedEntry struct {
	QuestionID uuid.UUID      `json:"question_id"`
	Points     float64        `json:"points"`
	Choices    []GradedChoice `json:"choices"`
	Awarded    bool           `json:"awarded"`
}

// ResultStatus classifies a session for reporting.
type ResultStatus string

const (
	ResultNotStarted ResultStatus = "NOT_STARTED"
	ResultInProgress ResultStatus = "IN_PROGRESS"
	ResultFinished   ResultStatus = "FINISHED"
)

// ExamResult is the per-user reporting row for one exam. It is derived,
// never persisted.
type ExamResult struct {
	UserID     int          `json:"user_id"`
	Status     ResultStatus `json:"status"`
	TotalScore float64      `json:"total_score"`
	StartedAt  *time.Time   `json:"started_at,omitempty"`
	FinishedAt *time.Time   `json:"finished_at,omitempty"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus enumerates exam session states. A session only ever moves
// forward: NOT_STARTED -> IN_PROGRESS -> FINISHED.
type SessionStatus string

const (
	SessionStatusNotStarted SessionStatus = "NOT_STARTED"
	SessionStatusInProgress SessionStatus = "IN_PROGRESS"
	SessionStatusFinished   SessionStatus = "FINISHED"
)

// UnscoredTotal is the sentinel distinguishing "not yet graded" from a
// genuine zero score.
const UnscoredTotal float64 = -1

// AnswerEntry is one question of a session's answer sheet: the question
// reference, its point weight frozen at materialization time, and the
// choices the student selected. Correctness never appears here.
type AnswerEntry struct {
	QuestionID        uuid.UUID   `json:"question_id"`
	Points            float64     `json:"points"`
	SelectedChoiceIDs []uuid.UUID `json:"selected_choice_ids"`
}

// ExamSession is one student's attempt at one exam. Version is the
// optimistic concurrency token; every save must carry the version it read.
type ExamSession struct {
	ID               uuid.UUID     `json:"id"`
	ExamID           uuid.UUID     `json:"exam_id"`
	UserID           int           `json:"user_id"`
	Status           SessionStatus `json:"status"`
	StartedAt        *time.Time    `json:"started_at,omitempty"`
	FinishedAt       *time.Time    `json:"finished_at,omitempty"`
	RemainingSeconds int           `json:"remaining_seconds"`
	AnswerSheet      []AnswerEntry `json:"answer_sheet"`
	TotalScore       float64       `json:"total_score"`
	Version          int           `json:"-"`
}

// Scored reports whether grading has actually run for this session.
func (s *ExamSession) Scored() bool {
	return s.TotalScore != UnscoredTotal
}

// AnswerSubmission is one answered question in a save request.
type AnswerSubmission struct {
	QuestionID        uuid.UUID   `json:"question_id" binding:"required"`
	SelectedChoiceIDs []uuid.UUID `json:"selected_choice_ids"`
}

// SaveAnswersRequest is the payload for recording in-progress answers.
type SaveAnswersRequest struct {
	Answers          []AnswerSubmission `json:"answers" binding:"required,dive"`
	RemainingSeconds int                `json:"remaining_seconds" binding:"min=0"`
	Finished         bool               `json:"finished"`
}

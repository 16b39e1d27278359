package model

import (
	"time"

	"github.com/google/uuid"
)

// Exam represents a scheduled exam over a question manifest.
// Part and intake ownership is managed by external tooling; the ids are
// carried as opaque references only.
type Exam struct {
	ID              uuid.UUID        `json:"id"`
	Title           string           `json:"title"`
	BeginAt         time.Time        `json:"begin_at"`
	FinishAt        time.Time        `json:"finish_at"`
	DurationMinutes int              `json:"duration_minutes"`
	Shuffle         bool             `json:"shuffle"`
	Locked          bool             `json:"locked"`
	Canceled        bool             `json:"canceled"`
	Manifest        QuestionManifest `json:"question_manifest"`
	PartID          *int64           `json:"part_id,omitempty"`
	IntakeID        *int64           `json:"intake_id,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// CreateExamRequest is the payload for creating a new exam.
// EnrolledUserIDs is the roster: one session is bulk-created per user.
type CreateExamRequest struct {
	Title           string                `json:"title" binding:"required,min=3,max=255"`
	BeginAt         time.Time             `json:"begin_at" binding:"required"`
	FinishAt        time.Time             `json:"finish_at" binding:"required,gtfield=BeginAt"`
	DurationMinutes int                   `json:"duration_minutes" binding:"required,min=1,max=480"`
	Shuffle         bool                  `json:"shuffle"`
	Locked          bool                  `json:"locked"`
	Manifest        []CreateManifestEntry `json:"manifest" binding:"required,min=1,dive"`
	EnrolledUserIDs []int                 `json:"enrolled_user_ids" binding:"required,min=1"`
	PartID          *int64                `json:"part_id"`
	IntakeID        *int64                `json:"intake_id"`
}

// CreateManifestEntry is one (question, points) pair in the create payload.
type CreateManifestEntry struct {
	QuestionID uuid.UUID `json:"question_id" binding:"required"`
	Points     float64   `json:"points" binding:"required,gt=0"`
}

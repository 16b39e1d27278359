package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/uniexam/uniexam-backend/internal/model"
)

// Collaborator contracts consumed by the session lifecycle services. The
// PostgreSQL repositories satisfy these; tests substitute in-memory fakes.

// ExamStore provides exam persistence with simple get/save-by-key
// semantics.
type ExamStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error)
	Create(ctx context.Context, e *model.Exam) error
	List(ctx context.Context) ([]model.Exam, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Exam, error)
	SetCanceled(ctx context.Context, id uuid.UUID, canceled bool) error
}

// SessionStore provides per-(exam, user) session access with optimistic
// versioned saves. Save must fail with repository.ErrVersionConflict when
// the session changed since it was read.
type SessionStore interface {
	GetByExamAndUser(ctx context.Context, examID uuid.UUID, userID int) (*model.ExamSession, error)
	Save(ctx context.Context, s *model.ExamSession) error
	BulkCreate(ctx context.Context, examID uuid.UUID, userIDs []int, remainingSeconds int) error
	ListByExam(ctx context.Context, examID uuid.UUID) ([]model.ExamSession, error)
	ListByUser(ctx context.Context, userID int) ([]model.ExamSession, error)
}

// QuestionCatalog returns full question+choice content by id. Ids missing
// from the catalog are absent from the result.
type QuestionCatalog interface {
	FetchByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Question, error)
}

// ChoiceOracle is the authoritative source for one choice's correctness
// and text. Server-side only; its answers are never exposed to a client
// during an active session.
type ChoiceOracle interface {
	IsCorrect(ctx context.Context, choiceID uuid.UUID) (bool, error)
	Text(ctx context.Context, choiceID uuid.UUID) (string, error)
}

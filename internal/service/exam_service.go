package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/uniexam/uniexam-backend/internal/model"
)

// ExamService handles the instructor-facing exam operations: creation
// with roster enrollment, cancellation, and result reporting.
type ExamService struct {
	exams      ExamStore
	sessions   SessionStore
	aggregator *ResultAggregator
	log        zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(exams ExamStore, sessions SessionStore, aggregator *ResultAggregator, log zerolog.Logger) *ExamService {
	return &ExamService{
		exams:      exams,
		sessions:   sessions,
		aggregator: aggregator,
		log:        log.With().Str("component", "exam_service").Logger(),
	}
}

// Create inserts a new exam and bulk-enrolls the roster: one NOT_STARTED
// session per enrolled user with the countdown initialized from the exam
// duration and the total score at the unscored sentinel.
func (s *ExamService) Create(ctx context.Context, req model.CreateExamRequest) (*model.Exam, error) {
	manifest := model.QuestionManifest{
		Version: model.ManifestVersion,
		Entries: make([]model.ManifestEntry, len(req.Manifest)),
	}
	for i, e := range req.Manifest {
		manifest.Entries[i] = model.ManifestEntry{QuestionID: e.QuestionID, Points: e.Points}
	}
	if err := manifest.Validate(); err != nil {
		return nil, err
	}

	exam := &model.Exam{
		Title:           req.Title,
		BeginAt:         req.BeginAt,
		FinishAt:        req.FinishAt,
		DurationMinutes: req.DurationMinutes,
		Shuffle:         req.Shuffle,
		Locked:          req.Locked,
		Manifest:        manifest,
		PartID:          req.PartID,
		IntakeID:        req.IntakeID,
	}
	if err := s.exams.Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}

	if err := s.sessions.BulkCreate(ctx, exam.ID, req.EnrolledUserIDs, req.DurationMinutes*60); err != nil {
		return nil, fmt.Errorf("enroll users for exam %s: %w", exam.ID, err)
	}

	s.log.Info().
		Str("exam_id", exam.ID.String()).
		Int("questions", len(manifest.Entries)).
		Int("enrolled", len(req.EnrolledUserIDs)).
		Msg("Exam created")
	return exam, nil
}

// GetByID retrieves an exam by its UUID.
func (s *ExamService) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	return s.exams.GetByID(ctx, id)
}

// List retrieves all exams, newest first.
func (s *ExamService) List(ctx context.Context) ([]model.Exam, error) {
	return s.exams.List(ctx)
}

// Cancel marks an exam as canceled. Cancellation is allowed only while
// the window has not opened; once begin_at has passed it is permanently
// denied and the exam is left untouched.
func (s *ExamService) Cancel(ctx context.Context, examID uuid.UUID, now time.Time) (*model.Exam, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if !now.Before(exam.BeginAt) {
		return nil, fmt.Errorf("exam %s opened at %s: %w", exam.ID, exam.BeginAt.Format(time.RFC3339), ErrCancelWindowClosed)
	}
	if err := s.exams.SetCanceled(ctx, examID, true); err != nil {
		return nil, fmt.Errorf("cancel exam %s: %w", examID, err)
	}
	exam.Canceled = true

	s.log.Info().Str("exam_id", examID.String()).Msg("Exam canceled")
	return exam, nil
}

// Results aggregates graded results for all sessions of an exam, or for
// one user when userID is non-nil.
func (s *ExamService) Results(ctx context.Context, examID uuid.UUID, userID *int) ([]model.ExamResult, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}

	var sessions []model.ExamSession
	if userID != nil {
		session, err := s.sessions.GetByExamAndUser(ctx, examID, *userID)
		if err != nil {
			return nil, fmt.Errorf("get session: %w", err)
		}
		sessions = []model.ExamSession{*session}
	} else {
		sessions, err = s.sessions.ListByExam(ctx, examID)
		if err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
	}

	return s.aggregator.Aggregate(ctx, exam, sessions)
}

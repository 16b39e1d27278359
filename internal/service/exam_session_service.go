package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/uniexam/uniexam-backend/internal/config"
	"github.com/uniexam/uniexam-backend/internal/model"
)

// StudentExam is an exam as listed for a student, overlaid with the
// student's own session state. The manifest is never included.
type StudentExam struct {
	ID              uuid.UUID           `json:"id"`
	Title           string              `json:"title"`
	BeginAt         time.Time           `json:"begin_at"`
	FinishAt        time.Time           `json:"finish_at"`
	DurationMinutes int                 `json:"duration_minutes"`
	Canceled        bool                `json:"canceled"`
	SessionStatus   model.SessionStatus `json:"session_status"`
	TotalScore      *float64            `json:"total_score,omitempty"`
}

// ExamPaper is the materialized question set delivered to a student.
type ExamPaper struct {
	ExamID           uuid.UUID            `json:"exam_id"`
	Title            string               `json:"title"`
	DurationMinutes  int                  `json:"duration_minutes"`
	RemainingSeconds int                  `json:"remaining_seconds"`
	Questions        []model.QuestionView `json:"questions"`
}

// SessionState is what a reloading client needs to resume: the countdown
// and the last saved answer sheet (selected choices only).
type SessionState struct {
	ExamID           uuid.UUID           `json:"exam_id"`
	Status           model.SessionStatus `json:"status"`
	RemainingSeconds int                 `json:"remaining_seconds"`
	AnswerSheet      []model.AnswerEntry `json:"answer_sheet"`
}

// ExamSessionService orchestrates the student-facing session lifecycle:
// window gating, materialization, answer capture, and resume state. Redis
// keeps the hot countdown deadline; PostgreSQL stays the source of truth.
type ExamSessionService struct {
	exams        ExamStore
	sessions     SessionStore
	materializer *QuestionSetMaterializer
	recorder     *SessionRecorder
	aggregator   *ResultAggregator
	gate         ExamWindowGate
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewExamSessionService creates a new ExamSessionService.
func NewExamSessionService(
	exams ExamStore,
	sessions SessionStore,
	materializer *QuestionSetMaterializer,
	recorder *SessionRecorder,
	aggregator *ResultAggregator,
	rdb *redis.Client,
	log zerolog.Logger,
) *ExamSessionService {
	return &ExamSessionService{
		exams:        exams,
		sessions:     sessions,
		materializer: materializer,
		recorder:     recorder,
		aggregator:   aggregator,
		rdb:          rdb,
		log:          log.With().Str("component", "session_service").Logger(),
	}
}

// ListForUser returns the student's enrolled exams with session overlay.
func (s *ExamSessionService) ListForUser(ctx context.Context, userID int) ([]StudentExam, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) == 0 {
		return []StudentExam{}, nil
	}

	examIDs := make([]uuid.UUID, len(sessions))
	sessionByExam := make(map[uuid.UUID]*model.ExamSession, len(sessions))
	for i := range sessions {
		examIDs[i] = sessions[i].ExamID
		sessionByExam[sessions[i].ExamID] = &sessions[i]
	}
	exams, err := s.exams.ListByIDs(ctx, examIDs)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}

	list := make([]StudentExam, 0, len(exams))
	for i := range exams {
		exam := &exams[i]
		session := sessionByExam[exam.ID]
		entry := StudentExam{
			ID:              exam.ID,
			Title:           exam.Title,
			BeginAt:         exam.BeginAt,
			FinishAt:        exam.FinishAt,
			DurationMinutes: exam.DurationMinutes,
			Canceled:        exam.Canceled,
			SessionStatus:   session.Status,
		}
		// Scores are shown only after the attempt is finished.
		if session.Status == model.SessionStatusFinished && session.Scored() {
			score := session.TotalScore
			entry.TotalScore = &score
		}
		list = append(list, entry)
	}
	return list, nil
}

// StartOrResume gates the exam window and returns the student's question
// set, materializing it on first access.
func (s *ExamSessionService) StartOrResume(ctx context.Context, examID uuid.UUID, userID int, now time.Time) (*ExamPaper, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if err := s.gate.CheckAccess(exam, now); err != nil {
		return nil, err
	}

	views, session, err := s.materializer.MaterializeForUser(ctx, exam, userID, now)
	if err != nil {
		return nil, err
	}

	// Cache the wall-clock deadline for cheap remaining-time reads. A
	// cache write failure is not fatal; State falls back to PostgreSQL.
	deadline := now.Add(time.Duration(session.RemainingSeconds) * time.Second)
	key := config.CacheKey.SessionDeadlineKey(examID.String(), userID)
	if err := s.rdb.Set(ctx, key, deadline.Unix(), 0).Err(); err != nil {
		s.log.Warn().Err(err).Str("exam_id", examID.String()).Int("user_id", userID).
			Msg("Failed to cache session deadline")
	}

	return &ExamPaper{
		ExamID:           exam.ID,
		Title:            exam.Title,
		DurationMinutes:  exam.DurationMinutes,
		RemainingSeconds: session.RemainingSeconds,
		Questions:        views,
	}, nil
}

// SaveAnswers gates the window server-side and records the student's
// answer sheet. The client's remaining-time report is persisted for
// resume purposes but never trusted for access decisions.
func (s *ExamSessionService) SaveAnswers(ctx context.Context, examID uuid.UUID, userID int, req model.SaveAnswersRequest, now time.Time) (*model.ExamSession, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if err := s.gate.CheckAccess(exam, now); err != nil {
		return nil, err
	}

	session, err := s.recorder.RecordAnswers(ctx, exam, userID, req, now)
	if err != nil {
		return nil, err
	}

	if session.Status == model.SessionStatusFinished {
		// The attempt is over; drop the hot-path deadline.
		s.rdb.Del(ctx, config.CacheKey.SessionDeadlineKey(examID.String(), userID))
	}
	return session, nil
}

// State returns the countdown and last saved sheet for a reloading
// client. The deadline comes from Redis when present, self-healing from
// the last persisted countdown on a miss.
func (s *ExamSessionService) State(ctx context.Context, examID uuid.UUID, userID int, now time.Time) (*SessionState, error) {
	session, err := s.sessions.GetByExamAndUser(ctx, examID, userID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	state := &SessionState{
		ExamID:           examID,
		Status:           session.Status,
		RemainingSeconds: session.RemainingSeconds,
		AnswerSheet:      session.AnswerSheet,
	}
	if session.Status != model.SessionStatusInProgress {
		return state, nil
	}

	key := config.CacheKey.SessionDeadlineKey(examID.String(), userID)
	val, err := s.rdb.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		// Cache miss (evicted or never warmed). Rebuild from the last
		// persisted countdown and put it back for the next read.
		deadline := now.Add(time.Duration(session.RemainingSeconds) * time.Second)
		if err := s.rdb.Set(ctx, key, deadline.Unix(), 0).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Failed to re-warm session deadline")
		}
	case err != nil:
		return nil, fmt.Errorf("read session deadline: %w", err)
	default:
		deadlineUnix, parseErr := strconv.ParseInt(val, 10, 64)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid deadline in cache: %w", parseErr)
		}
		remaining := time.Unix(deadlineUnix, 0).Sub(now)
		if remaining < 0 {
			remaining = 0
		}
		state.RemainingSeconds = int(remaining.Seconds())
	}
	return state, nil
}

// Review returns the graded choice lists for the student's own finished
// session. Active sessions are never graded toward the client.
func (s *ExamSessionService) Review(ctx context.Context, examID uuid.UUID, userID int) ([]model.GradedEntry, float64, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, 0, fmt.Errorf("get exam: %w", err)
	}
	session, err := s.sessions.GetByExamAndUser(ctx, examID, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("get session: %w", err)
	}
	if session.Status != model.SessionStatusFinished {
		return nil, 0, fmt.Errorf("session %s: %w", session.ID, ErrSessionNotFinished)
	}

	graded, err := s.aggregator.GradeSession(ctx, exam, session)
	if err != nil {
		return nil, 0, err
	}
	return graded, TotalScore(graded), nil
}

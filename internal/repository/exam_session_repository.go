package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uniexam/uniexam-backend/internal/model"
)

// ExamSessionRepository handles exam session data access. Saves are
// guarded by an optimistic version column: two concurrent writers for the
// same session cannot both succeed.
type ExamSessionRepository struct {
	pool *pgxpool.Pool
}

// NewExamSessionRepository creates a new ExamSessionRepository.
func NewExamSessionRepository(pool *pgxpool.Pool) *ExamSessionRepository {
	return &ExamSessionRepository{pool: pool}
}

const sessionColumns = `id, exam_id, user_id, status, started_at, finished_at,
	remaining_seconds, answer_sheet, total_score, version`

func scanSession(row pgx.Row) (*model.ExamSession, error) {
	s := &model.ExamSession{}
	var sheet []byte
	err := row.Scan(&s.ID, &s.ExamID, &s.UserID, &s.Status, &s.StartedAt,
		&s.FinishedAt, &s.RemainingSeconds, &sheet, &s.TotalScore, &s.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("exam session: %w", ErrNotFound)
		}
		return nil, err
	}
	if len(sheet) > 0 {
		if err := json.Unmarshal(sheet, &s.AnswerSheet); err != nil {
			return nil, fmt.Errorf("decode answer sheet for session %s: %w", s.ID, err)
		}
	}
	return s, nil
}

// GetByExamAndUser retrieves the session for one exam-user pair.
func (r *ExamSessionRepository) GetByExamAndUser(ctx context.Context, examID uuid.UUID, userID int) (*model.ExamSession, error) {
	return scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+`
		 FROM exam_sessions
		 WHERE exam_id = $1 AND user_id = $2`, examID, userID))
}

// BulkCreate enrolls users into an exam: one NOT_STARTED session per user,
// remaining time initialized from the exam duration and the total score at
// the unscored sentinel.
func (r *ExamSessionRepository) BulkCreate(ctx context.Context, examID uuid.UUID, userIDs []int, remainingSeconds int) error {
	if len(userIDs) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO exam_sessions (exam_id, user_id, status, remaining_seconds, total_score)
		 SELECT $1, u, $2, $3, $4 FROM UNNEST($5::int[]) AS u
		 ON CONFLICT (exam_id, user_id) DO NOTHING`,
		examID, model.SessionStatusNotStarted, remainingSeconds, model.UnscoredTotal, userIDs)
	return err
}

// Save persists a mutated session using compare-and-swap on the version
// column. On success the in-memory version is advanced; on a lost race it
// returns ErrVersionConflict and the row is untouched.
func (r *ExamSessionRepository) Save(ctx context.Context, s *model.ExamSession) error {
	sheet, err := json.Marshal(s.AnswerSheet)
	if err != nil {
		return fmt.Errorf("marshal answer sheet: %w", err)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE exam_sessions
		 SET status = $1, started_at = $2, finished_at = $3,
		     remaining_seconds = $4, answer_sheet = $5, total_score = $6,
		     version = version + 1
		 WHERE id = $7 AND version = $8`,
		s.Status, s.StartedAt, s.FinishedAt,
		s.RemainingSeconds, sheet, s.TotalScore,
		s.ID, s.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s at version %d: %w", s.ID, s.Version, ErrVersionConflict)
	}
	s.Version++
	return nil
}

// ListByExam retrieves all sessions of an exam ordered by user id.
func (r *ExamSessionRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.ExamSession, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+sessionColumns+`
		 FROM exam_sessions
		 WHERE exam_id = $1
		 ORDER BY user_id`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessions(rows)
}

// ListByUser retrieves all sessions belonging to a user.
func (r *ExamSessionRepository) ListByUser(ctx context.Context, userID int) ([]model.ExamSession, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+sessionColumns+`
		 FROM exam_sessions
		 WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessions(rows)
}

func collectSessions(rows pgx.Rows) ([]model.ExamSession, error) {
	var sessions []model.ExamSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

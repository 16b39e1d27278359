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

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

const examColumns = `id, title, begin_at, finish_at, duration_minutes,
	shuffle, locked, canceled, manifest, part_id, intake_id, created_at, updated_at`

func scanExam(row pgx.Row) (*model.Exam, error) {
	e := &model.Exam{}
	var manifest []byte
	err := row.Scan(&e.ID, &e.Title, &e.BeginAt, &e.FinishAt, &e.DurationMinutes,
		&e.Shuffle, &e.Locked, &e.Canceled, &manifest, &e.PartID, &e.IntakeID,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("exam: %w", ErrNotFound)
		}
		return nil, err
	}
	// The manifest column is stored as an opaque jsonb blob; a decode
	// failure here is the configuration-integrity case, not a DB error.
	m, err := model.ParseManifest(manifest)
	if err != nil {
		return nil, fmt.Errorf("exam %s: %w", e.ID, err)
	}
	e.Manifest = *m
	return e, nil
}

// GetByID retrieves an exam by its UUID.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	return scanExam(r.pool.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exams WHERE id = $1`, id))
}

// Create inserts a new exam with its manifest blob.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	manifest, err := json.Marshal(e.Manifest)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO exams (title, begin_at, finish_at, duration_minutes,
		                    shuffle, locked, canceled, manifest, part_id, intake_id)
		 VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		e.Title, e.BeginAt, e.FinishAt, e.DurationMinutes,
		e.Shuffle, e.Locked, manifest, e.PartID, e.IntakeID,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// SetCanceled flips the canceled flag. The window check belongs to the
// service layer; this is a plain column update.
func (r *ExamRepository) SetCanceled(ctx context.Context, id uuid.UUID, canceled bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE exams SET canceled = $1, updated_at = NOW() WHERE id = $2`,
		canceled, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("exam %s: %w", id, ErrNotFound)
	}
	return nil
}

// List retrieves all exams, newest first.
func (r *ExamRepository) List(ctx context.Context) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+examColumns+` FROM exams ORDER BY begin_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		exams = append(exams, *e)
	}
	return exams, rows.Err()
}

// ListByIDs retrieves the exams for a set of ids, unordered.
func (r *ExamRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Exam, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+examColumns+` FROM exams WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		exams = append(exams, *e)
	}
	return exams, rows.Err()
}

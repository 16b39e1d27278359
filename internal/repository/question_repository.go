package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uniexam/uniexam-backend/internal/model"
)

// QuestionRepository is the PostgreSQL-backed question catalog. Question
// content management happens in external tooling; the exam core only reads.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// FetchByIDs retrieves full question+choice content for a set of question
// ids. Missing ids are simply absent from the result; the caller decides
// whether an absence is fatal.
func (r *QuestionRepository) FetchByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, text, type FROM questions WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]*model.Question, len(ids))
	var order []uuid.UUID
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.Text, &q.Type); err != nil {
			return nil, err
		}
		byID[q.ID] = &q
		order = append(order, q.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	choiceRows, err := r.pool.Query(ctx,
		`SELECT id, question_id, text, correct
		 FROM choices
		 WHERE question_id = ANY($1)
		 ORDER BY question_id, position`, ids)
	if err != nil {
		return nil, err
	}
	defer choiceRows.Close()

	for choiceRows.Next() {
		var (
			c   model.Choice
			qid uuid.UUID
		)
		if err := choiceRows.Scan(&c.ID, &qid, &c.Text, &c.Correct); err != nil {
			return nil, err
		}
		if q, ok := byID[qid]; ok {
			q.Choices = append(q.Choices, c)
		}
	}
	if err := choiceRows.Err(); err != nil {
		return nil, err
	}

	questions := make([]model.Question, 0, len(order))
	for _, id := range order {
		questions = append(questions, *byID[id])
	}
	return questions, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChoiceRepository is the PostgreSQL-backed choice oracle: the
// authoritative source for a choice's text and correctness flag. It is
// consulted server-side during grading only and never feeds client output
// unredacted.
type ChoiceRepository struct {
	pool *pgxpool.Pool
}

// NewChoiceRepository creates a new ChoiceRepository.
func NewChoiceRepository(pool *pgxpool.Pool) *ChoiceRepository {
	return &ChoiceRepository{pool: pool}
}

// IsCorrect reports whether the choice is flagged correct.
func (r *ChoiceRepository) IsCorrect(ctx context.Context, choiceID uuid.UUID) (bool, error) {
	var correct bool
	err := r.pool.QueryRow(ctx,
		`SELECT correct FROM choices WHERE id = $1`, choiceID).Scan(&correct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("choice %s: %w", choiceID, ErrNotFound)
		}
		return false, err
	}
	return correct, nil
}

// Text returns the choice's display text.
func (r *ChoiceRepository) Text(ctx context.Context, choiceID uuid.UUID) (string, error) {
	var text string
	err := r.pool.QueryRow(ctx,
		`SELECT text FROM choices WHERE id = $1`, choiceID).Scan(&text)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("choice %s: %w", choiceID, ErrNotFound)
		}
		return "", err
	}
	return text, nil
}

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uniexam/uniexam-backend/internal/model"
)

// GradingEngine evaluates an answer snapshot against the authoritative
// correctness data. It is a pure function of its inputs and collaborators
// and holds no mutable state, so it is safe to run concurrently across
// sessions.
type GradingEngine struct {
	catalog QuestionCatalog
	oracle  ChoiceOracle
}

// NewGradingEngine creates a new GradingEngine.
func NewGradingEngine(catalog QuestionCatalog, oracle ChoiceOracle) *GradingEngine {
	return &GradingEngine{catalog: catalog, oracle: oracle}
}

// Grade evaluates every answer entry per question-type semantics and
// returns the graded entries in snapshot order.
//
// A nil sheet fails with ErrEmptyAnswerSheet; a nil or empty manifest
// fails with ErrQuestionInfoNotFound. An empty (but present) sheet grades
// to an empty list. No partial grading happens on error.
func (g *GradingEngine) Grade(ctx context.Context, sheet []model.AnswerEntry, manifest *model.QuestionManifest) ([]model.GradedEntry, error) {
	if sheet == nil {
		return nil, ErrEmptyAnswerSheet
	}
	if manifest == nil || len(manifest.Entries) == 0 {
		return nil, ErrQuestionInfoNotFound
	}
	if len(sheet) == 0 {
		return []model.GradedEntry{}, nil
	}

	ids := make([]uuid.UUID, len(sheet))
	for i, entry := range sheet {
		ids[i] = entry.QuestionID
	}
	questions, err := g.catalog.FetchByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	byID := make(map[uuid.UUID]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	graded := make([]model.GradedEntry, 0, len(sheet))
	for _, entry := range sheet {
		question, ok := byID[entry.QuestionID]
		if !ok {
			return nil, &QuestionNotFoundError{QuestionID: entry.QuestionID}
		}
		// The manifest holds the authoritative point weight; the value
		// frozen into the snapshot is ignored for grading.
		points, ok := manifest.PointsFor(entry.QuestionID)
		if !ok {
			return nil, fmt.Errorf("question %s: %w", entry.QuestionID, ErrQuestionInfoNotFound)
		}

		ge, err := g.gradeEntry(ctx, question, entry, points)
		if err != nil {
			return nil, err
		}
		graded = append(graded, ge)
	}
	return graded, nil
}

func (g *GradingEngine) gradeEntry(ctx context.Context, question *model.Question, entry model.AnswerEntry, points float64) (model.GradedEntry, error) {
	selected := make(map[uuid.UUID]struct{}, len(entry.SelectedChoiceIDs))
	for _, id := range entry.SelectedChoiceIDs {
		selected[id] = struct{}{}
	}

	choices := make([]model.GradedChoice, len(question.Choices))
	correctSet := make(map[uuid.UUID]struct{})
	for i, c := range question.Choices {
		correct, err := g.oracle.IsCorrect(ctx, c.ID)
		if err != nil {
			return model.GradedEntry{}, fmt.Errorf("choice correctness for %s: %w", c.ID, err)
		}
		text, err := g.oracle.Text(ctx, c.ID)
		if err != nil {
			return model.GradedEntry{}, fmt.Errorf("choice text for %s: %w", c.ID, err)
		}
		if correct {
			correctSet[c.ID] = struct{}{}
		}
		_, isSelected := selected[c.ID]
		choices[i] = model.GradedChoice{
			ChoiceID: c.ID,
			Text:     text,
			Correct:  correct,
			Selected: isSelected,
		}
	}

	awarded := false
	switch question.Type {
	case model.QuestionTypeTrueFalse, model.QuestionTypeMultipleChoice:
		// Exactly one selection, and it must be the correct one.
		if len(selected) == 1 {
			id := entry.SelectedChoiceIDs[0]
			_, awarded = correctSet[id]
		}
	case model.QuestionTypeMultipleSelect:
		// The selection must be exactly the correct set. A strict subset
		// or superset earns nothing; there is no partial credit.
		awarded = setsEqual(selected, correctSet)
	}

	return model.GradedEntry{
		QuestionID: question.ID,
		Points:     points,
		Choices:    choices,
		Awarded:    awarded,
	}, nil
}

func setsEqual(a, b map[uuid.UUID]struct{}) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}

// TotalScore sums the awarded weights of a graded sheet. The value is
// only authoritative once the session is FINISHED; for an in-progress
// session it is a partial, informational score.
func TotalScore(entries []model.GradedEntry) float64 {
	var total float64
	for _, e := range entries {
		if e.Awarded {
			total += e.Points
		}
	}
	return total
}

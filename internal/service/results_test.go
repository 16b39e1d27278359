package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uniexam/uniexam-backend/internal/model"
)

func setupAggregator(questions []model.Question) *ResultAggregator {
	catalog := newFakeCatalog(questions...)
	grader := NewGradingEngine(catalog, catalogOracle{catalog})
	return NewResultAggregator(grader, nopLogger())
}

func TestAggregateClassification(t *testing.T) {
	questions := []model.Question{
		buildQuestion(model.QuestionTypeMultipleChoice, 4),
		buildQuestion(model.QuestionTypeTrueFalse, 2),
	}
	exam := buildExam(questions, 2)
	aggregator := setupAggregator(questions)

	started := time.Now().Add(-30 * time.Minute)
	finished := time.Now().Add(-5 * time.Minute)

	sessions := []model.ExamSession{
		{
			ID:         uuid.New(),
			ExamID:     exam.ID,
			UserID:     1,
			Status:     model.SessionStatusNotStarted,
			TotalScore: model.UnscoredTotal,
		},
		{
			ID:        uuid.New(),
			ExamID:    exam.ID,
			UserID:    2,
			Status:    model.SessionStatusInProgress,
			StartedAt: &started,
			AnswerSheet: []model.AnswerEntry{
				{QuestionID: questions[0].ID, Points: 2, SelectedChoiceIDs: []uuid.UUID{questions[0].Choices[0].ID}},
			},
			TotalScore: model.UnscoredTotal,
		},
		{
			ID:         uuid.New(),
			ExamID:     exam.ID,
			UserID:     3,
			Status:     model.SessionStatusFinished,
			StartedAt:  &started,
			FinishedAt: &finished,
			AnswerSheet: []model.AnswerEntry{
				{QuestionID: questions[0].ID, Points: 2, SelectedChoiceIDs: []uuid.UUID{questions[0].Choices[0].ID}},
				{QuestionID: questions[1].ID, Points: 2, SelectedChoiceIDs: []uuid.UUID{questions[1].Choices[1].ID}},
			},
			TotalScore: 2,
		},
	}

	results, err := aggregator.Aggregate(context.Background(), exam, sessions)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if results[0].Status != model.ResultNotStarted || results[0].TotalScore != model.UnscoredTotal {
		t.Errorf("not-started result: %+v", results[0])
	}
	if results[1].Status != model.ResultInProgress || results[1].TotalScore != 2 {
		t.Errorf("in-progress result: %+v", results[1])
	}
	if results[2].Status != model.ResultFinished || results[2].TotalScore != 2 {
		t.Errorf("finished result: %+v", results[2])
	}
	if results[2].FinishedAt == nil {
		t.Error("finished result lost its timestamp")
	}
}

func TestAggregateInProgressNilSheet(t *testing.T) {
	questions := []model.Question{buildQuestion(model.QuestionTypeMultipleChoice, 4)}
	exam := buildExam(questions, 1)
	aggregator := setupAggregator(questions)

	// An in-progress session with no saved sheet grades as zero, not as an
	// empty-sheet error.
	sessions := []model.ExamSession{{
		ID:         uuid.New(),
		ExamID:     exam.ID,
		UserID:     1,
		Status:     model.SessionStatusInProgress,
		TotalScore: model.UnscoredTotal,
	}}

	results, err := aggregator.Aggregate(context.Background(), exam, sessions)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if results[0].TotalScore != 0 {
		t.Errorf("score = %f, want 0", results[0].TotalScore)
	}
}

func TestAggregateUnscoredFinishedFails(t *testing.T) {
	questions := []model.Question{buildQuestion(model.QuestionTypeMultipleChoice, 4)}
	exam := buildExam(questions, 1)
	aggregator := setupAggregator(questions)

	sessions := []model.ExamSession{{
		ID:          uuid.New(),
		ExamID:      exam.ID,
		UserID:      1,
		Status:      model.SessionStatusFinished,
		AnswerSheet: []model.AnswerEntry{},
		TotalScore:  model.UnscoredTotal,
	}}

	_, err := aggregator.Aggregate(context.Background(), exam, sessions)
	if !errors.Is(err, ErrUnscoredFinishedSession) {
		t.Fatalf("expected ErrUnscoredFinishedSession, got %v", err)
	}
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uniexam/uniexam-backend/internal/model"
)

func setupRecorder(questions []model.Question, exam *model.Exam, userID int) (*SessionRecorder, *fakeSessionStore) {
	store := newFakeSessionStore()
	store.BulkCreate(context.Background(), exam.ID, []int{userID}, exam.DurationMinutes*60)
	catalog := newFakeCatalog(questions...)
	grader := NewGradingEngine(catalog, catalogOracle{catalog})
	return NewSessionRecorder(store, grader, nopLogger()), store
}

func TestRecordAnswersOverwritesSheet(t *testing.T) {
	questions := []model.Question{
		buildQuestion(model.QuestionTypeMultipleChoice, 4),
		buildQuestion(model.QuestionTypeTrueFalse, 2),
	}
	exam := buildExam(questions, 2)
	recorder, store := setupRecorder(questions, exam, 5)
	ctx := context.Background()

	first := model.SaveAnswersRequest{
		Answers: []model.AnswerSubmission{
			{QuestionID: questions[0].ID, SelectedChoiceIDs: []uuid.UUID{questions[0].Choices[1].ID}},
			{QuestionID: questions[1].ID, SelectedChoiceIDs: []uuid.UUID{questions[1].Choices[0].ID}},
		},
		RemainingSeconds: 3000,
	}
	session, err := recorder.RecordAnswers(ctx, exam, 5, first, time.Now())
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	if session.Status != model.SessionStatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", session.Status)
	}
	if session.RemainingSeconds != 3000 {
		t.Errorf("remaining = %d, want 3000", session.RemainingSeconds)
	}

	// The second save replaces, never merges.
	second := model.SaveAnswersRequest{
		Answers: []model.AnswerSubmission{
			{QuestionID: questions[0].ID, SelectedChoiceIDs: []uuid.UUID{questions[0].Choices[0].ID}},
		},
		RemainingSeconds: 2500,
	}
	session, err = recorder.RecordAnswers(ctx, exam, 5, second, time.Now())
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if len(session.AnswerSheet) != 1 {
		t.Fatalf("sheet has %d entries after overwrite, want 1", len(session.AnswerSheet))
	}
	if session.AnswerSheet[0].QuestionID != questions[0].ID {
		t.Error("wrong entry survived the overwrite")
	}
	if session.AnswerSheet[0].Points != 2 {
		t.Errorf("points = %f, want the manifest weight 2", session.AnswerSheet[0].Points)
	}

	stored, _ := store.GetByExamAndUser(ctx, exam.ID, 5)
	if len(stored.AnswerSheet) != 1 {
		t.Error("overwrite was not persisted")
	}
}

func TestRecordAnswersCountdownNeverGrows(t *testing.T) {
	questions := []model.Question{buildQuestion(model.QuestionTypeMultipleChoice, 4)}
	exam := buildExam(questions, 1)
	recorder, _ := setupRecorder(questions, exam, 2)
	ctx := context.Background()

	save := func(remaining int) *model.ExamSession {
		s, err := recorder.RecordAnswers(ctx, exam, 2, model.SaveAnswersRequest{
			Answers:          []model.AnswerSubmission{},
			RemainingSeconds: remaining,
		}, time.Now())
		if err != nil {
			t.Fatalf("save: %v", err)
		}
		return s
	}

	if s := save(3000); s.RemainingSeconds != 3000 {
		t.Fatalf("initial countdown = %d", s.RemainingSeconds)
	}
	if s := save(2000); s.RemainingSeconds != 2000 {
		t.Errorf("countdown did not decrease: %d", s.RemainingSeconds)
	}
	// An in-progress session rejects a countdown moving backwards in time.
	if s := save(2600); s.RemainingSeconds != 2000 {
		t.Errorf("countdown grew to %d", s.RemainingSeconds)
	}
}

func TestRecordAnswersFinishGradesInSameSave(t *testing.T) {
	questions := []model.Question{
		buildQuestion(model.QuestionTypeMultipleChoice, 4),
		buildQuestion(model.QuestionTypeMultipleSelect, 4),
	}
	exam := buildExam(questions, 2)
	recorder, store := setupRecorder(questions, exam, 8)
	ctx := context.Background()
	now := time.Now()

	req := model.SaveAnswersRequest{
		Answers: []model.AnswerSubmission{
			// Correct single choice: +2.
			{QuestionID: questions[0].ID, SelectedChoiceIDs: []uuid.UUID{questions[0].Choices[0].ID}},
			// Strict subset of the correct set: nothing.
			{QuestionID: questions[1].ID, SelectedChoiceIDs: []uuid.UUID{questions[1].Choices[0].ID}},
		},
		RemainingSeconds: 100,
		Finished:         true,
	}

	session, err := recorder.RecordAnswers(ctx, exam, 8, req, now)
	if err != nil {
		t.Fatalf("RecordAnswers: %v", err)
	}
	if session.Status != model.SessionStatusFinished {
		t.Errorf("status = %s, want FINISHED", session.Status)
	}
	if session.FinishedAt == nil || !session.FinishedAt.Equal(now) {
		t.Error("finished_at not stamped")
	}
	if session.TotalScore != 2 {
		t.Errorf("total = %f, want 2", session.TotalScore)
	}
	if !session.Scored() {
		t.Error("finished session left unscored")
	}

	stored, _ := store.GetByExamAndUser(ctx, exam.ID, 8)
	if stored.Status != model.SessionStatusFinished || stored.TotalScore != 2 {
		t.Error("finish and score were not persisted together")
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
}

func TestRecordAnswersAfterFinishRejected(t *testing.T) {
	questions := []model.Question{buildQuestion(model.QuestionTypeMultipleChoice, 4)}
	exam := buildExam(questions, 5)
	recorder, store := setupRecorder(questions, exam, 4)
	ctx := context.Background()

	submit := model.SaveAnswersRequest{
		Answers: []model.AnswerSubmission{
			{QuestionID: questions[0].ID, SelectedChoiceIDs: []uuid.UUID{questions[0].Choices[0].ID}},
		},
		Finished: true,
	}
	if _, err := recorder.RecordAnswers(ctx, exam, 4, submit, time.Now()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	before, _ := store.GetByExamAndUser(ctx, exam.ID, 4)

	// Any further save, finishing or not, must fail without mutating.
	for _, finished := range []bool{false, true} {
		_, err := recorder.RecordAnswers(ctx, exam, 4, model.SaveAnswersRequest{
			Answers:  []model.AnswerSubmission{},
			Finished: finished,
		}, time.Now())
		if !errors.Is(err, ErrAlreadyFinished) {
			t.Fatalf("finished=%v: expected ErrAlreadyFinished, got %v", finished, err)
		}
	}

	after, _ := store.GetByExamAndUser(ctx, exam.ID, 4)
	if len(after.AnswerSheet) != len(before.AnswerSheet) || after.TotalScore != before.TotalScore {
		t.Error("rejected save still mutated the session")
	}
}

func TestRecordAnswersUnknownQuestion(t *testing.T) {
	questions := []model.Question{buildQuestion(model.QuestionTypeMultipleChoice, 4)}
	exam := buildExam(questions, 1)
	recorder, store := setupRecorder(questions, exam, 6)

	req := model.SaveAnswersRequest{
		Answers: []model.AnswerSubmission{
			{QuestionID: uuid.New(), SelectedChoiceIDs: nil},
		},
	}
	_, err := recorder.RecordAnswers(context.Background(), exam, 6, req, time.Now())
	if !errors.Is(err, ErrQuestionInfoNotFound) {
		t.Fatalf("expected ErrQuestionInfoNotFound, got %v", err)
	}
	if store.saves != 0 {
		t.Error("session saved despite an unknown question")
	}
}

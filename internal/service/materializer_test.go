package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uniexam/uniexam-backend/internal/model"
	"github.com/uniexam/uniexam-backend/internal/repository"
)

// reverse is the deterministic shuffle used by the tests.
func reverse(entries []model.ManifestEntry) {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
}

func setupMaterializer(questions []model.Question, exam *model.Exam, userID int) (*QuestionSetMaterializer, *fakeSessionStore, *fakeCatalog) {
	store := newFakeSessionStore()
	store.BulkCreate(context.Background(), exam.ID, []int{userID}, exam.DurationMinutes*60)
	catalog := newFakeCatalog(questions...)
	m := NewQuestionSetMaterializer(store, catalog, nopLogger())
	m.shuffle = reverse
	return m, store, catalog
}

func TestMaterializeFirstAccess(t *testing.T) {
	questions := []model.Question{
		buildQuestion(model.QuestionTypeMultipleChoice, 4),
		buildQuestion(model.QuestionTypeTrueFalse, 2),
		buildQuestion(model.QuestionTypeMultipleSelect, 4),
	}
	exam := buildExam(questions, 2)
	m, store, _ := setupMaterializer(questions, exam, 7)
	now := time.Now()

	views, session, err := m.MaterializeForUser(context.Background(), exam, 7, now)
	if err != nil {
		t.Fatalf("MaterializeForUser: %v", err)
	}

	if len(views) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(views))
	}
	// Manifest order is preserved when shuffle is off.
	for i, v := range views {
		if v.ID != questions[i].ID {
			t.Errorf("view %d = %s, want %s", i, v.ID, questions[i].ID)
		}
		if v.Points != 2 {
			t.Errorf("view %d points = %f, want 2", i, v.Points)
		}
	}

	if session.Status != model.SessionStatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", session.Status)
	}
	if session.StartedAt == nil || !session.StartedAt.Equal(now) {
		t.Error("started_at not stamped")
	}
	if len(session.AnswerSheet) != 3 {
		t.Fatalf("snapshot has %d entries, want 3", len(session.AnswerSheet))
	}
	for i, entry := range session.AnswerSheet {
		if entry.QuestionID != views[i].ID {
			t.Errorf("snapshot %d out of step with views", i)
		}
		if entry.SelectedChoiceIDs != nil {
			t.Errorf("snapshot %d has selections before any save", i)
		}
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want exactly 1", store.saves)
	}
}

func TestMaterializeShuffledResumeKeepsOrder(t *testing.T) {
	questions := []model.Question{
		buildQuestion(model.QuestionTypeMultipleChoice, 4),
		buildQuestion(model.QuestionTypeTrueFalse, 2),
		buildQuestion(model.QuestionTypeMultipleChoice, 4),
	}
	exam := buildExam(questions, 1)
	exam.Shuffle = true
	m, store, _ := setupMaterializer(questions, exam, 3)
	now := time.Now()

	first, _, err := m.MaterializeForUser(context.Background(), exam, 3, now)
	if err != nil {
		t.Fatalf("first access: %v", err)
	}

	// The deterministic shuffle reversed the manifest order.
	for i := range first {
		want := questions[len(questions)-1-i].ID
		if first[i].ID != want {
			t.Fatalf("shuffled view %d = %s, want %s", i, first[i].ID, want)
		}
	}

	// Every later access reproduces the first ordering and never saves.
	for attempt := 0; attempt < 3; attempt++ {
		again, session, err := m.MaterializeForUser(context.Background(), exam, 3, now.Add(time.Minute))
		if err != nil {
			t.Fatalf("resume %d: %v", attempt, err)
		}
		if session.Status != model.SessionStatusInProgress {
			t.Errorf("resume %d status = %s", attempt, session.Status)
		}
		for i := range again {
			if again[i].ID != first[i].ID {
				t.Fatalf("resume %d reordered question %d", attempt, i)
			}
		}
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want exactly 1", store.saves)
	}
}

func TestMaterializeFinishedSessionRebuilds(t *testing.T) {
	questions := []model.Question{
		buildQuestion(model.QuestionTypeMultipleChoice, 4),
		buildQuestion(model.QuestionTypeTrueFalse, 2),
	}
	exam := buildExam(questions, 2)
	m, store, _ := setupMaterializer(questions, exam, 9)

	finishedAt := time.Now()
	store.put(&model.ExamSession{
		ID:     uuid.New(),
		ExamID: exam.ID,
		UserID: 9,
		Status: model.SessionStatusFinished,
		AnswerSheet: []model.AnswerEntry{
			{QuestionID: questions[1].ID, Points: 2},
			{QuestionID: questions[0].ID, Points: 2},
		},
		FinishedAt: &finishedAt,
		TotalScore: 2,
	})

	views, session, err := m.MaterializeForUser(context.Background(), exam, 9, time.Now())
	if err != nil {
		t.Fatalf("MaterializeForUser: %v", err)
	}
	if session.Status != model.SessionStatusFinished {
		t.Errorf("status = %s", session.Status)
	}
	// Snapshot order wins over manifest order.
	if views[0].ID != questions[1].ID || views[1].ID != questions[0].ID {
		t.Error("finished session not rebuilt in snapshot order")
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0", store.saves)
	}
}

func TestMaterializeMalformedManifest(t *testing.T) {
	questions := []model.Question{buildQuestion(model.QuestionTypeMultipleChoice, 4)}
	exam := buildExam(questions, 1)
	exam.Manifest.Version = 99
	m, store, _ := setupMaterializer(questions, exam, 1)

	_, _, err := m.MaterializeForUser(context.Background(), exam, 1, time.Now())
	if !errors.Is(err, model.ErrMalformedManifest) {
		t.Fatalf("expected ErrMalformedManifest, got %v", err)
	}
	if store.saves != 0 {
		t.Error("session was persisted despite a malformed manifest")
	}
}

func TestMaterializeQuestionMissingFromCatalog(t *testing.T) {
	questions := []model.Question{buildQuestion(model.QuestionTypeMultipleChoice, 4)}
	exam := buildExam(questions, 1)
	exam.Manifest.Entries = append(exam.Manifest.Entries, model.ManifestEntry{
		QuestionID: uuid.New(),
		Points:     1,
	})
	m, store, _ := setupMaterializer(questions, exam, 1)

	_, _, err := m.MaterializeForUser(context.Background(), exam, 1, time.Now())
	var qnf *QuestionNotFoundError
	if !errors.As(err, &qnf) {
		t.Fatalf("expected QuestionNotFoundError, got %v", err)
	}
	if store.saves != 0 {
		t.Error("session was persisted despite a missing question")
	}
}

func TestMaterializeNoSession(t *testing.T) {
	questions := []model.Question{buildQuestion(model.QuestionTypeMultipleChoice, 4)}
	exam := buildExam(questions, 1)
	m, _, _ := setupMaterializer(questions, exam, 1)

	// User 99 was never enrolled.
	_, _, err := m.MaterializeForUser(context.Background(), exam, 99, time.Now())
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

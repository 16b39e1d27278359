package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/uniexam/uniexam-backend/internal/model"
	"github.com/uniexam/uniexam-backend/internal/repository"
)

// In-memory collaborators shared by the service tests.

type fakeSessionStore struct {
	sessions map[string]*model.ExamSession
	saves    int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*model.ExamSession)}
}

func sessionKey(examID uuid.UUID, userID int) string {
	return fmt.Sprintf("%s/%d", examID, userID)
}

func (f *fakeSessionStore) put(s *model.ExamSession) {
	cp := *s
	f.sessions[sessionKey(s.ExamID, s.UserID)] = &cp
}

func (f *fakeSessionStore) GetByExamAndUser(_ context.Context, examID uuid.UUID, userID int) (*model.ExamSession, error) {
	s, ok := f.sessions[sessionKey(examID, userID)]
	if !ok {
		return nil, fmt.Errorf("exam session: %w", repository.ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionStore) Save(_ context.Context, s *model.ExamSession) error {
	stored, ok := f.sessions[sessionKey(s.ExamID, s.UserID)]
	if !ok {
		return fmt.Errorf("exam session: %w", repository.ErrNotFound)
	}
	if stored.Version != s.Version {
		return fmt.Errorf("session %s at version %d: %w", s.ID, s.Version, repository.ErrVersionConflict)
	}
	f.saves++
	s.Version++
	cp := *s
	f.sessions[sessionKey(s.ExamID, s.UserID)] = &cp
	return nil
}

func (f *fakeSessionStore) BulkCreate(_ context.Context, examID uuid.UUID, userIDs []int, remainingSeconds int) error {
	for _, userID := range userIDs {
		key := sessionKey(examID, userID)
		if _, exists := f.sessions[key]; exists {
			continue
		}
		f.sessions[key] = &model.ExamSession{
			ID:               uuid.New(),
			ExamID:           examID,
			UserID:           userID,
			Status:           model.SessionStatusNotStarted,
			RemainingSeconds: remainingSeconds,
			TotalScore:       model.UnscoredTotal,
		}
	}
	return nil
}

func (f *fakeSessionStore) ListByExam(_ context.Context, examID uuid.UUID) ([]model.ExamSession, error) {
	var out []model.ExamSession
	for _, s := range f.sessions {
		if s.ExamID == examID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) ListByUser(_ context.Context, userID int) ([]model.ExamSession, error) {
	var out []model.ExamSession
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeExamStore struct {
	exams map[uuid.UUID]*model.Exam
}

func newFakeExamStore(exams ...*model.Exam) *fakeExamStore {
	f := &fakeExamStore{exams: make(map[uuid.UUID]*model.Exam)}
	for _, e := range exams {
		cp := *e
		f.exams[e.ID] = &cp
	}
	return f
}

func (f *fakeExamStore) GetByID(_ context.Context, id uuid.UUID) (*model.Exam, error) {
	e, ok := f.exams[id]
	if !ok {
		return nil, fmt.Errorf("exam: %w", repository.ErrNotFound)
	}
	cp := *e
	return &cp, nil
}

func (f *fakeExamStore) Create(_ context.Context, e *model.Exam) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	cp := *e
	f.exams[e.ID] = &cp
	return nil
}

func (f *fakeExamStore) List(_ context.Context) ([]model.Exam, error) {
	var out []model.Exam
	for _, e := range f.exams {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeExamStore) ListByIDs(_ context.Context, ids []uuid.UUID) ([]model.Exam, error) {
	var out []model.Exam
	for _, id := range ids {
		if e, ok := f.exams[id]; ok {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeExamStore) SetCanceled(_ context.Context, id uuid.UUID, canceled bool) error {
	e, ok := f.exams[id]
	if !ok {
		return fmt.Errorf("exam: %w", repository.ErrNotFound)
	}
	e.Canceled = canceled
	return nil
}

type fakeCatalog struct {
	questions map[uuid.UUID]model.Question
	fetches   int
}

func newFakeCatalog(questions ...model.Question) *fakeCatalog {
	f := &fakeCatalog{questions: make(map[uuid.UUID]model.Question)}
	for _, q := range questions {
		f.questions[q.ID] = q
	}
	return f
}

func (f *fakeCatalog) FetchByIDs(_ context.Context, ids []uuid.UUID) ([]model.Question, error) {
	f.fetches++
	var out []model.Question
	for _, id := range ids {
		if q, ok := f.questions[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

// catalogOracle answers correctness queries straight from a fakeCatalog.
type catalogOracle struct {
	catalog *fakeCatalog
}

func (o catalogOracle) IsCorrect(_ context.Context, choiceID uuid.UUID) (bool, error) {
	for _, q := range o.catalog.questions {
		for _, c := range q.Choices {
			if c.ID == choiceID {
				return c.Correct, nil
			}
		}
	}
	return false, fmt.Errorf("choice %s: %w", choiceID, repository.ErrNotFound)
}

func (o catalogOracle) Text(_ context.Context, choiceID uuid.UUID) (string, error) {
	for _, q := range o.catalog.questions {
		for _, c := range q.Choices {
			if c.ID == choiceID {
				return c.Text, nil
			}
		}
	}
	return "", fmt.Errorf("choice %s: %w", choiceID, repository.ErrNotFound)
}

// Builders.

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// buildQuestion returns a question whose first choice is the correct one
// (for MULTIPLE_SELECT, the first two).
func buildQuestion(qtype model.QuestionType, numChoices int) model.Question {
	q := model.Question{
		ID:   uuid.New(),
		Text: "question",
		Type: qtype,
	}
	for i := 0; i < numChoices; i++ {
		correct := i == 0
		if qtype == model.QuestionTypeMultipleSelect {
			correct = i < 2
		}
		q.Choices = append(q.Choices, model.Choice{
			ID:      uuid.New(),
			Text:    fmt.Sprintf("choice %d", i),
			Correct: correct,
		})
	}
	return q
}

func buildExam(questions []model.Question, points float64) *model.Exam {
	now := time.Now()
	exam := &model.Exam{
		ID:              uuid.New(),
		Title:           "exam",
		BeginAt:         now.Add(-time.Hour),
		FinishAt:        now.Add(time.Hour),
		DurationMinutes: 60,
		Manifest:        model.QuestionManifest{Version: model.ManifestVersion},
	}
	for _, q := range questions {
		exam.Manifest.Entries = append(exam.Manifest.Entries, model.ManifestEntry{
			QuestionID: q.ID,
			Points:     points,
		})
	}
	return exam
}

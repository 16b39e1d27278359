package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/uniexam/uniexam-backend/internal/model"
)

// QuestionSetMaterializer builds a student's fixed question set exactly
// once and reconstructs the identical set on every later access.
type QuestionSetMaterializer struct {
	sessions SessionStore
	catalog  QuestionCatalog
	log      zerolog.Logger

	// shuffle permutes manifest entries in place for a fresh shuffled
	// session. Swapped for a deterministic permutation in tests.
	shuffle func(entries []model.ManifestEntry)
}

// NewQuestionSetMaterializer creates a new QuestionSetMaterializer.
func NewQuestionSetMaterializer(sessions SessionStore, catalog QuestionCatalog, log zerolog.Logger) *QuestionSetMaterializer {
	return &QuestionSetMaterializer{
		sessions: sessions,
		catalog:  catalog,
		log:      log.With().Str("component", "materializer").Logger(),
		shuffle: func(entries []model.ManifestEntry) {
			rand.Shuffle(len(entries), func(i, j int) {
				entries[i], entries[j] = entries[j], entries[i]
			})
		},
	}
}

// MaterializeForUser returns the user's question set for an exam whose
// window has already been checked by the gate.
//
// A session that has started (or finished) is reconstructed from its
// answer snapshot in snapshot order, regardless of the exam's shuffle
// flag: materialization happens exactly once per session. A NOT_STARTED
// session gets its set built from the manifest, snapshotted, and the
// session advanced to IN_PROGRESS with a single save.
func (m *QuestionSetMaterializer) MaterializeForUser(ctx context.Context, exam *model.Exam, userID int, now time.Time) ([]model.QuestionView, *model.ExamSession, error) {
	session, err := m.sessions.GetByExamAndUser(ctx, exam.ID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load session for exam %s user %d: %w", exam.ID, userID, err)
	}

	if session.Status != model.SessionStatusNotStarted {
		views, err := m.rebuildFromSnapshot(ctx, session)
		if err != nil {
			return nil, nil, err
		}
		return views, session, nil
	}

	views, sheet, err := m.materialize(ctx, exam)
	if err != nil {
		return nil, nil, err
	}

	session.Status = model.SessionStatusInProgress
	session.StartedAt = &now
	session.AnswerSheet = sheet
	// One save for the whole transition, shuffled or not.
	if err := m.sessions.Save(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("persist materialized session %s: %w", session.ID, err)
	}

	m.log.Info().
		Str("exam_id", exam.ID.String()).
		Int("user_id", userID).
		Int("questions", len(views)).
		Bool("shuffled", exam.Shuffle).
		Msg("Session materialized")
	return views, session, nil
}

// materialize builds the ordered question set and the matching answer
// snapshot from the exam manifest.
func (m *QuestionSetMaterializer) materialize(ctx context.Context, exam *model.Exam) ([]model.QuestionView, []model.AnswerEntry, error) {
	if err := exam.Manifest.Validate(); err != nil {
		return nil, nil, err
	}

	entries := make([]model.ManifestEntry, len(exam.Manifest.Entries))
	copy(entries, exam.Manifest.Entries)
	if exam.Shuffle {
		m.shuffle(entries)
	}

	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.QuestionID
	}
	byID, err := m.fetchQuestions(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	views := make([]model.QuestionView, len(entries))
	sheet := make([]model.AnswerEntry, len(entries))
	for i, e := range entries {
		question, ok := byID[e.QuestionID]
		if !ok {
			return nil, nil, &QuestionNotFoundError{QuestionID: e.QuestionID}
		}
		views[i] = question.Sanitized(e.Points)
		sheet[i] = model.AnswerEntry{
			QuestionID:        e.QuestionID,
			Points:            e.Points,
			SelectedChoiceIDs: nil,
		}
	}
	return views, sheet, nil
}

// rebuildFromSnapshot reconstructs the question set of a started session.
// Order and point weights come from the snapshot, not the manifest.
func (m *QuestionSetMaterializer) rebuildFromSnapshot(ctx context.Context, session *model.ExamSession) ([]model.QuestionView, error) {
	ids := make([]uuid.UUID, len(session.AnswerSheet))
	for i, entry := range session.AnswerSheet {
		ids[i] = entry.QuestionID
	}
	byID, err := m.fetchQuestions(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]model.QuestionView, len(session.AnswerSheet))
	for i, entry := range session.AnswerSheet {
		question, ok := byID[entry.QuestionID]
		if !ok {
			return nil, &QuestionNotFoundError{QuestionID: entry.QuestionID}
		}
		views[i] = question.Sanitized(entry.Points)
	}
	return views, nil
}

func (m *QuestionSetMaterializer) fetchQuestions(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Question, error) {
	questions, err := m.catalog.FetchByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	byID := make(map[uuid.UUID]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}
	return byID, nil
}

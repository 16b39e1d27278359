package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/uniexam/uniexam-backend/internal/model"
)

// SessionRecorder captures in-progress answers and is the only
// request-path way a session reaches FINISHED.
type SessionRecorder struct {
	sessions SessionStore
	grader   *GradingEngine
	log      zerolog.Logger
}

// NewSessionRecorder creates a new SessionRecorder.
func NewSessionRecorder(sessions SessionStore, grader *GradingEngine, log zerolog.Logger) *SessionRecorder {
	return &SessionRecorder{
		sessions: sessions,
		grader:   grader,
		log:      log.With().Str("component", "recorder").Logger(),
	}
}

// RecordAnswers overwrites the session's answer snapshot with the incoming
// answers and updates the countdown. When finished is set, the session
// advances to FINISHED and the final total is graded and persisted in the
// same save, so a FINISHED session is never left unscored.
//
// A FINISHED session fails with ErrAlreadyFinished and no mutation.
func (r *SessionRecorder) RecordAnswers(ctx context.Context, exam *model.Exam, userID int, req model.SaveAnswersRequest, now time.Time) (*model.ExamSession, error) {
	session, err := r.sessions.GetByExamAndUser(ctx, exam.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("load session for exam %s user %d: %w", exam.ID, userID, err)
	}
	if session.Status == model.SessionStatusFinished {
		return nil, fmt.Errorf("session %s: %w", session.ID, ErrAlreadyFinished)
	}

	sheet := make([]model.AnswerEntry, len(req.Answers))
	for i, answer := range req.Answers {
		points, ok := exam.Manifest.PointsFor(answer.QuestionID)
		if !ok {
			return nil, fmt.Errorf("question %s: %w", answer.QuestionID, ErrQuestionInfoNotFound)
		}
		// Selected-choice sets only; clients never send correctness.
		sheet[i] = model.AnswerEntry{
			QuestionID:        answer.QuestionID,
			Points:            points,
			SelectedChoiceIDs: append(answer.SelectedChoiceIDs[:0:0], answer.SelectedChoiceIDs...),
		}
	}

	session.AnswerSheet = sheet
	// The countdown is client-reported but never allowed to grow once
	// the attempt is in progress.
	if session.Status != model.SessionStatusInProgress || req.RemainingSeconds < session.RemainingSeconds {
		session.RemainingSeconds = req.RemainingSeconds
	}

	if req.Finished {
		graded, err := r.grader.Grade(ctx, session.AnswerSheet, &exam.Manifest)
		if err != nil {
			return nil, fmt.Errorf("grade session %s: %w", session.ID, err)
		}
		session.Status = model.SessionStatusFinished
		session.FinishedAt = &now
		session.TotalScore = TotalScore(graded)
	} else if session.Status == model.SessionStatusNotStarted {
		// Saving answers implies the attempt is live even if the client
		// skipped the questions endpoint.
		session.Status = model.SessionStatusInProgress
		session.StartedAt = &now
	}

	if err := r.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session %s: %w", session.ID, err)
	}

	event := r.log.Debug()
	if req.Finished {
		event = r.log.Info()
	}
	event.
		Str("exam_id", exam.ID.String()).
		Int("user_id", userID).
		Int("answers", len(sheet)).
		Bool("finished", req.Finished).
		Msg("Answers recorded")
	return session, nil
}

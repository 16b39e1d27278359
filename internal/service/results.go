package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/uniexam/uniexam-backend/internal/model"
)

// ResultAggregator runs the grading engine across one or many sessions of
// an exam and classifies each into a reporting status.
type ResultAggregator struct {
	grader *GradingEngine
	log    zerolog.Logger
}

// NewResultAggregator creates a new ResultAggregator.
func NewResultAggregator(grader *GradingEngine, log zerolog.Logger) *ResultAggregator {
	return &ResultAggregator{
		grader: grader,
		log:    log.With().Str("component", "results").Logger(),
	}
}

// Aggregate produces one ExamResult per session.
//
// NOT_STARTED sessions report the unscored sentinel. IN_PROGRESS sessions
// report a live partial score, informational only. FINISHED sessions
// report the total graded at finish; a FINISHED session whose persisted
// total is still unscored is an invariant violation and fails the
// aggregation rather than being papered over.
func (a *ResultAggregator) Aggregate(ctx context.Context, exam *model.Exam, sessions []model.ExamSession) ([]model.ExamResult, error) {
	results := make([]model.ExamResult, 0, len(sessions))
	for i := range sessions {
		session := &sessions[i]
		result, err := a.aggregateOne(ctx, exam, session)
		if err != nil {
			return nil, fmt.Errorf("exam %s user %d: %w", exam.ID, session.UserID, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func (a *ResultAggregator) aggregateOne(ctx context.Context, exam *model.Exam, session *model.ExamSession) (model.ExamResult, error) {
	result := model.ExamResult{
		UserID:     session.UserID,
		StartedAt:  session.StartedAt,
		FinishedAt: session.FinishedAt,
	}

	switch session.Status {
	case model.SessionStatusNotStarted:
		result.Status = model.ResultNotStarted
		result.TotalScore = model.UnscoredTotal

	case model.SessionStatusInProgress:
		result.Status = model.ResultInProgress
		sheet := session.AnswerSheet
		if sheet == nil {
			sheet = []model.AnswerEntry{}
		}
		graded, err := a.grader.Grade(ctx, sheet, &exam.Manifest)
		if err != nil {
			return model.ExamResult{}, err
		}
		result.TotalScore = TotalScore(graded)

	case model.SessionStatusFinished:
		if !session.Scored() {
			a.log.Error().
				Str("exam_id", exam.ID.String()).
				Str("session_id", session.ID.String()).
				Int("user_id", session.UserID).
				Msg("Finished session with unscored total")
			return model.ExamResult{}, fmt.Errorf("session %s: %w", session.ID, ErrUnscoredFinishedSession)
		}
		// The total graded at finish is final; it is never re-derived.
		result.Status = model.ResultFinished
		result.TotalScore = session.TotalScore

	default:
		return model.ExamResult{}, fmt.Errorf("session %s has unknown status %q", session.ID, session.Status)
	}

	return result, nil
}

// GradeSession returns the full graded choice lists for one session,
// used by the review view once the session is FINISHED.
func (a *ResultAggregator) GradeSession(ctx context.Context, exam *model.Exam, session *model.ExamSession) ([]model.GradedEntry, error) {
	return a.grader.Grade(ctx, session.AnswerSheet, &exam.Manifest)
}

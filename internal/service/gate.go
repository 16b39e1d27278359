package service

import (
	"time"

	"github.com/uniexam/uniexam-backend/internal/model"
)

// ExamWindowGate validates that an exam may be served or accept content.
// CheckAccess is a pure function; every entry point that touches exam
// content calls it with a server-side clock before doing anything else.
type ExamWindowGate struct{}

// CheckAccess returns nil when the exam is open for the given instant, or
// an AccessDeniedError with the first failing rule. Rules are evaluated in
// order: locked, not yet open, closed, canceled.
func (ExamWindowGate) CheckAccess(exam *model.Exam, now time.Time) error {
	switch {
	case exam.Locked:
		return &AccessDeniedError{ExamID: exam.ID, Reason: AccessLocked}
	case now.Before(exam.BeginAt):
		return &AccessDeniedError{ExamID: exam.ID, Reason: AccessNotYetOpen}
	case now.After(exam.FinishAt):
		return &AccessDeniedError{ExamID: exam.ID, Reason: AccessClosed}
	case exam.Canceled:
		return &AccessDeniedError{ExamID: exam.ID, Reason: AccessCanceled}
	}
	return nil
}

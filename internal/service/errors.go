package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// AccessReason enumerates why exam access was denied. All variants are
// user-facing and non-retryable until the window or exam state changes.
type AccessReason string

const (
	AccessLocked     AccessReason = "LOCKED"
	AccessNotYetOpen AccessReason = "NOT_YET_OPEN"
	AccessClosed     AccessReason = "CLOSED"
	AccessCanceled   AccessReason = "CANCELED"
)

// AccessDeniedError is returned by the exam window gate when an exam must
// not be served or accept content.
type AccessDeniedError struct {
	ExamID uuid.UUID
	Reason AccessReason
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access to exam %s denied: %s", e.ExamID, e.Reason)
}

// AsAccessDenied unwraps an AccessDeniedError if err carries one.
func AsAccessDenied(err error) (*AccessDeniedError, bool) {
	var ad *AccessDeniedError
	if errors.As(err, &ad) {
		return ad, true
	}
	return nil, false
}

// QuestionNotFoundError indicates a materialized or graded question id no
// longer exists in the catalog. The exam configuration is broken; this is
// fatal and never retried.
type QuestionNotFoundError struct {
	QuestionID uuid.UUID
}

func (e *QuestionNotFoundError) Error() string {
	return fmt.Sprintf("question %s not found in catalog", e.QuestionID)
}

var (
	// ErrAlreadyFinished guards against resubmission: a FINISHED session
	// accepts no further answers and no mutation is performed.
	ErrAlreadyFinished = errors.New("exam session is already finished")

	// ErrEmptyAnswerSheet is the grading precondition failure for an
	// absent answer snapshot.
	ErrEmptyAnswerSheet = errors.New("answer sheet must not be empty")

	// ErrQuestionInfoNotFound is the grading precondition failure for an
	// absent or unmatched question manifest.
	ErrQuestionInfoNotFound = errors.New("question information not found")

	// ErrCancelWindowClosed rejects cancellation once the exam window has
	// opened. There is no soft-cancel path.
	ErrCancelWindowClosed = errors.New("exam can no longer be canceled")

	// ErrUnscoredFinishedSession surfaces the invariant violation of a
	// FINISHED session whose total score is still the unscored sentinel.
	ErrUnscoredFinishedSession = errors.New("finished session has no recorded score")

	// ErrSessionNotFinished rejects review access while a session is
	// still NOT_STARTED or IN_PROGRESS; graded choice lists are never
	// exposed during an active attempt.
	ErrSessionNotFinished = errors.New("exam session is not finished yet")
)

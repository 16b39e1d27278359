package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uniexam/uniexam-backend/internal/model"
)

func TestCheckAccess(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	base := model.Exam{
		ID:       uuid.New(),
		BeginAt:  now.Add(-time.Hour),
		FinishAt: now.Add(time.Hour),
	}

	tests := []struct {
		name   string
		mutate func(e *model.Exam)
		reason AccessReason
	}{
		{
			name:   "open exam passes",
			mutate: func(e *model.Exam) {},
		},
		{
			name:   "locked",
			mutate: func(e *model.Exam) { e.Locked = true },
			reason: AccessLocked,
		},
		{
			name:   "not yet open",
			mutate: func(e *model.Exam) { e.BeginAt = now.Add(time.Minute) },
			reason: AccessNotYetOpen,
		},
		{
			name:   "closed",
			mutate: func(e *model.Exam) { e.FinishAt = now.Add(-time.Minute) },
			reason: AccessClosed,
		},
		{
			name:   "canceled",
			mutate: func(e *model.Exam) { e.Canceled = true },
			reason: AccessCanceled,
		},
		{
			// Locked wins over every time rule.
			name: "locked and closed reports locked",
			mutate: func(e *model.Exam) {
				e.Locked = true
				e.FinishAt = now.Add(-time.Minute)
			},
			reason: AccessLocked,
		},
		{
			// A canceled exam whose window has passed reports closed:
			// time rules are checked before the canceled flag.
			name: "canceled and closed reports closed",
			mutate: func(e *model.Exam) {
				e.Canceled = true
				e.FinishAt = now.Add(-time.Minute)
			},
			reason: AccessClosed,
		},
	}

	var gate ExamWindowGate
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exam := base
			tt.mutate(&exam)

			err := gate.CheckAccess(&exam, now)
			if tt.reason == "" {
				if err != nil {
					t.Fatalf("expected access, got %v", err)
				}
				return
			}

			denied, ok := AsAccessDenied(err)
			if !ok {
				t.Fatalf("expected AccessDeniedError, got %v", err)
			}
			if denied.Reason != tt.reason {
				t.Errorf("reason = %s, want %s", denied.Reason, tt.reason)
			}
			if denied.ExamID != exam.ID {
				t.Errorf("exam id = %s, want %s", denied.ExamID, exam.ID)
			}
		})
	}
}

func TestCheckAccessBoundaries(t *testing.T) {
	var gate ExamWindowGate
	exam := model.Exam{
		ID:       uuid.New(),
		BeginAt:  time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		FinishAt: time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC),
	}

	// The window is inclusive on both endpoints.
	if err := gate.CheckAccess(&exam, exam.BeginAt); err != nil {
		t.Errorf("access at begin_at: %v", err)
	}
	if err := gate.CheckAccess(&exam, exam.FinishAt); err != nil {
		t.Errorf("access at finish_at: %v", err)
	}
}

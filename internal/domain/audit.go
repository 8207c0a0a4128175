package domain

import (
	"context"
	"time"
)

// SessionEventType classifies session lifecycle transitions for the audit
// trail.
type SessionEventType string

const (
	SessionEventLogin        SessionEventType = "login"
	SessionEventLogout       SessionEventType = "logout"
	SessionEventSubjectSwap  SessionEventType = "subject_swap"
	SessionEventExpired      SessionEventType = "expired"
	SessionEventDecodeFailed SessionEventType = "decode_failed"
)

// SessionEvent is one recorded session lifecycle transition. Audit writes
// are best effort: a failed write never fails the session operation.
type SessionEvent struct {
	ID                string           `json:"id"`
	Type              SessionEventType `json:"type"`
	SubjectID         string           `json:"subject_id,omitempty"`
	Email             string           `json:"email,omitempty"`
	PreviousSubjectID string           `json:"previous_subject_id,omitempty"`
	ClearedSlots      []string         `json:"cleared_slots,omitempty"`
	OccurredAt        time.Time        `json:"occurred_at"`
}

type SessionEventRepository interface {
	Record(ctx context.Context, event *SessionEvent) error
	ListBySubject(ctx context.Context, subjectID string, limit int) ([]SessionEvent, error)
}

package events

import "time"

type Type string

const (
	// TypeSessionInvalidated tells subscribers that per-user cached data
	// (avatars, profiles) must be discarded. Fired on logout and on a
	// detected subject swap, before the new identity becomes current.
	TypeSessionInvalidated Type = "session.invalidated"
	TypeSessionLogin       Type = "session.login"
	TypeSessionLogout      Type = "session.logout"
)

// Event is the payload delivered to subscribers.
type Event struct {
	ID                string    `json:"id"`
	Type              Type      `json:"type"`
	SubjectID         string    `json:"subject_id,omitempty"`
	PreviousSubjectID string    `json:"previous_subject_id,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}

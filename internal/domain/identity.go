package domain

import (
	"strings"
	"time"
)

// Role is the canonical account role, normalized to lowercase at decode time.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

// ParseRole normalizes a raw role claim. Comparisons are case-insensitive;
// anything outside the three known roles is rejected.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleCandidate:
		return RoleCandidate, true
	case RoleEmployer:
		return RoleEmployer, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// EmployerStatus is the employer account approval state. Only meaningful for
// role=employer; empty for other roles.
type EmployerStatus string

const (
	StatusNone                     EmployerStatus = ""
	StatusPendingProfileCompletion EmployerStatus = "PENDING_PROFILE_COMPLETION"
	StatusPendingApproval          EmployerStatus = "PENDING_APPROVAL"
	StatusActive                   EmployerStatus = "ACTIVE"
)

// ParseStatus normalizes a raw status claim. Comparisons are
// case-insensitive. Unrecognized values are preserved (uppercased) rather
// than rejected so the router can apply its safe-default handling.
func ParseStatus(raw string) EmployerStatus {
	return EmployerStatus(strings.ToUpper(strings.TrimSpace(raw)))
}

// Known reports whether the status is one of the canonical employer states.
func (s EmployerStatus) Known() bool {
	switch s {
	case StatusPendingProfileCompletion, StatusPendingApproval, StatusActive:
		return true
	default:
		return false
	}
}

// Identity is the structured form of a decoded credential. Identities are
// immutable; any change produces a new value replacing the old one.
type Identity struct {
	SubjectID string         `json:"subject_id"`
	Email     string         `json:"email"`
	Role      Role           `json:"role"`
	Status    EmployerStatus `json:"status,omitempty"`
	IssuedAt  time.Time      `json:"issued_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// Expired reports whether the identity's expiry is not strictly in the
// future. An expired identity is equivalent to no identity.
func (i *Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}

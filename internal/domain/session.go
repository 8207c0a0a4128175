package domain

import (
	"context"
	"errors"
)

// SlotLastSubjectID is the ephemeral slot recording the subject id of the
// last adopted identity, used to detect identity swaps across logins. It
// survives page reloads but is wiped on logout.
const SlotLastSubjectID = "last_subject_id"

// ErrExpiredCredential is returned by Login when the credential decodes
// cleanly but is already past its expiry.
var ErrExpiredCredential = errors.New("credential expired")

// CredentialStore persists a single opaque bearer credential plus a small
// set of ephemeral per-session slots. Purely byte storage; no validation.
// Only the session manager writes to it.
type CredentialStore interface {
	// Get returns the stored credential, or "" when none is stored.
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, credential string) error
	Clear(ctx context.Context) error

	// GetSlot returns "" when the slot is unset.
	GetSlot(ctx context.Context, name string) (string, error)
	SetSlot(ctx context.Context, name, value string) error
	ClearSlots(ctx context.Context) error
}

// IdentityDecoder parses a credential into a structured identity. It fails
// with a decode error when the credential matches none of the supported
// encodings or lacks required fields. Expiry is reported, not enforced.
type IdentityDecoder interface {
	Decode(credential string) (*Identity, error)
}

// SessionManager owns the in-memory identity state for the process and is
// the only writer to the credential store.
type SessionManager interface {
	// Initialize derives the session from the credential store. Decode
	// failures and expired credentials are recovered silently: the store is
	// cleared and the session is left empty. Never fails on bad credentials.
	Initialize(ctx context.Context) error

	// Login adopts the given credential. A decode failure is returned to the
	// caller and leaves the session untouched. A detected subject swap
	// broadcasts an invalidation before the new identity becomes current.
	Login(ctx context.Context, credential string) (*Identity, error)

	// Logout clears the credential store and all ephemeral slots, empties
	// the session and broadcasts an invalidation.
	Logout(ctx context.Context) error

	// Current returns the live identity, or nil.
	Current() *Identity
}

package usecase

import (
	"context"
	"sync"
	"time"

	"topjob-gateway/internal/domain"
	"topjob-gateway/internal/events"
	"topjob-gateway/pkg/logger"

	"github.com/google/uuid"
)

type sessionUsecase struct {
	store      domain.CredentialStore
	decoder    domain.IdentityDecoder
	dispatcher events.Dispatcher
	audit      domain.SessionEventRepository // optional, best effort
	now        func() time.Time

	mu      sync.RWMutex
	current *domain.Identity
}

// NewSessionUsecase builds the session manager. The manager is the sole
// writer to the credential store; guards and caching components read
// through Current and react to broadcasts.
func NewSessionUsecase(store domain.CredentialStore, decoder domain.IdentityDecoder, dispatcher events.Dispatcher, audit domain.SessionEventRepository) domain.SessionManager {
	return &sessionUsecase{
		store:      store,
		decoder:    decoder,
		dispatcher: dispatcher,
		audit:      audit,
		now:        time.Now,
	}
}

func (u *sessionUsecase) Initialize(ctx context.Context) error {
	credential, err := u.store.Get(ctx)
	if err != nil {
		return err
	}
	if credential == "" {
		u.setCurrent(nil)
		return nil
	}

	identity, err := u.decoder.Decode(credential)
	if err != nil {
		// Runs on every page load; bad stored credentials are recovered
		// silently as logged-out state, never surfaced as a failure.
		u.setCurrent(nil)
		u.recordEvent(ctx, domain.SessionEventDecodeFailed, nil, "", nil)
		return u.store.Clear(ctx)
	}

	if identity.Expired(u.now()) {
		u.setCurrent(nil)
		u.recordEvent(ctx, domain.SessionEventExpired, identity, "", nil)
		return u.store.Clear(ctx)
	}

	u.adopt(ctx, identity)
	return nil
}

func (u *sessionUsecase) Login(ctx context.Context, credential string) (*domain.Identity, error) {
	// Decode before touching any state: an invalid credential must leave
	// the existing session intact and is surfaced to the caller.
	identity, err := u.decoder.Decode(credential)
	if err != nil {
		return nil, err
	}
	if identity.Expired(u.now()) {
		return nil, domain.ErrExpiredCredential
	}

	// Persist before adopting so a storage failure leaves no half-applied
	// session; the caller sees the error and Current is unchanged.
	if err := u.store.Set(ctx, credential); err != nil {
		return nil, err
	}
	u.adopt(ctx, identity)

	u.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       events.TypeSessionLogin,
		SubjectID:  identity.SubjectID,
		OccurredAt: u.now(),
	})
	u.recordEvent(ctx, domain.SessionEventLogin, identity, "", nil)
	return identity, nil
}

func (u *sessionUsecase) Logout(ctx context.Context) error {
	current := u.Current()
	var subjectID, email string
	if current != nil {
		subjectID = current.SubjectID
		email = current.Email
	}

	if err := u.store.Clear(ctx); err != nil {
		return err
	}
	if err := u.store.ClearSlots(ctx); err != nil {
		return err
	}
	u.setCurrent(nil)

	now := u.now()
	u.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       events.TypeSessionInvalidated,
		SubjectID:  subjectID,
		OccurredAt: now,
	})
	u.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       events.TypeSessionLogout,
		SubjectID:  subjectID,
		OccurredAt: now,
	})

	u.recordEvent(ctx, domain.SessionEventLogout, &domain.Identity{SubjectID: subjectID, Email: email}, "", []string{domain.SlotLastSubjectID})
	return nil
}

func (u *sessionUsecase) Current() *domain.Identity {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.current
}

func (u *sessionUsecase) setCurrent(identity *domain.Identity) {
	u.mu.Lock()
	u.current = identity
	u.mu.Unlock()
}

// adopt performs subject-swap detection and installs the new identity. The
// invalidation broadcast settles before the identity becomes current;
// subscribers reading Current during the broadcast still see the previous
// session, never a new subject paired with stale per-user caches.
func (u *sessionUsecase) adopt(ctx context.Context, identity *domain.Identity) {
	previous, err := u.store.GetSlot(ctx, domain.SlotLastSubjectID)
	if err != nil {
		logger.Log.Warn("Failed to read last subject slot", "error", err)
		previous = ""
	}

	if previous != "" && previous != identity.SubjectID {
		u.dispatcher.Publish(ctx, events.Event{
			ID:                uuid.NewString(),
			Type:              events.TypeSessionInvalidated,
			SubjectID:         identity.SubjectID,
			PreviousSubjectID: previous,
			OccurredAt:        u.now(),
		})
		u.recordEvent(ctx, domain.SessionEventSubjectSwap, identity, previous, nil)
	}

	u.setCurrent(identity)

	if err := u.store.SetSlot(ctx, domain.SlotLastSubjectID, identity.SubjectID); err != nil {
		logger.Log.Warn("Failed to record last subject slot", "error", err)
	}
}

func (u *sessionUsecase) recordEvent(ctx context.Context, eventType domain.SessionEventType, identity *domain.Identity, previousSubjectID string, clearedSlots []string) {
	if u.audit == nil {
		return
	}

	event := &domain.SessionEvent{
		ID:                uuid.NewString(),
		Type:              eventType,
		PreviousSubjectID: previousSubjectID,
		ClearedSlots:      clearedSlots,
		OccurredAt:        u.now(),
	}
	if identity != nil {
		event.SubjectID = identity.SubjectID
		event.Email = identity.Email
	}

	if err := u.audit.Record(ctx, event); err != nil {
		logger.Log.Warn("Failed to record session event", "type", string(eventType), "error", err)
	}
}

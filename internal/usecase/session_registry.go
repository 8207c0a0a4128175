package usecase

import (
	"sync"

	"topjob-gateway/internal/domain"
	"topjob-gateway/internal/events"
)

// StoreFactory builds the credential store backing one client session. The
// namespace is the client's session key; stores built for different keys
// must not share state.
type StoreFactory func(namespace string) domain.CredentialStore

// SessionRegistry hands out one session manager per client session key, so
// no two clients ever share credential state. Managers are built lazily and
// cached for the lifetime of the process; the durable state behind them is
// bounded by the store's TTL.
type SessionRegistry struct {
	stores     StoreFactory
	decoder    domain.IdentityDecoder
	dispatcher events.Dispatcher
	audit      domain.SessionEventRepository

	mu       sync.Mutex
	managers map[string]domain.SessionManager
}

func NewSessionRegistry(stores StoreFactory, decoder domain.IdentityDecoder, dispatcher events.Dispatcher, audit domain.SessionEventRepository) *SessionRegistry {
	return &SessionRegistry{
		stores:     stores,
		decoder:    decoder,
		dispatcher: dispatcher,
		audit:      audit,
		managers:   make(map[string]domain.SessionManager),
	}
}

// Manager returns the session manager for the given session key, creating
// it on first use.
func (r *SessionRegistry) Manager(key string) domain.SessionManager {
	r.mu.Lock()
	defer r.mu.Unlock()

	if manager, ok := r.managers[key]; ok {
		return manager
	}
	manager := NewSessionUsecase(r.stores(key), r.decoder, r.dispatcher, r.audit)
	r.managers[key] = manager
	return manager
}

package memory

import (
	"context"
	"sync"

	"topjob-gateway/internal/domain"
)

// CredentialStore is the in-process fallback used when Redis is not
// configured, and the store of choice in tests. Contents survive for the
// lifetime of the process only.
type CredentialStore struct {
	mu         sync.RWMutex
	credential string
	slots      map[string]string
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{slots: make(map[string]string)}
}

var _ domain.CredentialStore = (*CredentialStore)(nil)

func (s *CredentialStore) Get(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential, nil
}

func (s *CredentialStore) Set(_ context.Context, credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
	return nil
}

func (s *CredentialStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = ""
	return nil
}

func (s *CredentialStore) GetSlot(_ context.Context, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slots[name], nil
}

func (s *CredentialStore) SetSlot(_ context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[name] = value
	return nil
}

func (s *CredentialStore) ClearSlots(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = make(map[string]string)
	return nil
}

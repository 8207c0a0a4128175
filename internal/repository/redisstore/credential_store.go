package redisstore

import (
	"context"
	"errors"
	"time"

	"topjob-gateway/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

const (
	credentialKeyPrefix = "session:cred:"
	slotsKeyPrefix      = "session:slots:"
)

// CredentialStore persists the credential and ephemeral slots in Redis so
// they survive gateway restarts, namespaced per browser session. The
// credential lives in a string key, slots in a hash; both carry the same
// TTL, refreshed on every write.
type CredentialStore struct {
	client    *goredis.Client
	namespace string
	ttl       time.Duration
}

func NewCredentialStore(client *goredis.Client, namespace string, ttl time.Duration) *CredentialStore {
	return &CredentialStore{client: client, namespace: namespace, ttl: ttl}
}

var _ domain.CredentialStore = (*CredentialStore)(nil)

func (s *CredentialStore) credentialKey() string {
	return credentialKeyPrefix + s.namespace
}

func (s *CredentialStore) slotsKey() string {
	return slotsKeyPrefix + s.namespace
}

func (s *CredentialStore) Get(ctx context.Context) (string, error) {
	value, err := s.client.Get(ctx, s.credentialKey()).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *CredentialStore) Set(ctx context.Context, credential string) error {
	return s.client.Set(ctx, s.credentialKey(), credential, s.ttl).Err()
}

func (s *CredentialStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.credentialKey()).Err()
}

func (s *CredentialStore) GetSlot(ctx context.Context, name string) (string, error) {
	value, err := s.client.HGet(ctx, s.slotsKey(), name).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *CredentialStore) SetSlot(ctx context.Context, name, value string) error {
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.slotsKey(), name, value)
	pipe.Expire(ctx, s.slotsKey(), s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *CredentialStore) ClearSlots(ctx context.Context) error {
	return s.client.Del(ctx, s.slotsKey()).Err()
}

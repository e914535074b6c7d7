package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cityfeedback/portal/internal/core/ports"
)

// ProfileStore keeps browser-profile local storage in Redis. Each profile gets
// its own key space; entries expire after ttl of inactivity.
// Key format: cityfeedback:profile:<profile_id>:<key>
type ProfileStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewProfileStore(client redis.Cmdable, ttl time.Duration) *ProfileStore {
	return &ProfileStore{client: client, ttl: ttl}
}

// ForProfile returns the storage of one profile.
func (p *ProfileStore) ForProfile(profileID string) ports.SessionStore {
	return &profileStorage{store: p, profileID: profileID}
}

type profileStorage struct {
	store     *ProfileStore
	profileID string
}

// Get reads key and slides its expiry forward.
func (s *profileStorage) Get(ctx context.Context, key string) (string, error) {
	v, err := s.store.client.GetEx(ctx, profileKey(s.profileID, key), s.store.ttl).Result()
	if errors.Is(err, redis.Nil) {
		return "", ports.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("profile store get: %w", err)
	}
	return v, nil
}

func (s *profileStorage) Set(ctx context.Context, key, value string) error {
	if err := s.store.client.Set(ctx, profileKey(s.profileID, key), value, s.store.ttl).Err(); err != nil {
		return fmt.Errorf("profile store set: %w", err)
	}
	return nil
}

func (s *profileStorage) Remove(ctx context.Context, key string) error {
	n, err := s.store.client.Del(ctx, profileKey(s.profileID, key)).Result()
	if err != nil {
		return fmt.Errorf("profile store remove: %w", err)
	}
	if n == 0 {
		return ports.ErrKeyNotFound
	}
	return nil
}

func profileKey(profileID, key string) string {
	return fmt.Sprintf("cityfeedback:profile:%s:%s", profileID, key)
}

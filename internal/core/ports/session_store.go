package ports

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by SessionStore.Get for a missing key.
var ErrKeyNotFound = errors.New("key not found")

// SessionStore is profile-local key/value storage, the equivalent of a
// browser's local storage. Values are opaque strings.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

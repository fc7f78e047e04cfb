package repo

import (
	"context"
	"errors"
	"time"
)

var ErrStateNotFound = errors.New("state not found")

// StateStore keeps opaque per session blobs such as the list view state.
type StateStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Locker serializes work on a key. The returned func releases the lock.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

package viewstate

import (
	"context"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/scienceol/labinv/pkg/common/code"
	"github.com/scienceol/labinv/pkg/repo"
)

type entry struct {
	value   []byte
	expires time.Time
}

type MemoryStore struct {
	data *haxmap.Map[string, *entry]
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: haxmap.New[string, *entry](),
		now:  time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := m.data.Get(keyPrefix + key)
	if !ok {
		return nil, repo.ErrStateNotFound
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		m.data.Del(keyPrefix + key)
		return nil, repo.ErrStateNotFound
	}
	return e.value, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := &entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.sweep()
	m.data.Set(keyPrefix+key, e)
	return nil
}

// sweep drops expired entries that were never read again.
func (m *MemoryStore) sweep() {
	now := m.now()
	var expired []string
	m.data.ForEach(func(k string, e *entry) bool {
		if !e.expires.IsZero() && now.After(e.expires) {
			expired = append(expired, k)
		}
		return true
	})
	if len(expired) > 0 {
		m.data.Del(expired...)
	}
}

func (m *MemoryStore) Del(_ context.Context, key string) error {
	m.data.Del(keyPrefix + key)
	return nil
}

// MemoryLocker hands out one buffered channel per key as a context aware mutex.
// ttl is ignored; a lock lives until released.
type MemoryLocker struct {
	locks *haxmap.Map[string, chan struct{}]
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: haxmap.New[string, chan struct{}]()}
}

func (m *MemoryLocker) Lock(ctx context.Context, key string, _ time.Duration) (func(), error) {
	ch, _ := m.locks.GetOrSet(keyPrefix+key, make(chan struct{}, 1))
	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, code.LockAcquireErr.WithErr(ctx.Err())
	}
}

package viewstate

import (
	"context"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/scienceol/labinv/pkg/common/code"
	"github.com/scienceol/labinv/pkg/repo"
)

func TestMemoryStore(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	_, err := store.Get(ctx, "view")
	c.Assert(err, qt.ErrorIs, repo.ErrStateNotFound)

	c.Assert(store.Set(ctx, "view", []byte("a"), time.Minute), qt.IsNil)
	got, err := store.Get(ctx, "view")
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "a")

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "view")
	c.Assert(err, qt.ErrorIs, repo.ErrStateNotFound)

	c.Assert(store.Set(ctx, "view", []byte("b"), 0), qt.IsNil)
	c.Assert(store.Del(ctx, "view"), qt.IsNil)
	_, err = store.Get(ctx, "view")
	c.Assert(err, qt.ErrorIs, repo.ErrStateNotFound)
}

func TestMemoryStoreSweepsExpired(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	c.Assert(store.Set(ctx, "abandoned", []byte("a"), time.Minute), qt.IsNil)
	c.Assert(store.Set(ctx, "kept", []byte("k"), 0), qt.IsNil)

	now = now.Add(2 * time.Minute)
	c.Assert(store.Set(ctx, "fresh", []byte("f"), time.Minute), qt.IsNil)

	_, ok := store.data.Get(keyPrefix + "abandoned")
	c.Assert(ok, qt.IsFalse)
	_, ok = store.data.Get(keyPrefix + "kept")
	c.Assert(ok, qt.IsTrue)
	c.Assert(store.data.Len(), qt.Equals, uintptr(2))
}

func TestMemoryLockerSerializes(t *testing.T) {
	c := qt.New(t)
	locker := NewMemoryLocker()

	unlock, err := locker.Lock(context.Background(), "user:1", time.Second)
	c.Assert(err, qt.IsNil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "user:1", time.Second)
	c.Assert(err, qt.ErrorIs, code.LockAcquireErr)

	other, err := locker.Lock(context.Background(), "user:2", time.Second)
	c.Assert(err, qt.IsNil)
	other()

	unlock()
	again, err := locker.Lock(context.Background(), "user:1", time.Second)
	c.Assert(err, qt.IsNil)
	again()
}

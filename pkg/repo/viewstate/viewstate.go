package viewstate

import (
	"github.com/scienceol/labinv/pkg/middleware/redis"
	"github.com/scienceol/labinv/pkg/repo"
)

const keyPrefix = "labinv:"

// NewStore picks redis when a client was initialised, process memory otherwise.
func NewStore() repo.StateStore {
	if client := redis.GetClient(); client != nil {
		return NewRedisStore(client)
	}
	return NewMemoryStore()
}

func NewLocker() repo.Locker {
	if client := redis.GetClient(); client != nil {
		return NewRedisLocker(client)
	}
	return NewMemoryLocker()
}

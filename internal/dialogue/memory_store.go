package dialogue

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

type MemoryStore struct {
	cache *cache.Cache
}

// NewMemoryStore keeps sessions in process for ttl, purging expired ones every ttl/2.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: cache.New(ttl, ttl/2),
	}
}

func (r *MemoryStore) Get(_ context.Context, conversationId string) (*Session, error) {
	if x, found := r.cache.Get(conversationId); found {
		stored := x.(*Session)
		// Hand out a copy so callers never mutate the cached value in place.
		cp := &Session{State: stored.State, Data: make(map[string]string, len(stored.Data)), UpdatedAt: stored.UpdatedAt}
		for k, v := range stored.Data {
			cp.Data[k] = v
		}
		return cp, nil
	}
	return NewSession(), nil
}

func (r *MemoryStore) Save(_ context.Context, conversationId string, session *Session) error {
	r.cache.Set(conversationId, session, cache.DefaultExpiration)
	return nil
}

func (r *MemoryStore) Delete(_ context.Context, conversationId string) error {
	r.cache.Delete(conversationId)
	return nil
}

// Package lock guards against two generations running for one session.
package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Locker is a non-blocking, TTL-bounded mutex keyed by session ID. The TTL
// frees a key whose holder died without releasing it.
type Locker interface {
	// Acquire returns a token naming this holder, or ok=false if key is held.
	Acquire(ctx context.Context, key string) (token string, ok bool, err error)
	// Release frees key only while it is still held with token.
	Release(ctx context.Context, key, token string) error
}

// MemoryLocker keeps keys in process memory.
type MemoryLocker struct {
	mu    sync.Mutex
	store *cache.Cache
	ttl   time.Duration
}

func NewMemoryLocker(ttl time.Duration) *MemoryLocker {
	return &MemoryLocker{
		store: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (m *MemoryLocker) Acquire(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	token := uuid.NewString()
	// Add fails if the key exists and has not expired.
	if err := m.store.Add(key, token, m.ttl); err != nil {
		return "", false, nil
	}
	return token, true, nil
}

func (m *MemoryLocker) Release(_ context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if held, ok := m.store.Get(key); ok && held.(string) == token {
		m.store.Delete(key)
	}
	return nil
}

package guard

import (
	"context"
	"sync"
	"time"
)

// MemoryGuard is the single-instance guard used when no redis is
// configured. Holds expire after ttl like their redis counterpart.
type MemoryGuard struct {
	mu   sync.Mutex
	ttl  time.Duration
	held map[string]heldKey
	now  func() time.Time
	seq  uint64
}

type heldKey struct {
	id      uint64
	expires time.Time
}

func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	return &MemoryGuard{ttl: ttl, held: make(map[string]heldKey), now: time.Now}
}

func (g *MemoryGuard) Acquire(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if h, ok := g.held[key]; ok && now.Before(h.expires) {
		return nil, ErrInFlight
	}
	g.seq++
	id := g.seq
	g.held[key] = heldKey{id: id, expires: now.Add(g.ttl)}

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if h, ok := g.held[key]; ok && h.id == id {
			delete(g.held, key)
		}
	}, nil
}

package shift

import (
	"context"
	"sync"
	"time"
)

// LocalGate is an in-process shift.ScanGate for single-instance runs.
type LocalGate struct {
	mu   sync.Mutex
	ttl  time.Duration
	last map[string]time.Time
	now  func() time.Time
}

func NewLocalGate(ttl time.Duration) *LocalGate {
	return &LocalGate{
		ttl:  ttl,
		last: make(map[string]time.Time),
		now:  time.Now,
	}
}

// Allow implements shift.ScanGate.
func (g *LocalGate) Allow(ctx context.Context, key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if last, ok := g.last[key]; ok && now.Sub(last) < g.ttl {
		return false
	}
	g.last[key] = now

	// Drop stale keys so the map does not grow with every employee ever seen.
	if len(g.last) > 1024 {
		for k, t := range g.last {
			if now.Sub(t) >= g.ttl {
				delete(g.last, k)
			}
		}
	}
	return true
}

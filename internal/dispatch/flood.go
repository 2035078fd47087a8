package dispatch

import (
	"sync"
	"time"
)

const (
	defaultFloodLimit  = 6
	defaultFloodWindow = 10 * time.Second
)

// floodGuard drops invocations from users who burst past a budget inside
// a sliding window. Hits are recorded even while over budget, so a
// flooding user keeps extending their own silence.
type floodGuard struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string][]time.Time
	now    func() time.Time
}

func newFloodGuard(limit int, window time.Duration) *floodGuard {
	if limit <= 0 {
		limit = defaultFloodLimit
	}
	if window <= 0 {
		window = defaultFloodWindow
	}
	return &floodGuard{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow records one invocation for the user and reports whether they are
// still within budget.
func (g *floodGuard) Allow(userID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	cutoff := now.Add(-g.window)
	hits := g.hits[userID]
	idx := 0
	for _, hit := range hits {
		if hit.After(cutoff) {
			break
		}
		idx++
	}
	hits = append(hits[idx:], now)
	g.hits[userID] = hits
	return len(hits) <= g.limit
}

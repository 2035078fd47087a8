package dispatch

import (
	"sync"
	"time"
)

// cooldownTable tracks the last invocation time per guild/user/command key.
type cooldownTable struct {
	mu   sync.Mutex
	last map[string]time.Time
	now  func() time.Time
}

func newCooldownTable() *cooldownTable {
	return &cooldownTable{last: make(map[string]time.Time), now: time.Now}
}

// Remaining returns how long the key stays on cooldown, zero when free.
func (t *cooldownTable) Remaining(key string, cooldown time.Duration) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	last, ok := t.last[key]
	if !ok {
		return 0
	}
	remaining := cooldown - t.now().Sub(last)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Touch records an invocation for the key.
func (t *cooldownTable) Touch(key string) {
	t.mu.Lock()
	t.last[key] = t.now()
	t.mu.Unlock()
}

package ratelimit

import (
	"context"
	"sync"
	"time"
)

const sweepInterval = 5 * time.Minute

// MemoryLimiter is the in-process fallback counter store. It is correct for
// a single instance only; cross-instance budgeting needs the redis limiter.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]bucket
	stopCh  chan struct{}
	once    sync.Once
}

type bucket struct {
	count     int
	windowEnd time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	rl := &MemoryLimiter{
		entries: make(map[string]bucket),
		stopCh:  make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

func (rl *MemoryLimiter) Allow(_ context.Context, name, key string, limit Limit) Decision {
	if limit.Count <= 0 {
		return Decision{Allowed: true}
	}
	window := limit.Window
	if window <= 0 {
		window = time.Minute
	}

	entryKey := name + ":" + key
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	state, ok := rl.entries[entryKey]
	if !ok || now.After(state.windowEnd) {
		state = bucket{count: 1, windowEnd: now.Add(window)}
		rl.entries[entryKey] = state
		return Decision{Allowed: true, Count: state.count, WindowEnd: state.windowEnd}
	}
	if state.count >= limit.Count {
		return Decision{Allowed: false, Count: state.count, WindowEnd: state.windowEnd}
	}
	state.count++
	rl.entries[entryKey] = state
	return Decision{Allowed: true, Count: state.count, WindowEnd: state.windowEnd}
}

func (rl *MemoryLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *MemoryLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, state := range rl.entries {
		if now.After(state.windowEnd) {
			delete(rl.entries, key)
		}
	}
}

func (rl *MemoryLimiter) Close() {
	rl.once.Do(func() {
		close(rl.stopCh)
	})
}

package ratelimit

import (
	"context"
	"time"
)

// Limit is a rolling-window budget: Count events per Window.
type Limit struct {
	Count  int
	Window time.Duration
}

// Route budgets. Unlisted routes fall under DefaultLimit.
var (
	DefaultLimit  = Limit{Count: 120, Window: time.Minute}
	HealthLimit   = Limit{Count: 300, Window: time.Minute}
	RegisterLimit = Limit{Count: 5, Window: time.Minute}
	LoginLimit    = Limit{Count: 10, Window: time.Minute}
	DeleteLimit   = Limit{Count: 2, Window: time.Minute}
	ExtractLimit  = Limit{Count: 5, Window: time.Minute}
)

type Decision struct {
	Allowed   bool
	Count     int
	WindowEnd time.Time
}

// Limiter tracks one counter per (name, key) pair so each named limit has
// an independent budget.
type Limiter interface {
	Allow(ctx context.Context, name, key string, limit Limit) Decision
	Close()
}

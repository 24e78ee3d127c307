package repository

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryLimiterRepository is the in-process fallback used when Redis is
// unavailable or not configured. One token bucket per user.
type MemoryLimiterRepository struct {
	limiters sync.Map // map[int64]*rate.Limiter
}

func NewMemoryLimiterRepository() *MemoryLimiterRepository {
	return &MemoryLimiterRepository{}
}

func (r *MemoryLimiterRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return true, nil
	}

	lim := r.getLimiter(userID, limit, window)
	return lim.Allow(), nil
}

func (r *MemoryLimiterRepository) getLimiter(userID int64, limit int, window time.Duration) *rate.Limiter {
	if v, ok := r.limiters.Load(userID); ok {
		return v.(*rate.Limiter)
	}

	if window <= 0 {
		window = time.Second
	}
	rps := float64(limit) / window.Seconds()

	lim := rate.NewLimiter(rate.Limit(rps), limit)
	actual, loaded := r.limiters.LoadOrStore(userID, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

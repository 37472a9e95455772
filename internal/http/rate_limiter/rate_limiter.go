package rate_limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Visitors keeps one token bucket per client key.
type Visitors struct {
	mu       sync.Mutex
	visitors map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

func NewVisitors(perSecond float64, burst int) *Visitors {
	return &Visitors{
		visitors: make(map[string]*clientLimiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		now:      time.Now,
	}
}

func (v *Visitors) Get(key string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	c, exists := v.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(v.limit, v.burst)
		v.visitors[key] = &clientLimiter{limiter, v.now()}
		return limiter
	}

	c.lastSeen = v.now()
	return c.limiter
}

// Cleanup forgets clients idle for longer than maxIdle.
func (v *Visitors) Cleanup(maxIdle time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for key, c := range v.visitors {
		if v.now().Sub(c.lastSeen) > maxIdle {
			delete(v.visitors, key)
		}
	}
}

func (v *Visitors) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.visitors)
}

// StartCleanupLoop runs Cleanup every interval until ctx is done.
func (v *Visitors) StartCleanupLoop(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v.Cleanup(maxIdle)
		}
	}
}

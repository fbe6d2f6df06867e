package middleware

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// localLimiter keeps one token bucket per key in process memory. A bucket
// idle for a whole window is full again, so it can be dropped.
type localLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	window    time.Duration
	buckets   map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func newLocalLimiter(max int, window time.Duration) *localLimiter {
	return &localLimiter{
		limit:   rate.Limit(float64(max) / window.Seconds()),
		burst:   max,
		window:  window,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (l *localLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.lastSweep) > l.window {
		for k, b := range l.buckets {
			if now.Sub(b.seen) > l.window {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.seen = now
	return b.lim
}

// hit takes one token from key's bucket. reset is the wait until the bucket
// is full again, or until the next token when the hit was refused.
func (l *localLimiter) hit(_ context.Context, key string) (verdict, error) {
	lim := l.get(key)
	perToken := time.Duration(float64(time.Second) / float64(l.limit))
	if !lim.Allow() {
		return verdict{reset: perToken}, nil
	}
	tokens := lim.Tokens()
	missing := float64(l.burst) - tokens
	return verdict{
		allowed:   true,
		remaining: int(math.Max(0, math.Floor(tokens))),
		reset:     time.Duration(missing * float64(perToken)),
	}, nil
}

// LocalRateLimit is RateLimit for a single instance without Redis.
func LocalRateLimit(max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if max <= 0 || window <= 0 || keyFn == nil {
		return passThrough
	}
	return limitWith(newLocalLimiter(max, window), max, keyFn, allow)
}

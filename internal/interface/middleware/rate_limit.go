package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-content-storefront/pkg/response"
)

func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func normalizePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc names the bucket a request is counted against.
type KeyFunc func(c *gin.Context) string

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndPath counts each route template separately per client.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + normalizePath(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByIdentity counts signed-in callers by identity, anonymous ones by IP.
func KeyByIdentity() KeyFunc {
	return func(c *gin.Context) string {
		if id := IdentityFrom(c); id != "" {
			return "rl:identity:" + id
		}
		return "rl:anon:ip:" + ipFromCtx(c)
	}
}

// AllowFunc exempts a request from limiting when it returns true.
type AllowFunc func(*gin.Context) bool

// verdict is one counted hit: whether it fits, what is left, and how long
// until the bucket recovers.
type verdict struct {
	allowed   bool
	remaining int
	reset     time.Duration
}

type hitCounter interface {
	hit(ctx context.Context, key string) (verdict, error)
}

// RateLimit allows max requests per window per key. With a Redis client the
// count is a fixed window shared by every instance; without one it falls
// back to an in-process token bucket (LocalRateLimit). A non-positive max or
// window disables limiting.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil {
		return LocalRateLimit(max, window, keyFn, allow)
	}
	if max <= 0 || window <= 0 || keyFn == nil {
		return passThrough
	}
	return limitWith(&redisWindow{rdb: rdb, max: max, window: window}, max, keyFn, allow)
}

func passThrough(c *gin.Context) { c.Next() }

// limitWith is the request side shared by both counters. Counter errors let
// the request through.
func limitWith(counter hitCounter, max int, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	limit := strconv.Itoa(max)
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, http.MethodOptions) || (allow != nil && allow(c)) {
			c.Next()
			return
		}
		v, err := counter.hit(c.Request.Context(), keyFn(c))
		if err != nil {
			c.Next()
			return
		}

		reset := ceilSeconds(v.reset)
		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", limit)
		h.Set("X-RateLimit-Remaining", strconv.Itoa(v.remaining))
		h.Set("X-RateLimit-Reset", strconv.Itoa(reset))
		if v.allowed {
			c.Next()
			return
		}
		if reset > 0 {
			h.Set("Retry-After", strconv.Itoa(reset))
		}
		response.Error[any](c, http.StatusTooManyRequests, "rate limit exceeded", nil)
		c.Abort()
	}
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

// windowScript increments the key, starts its window on the first hit, and
// returns {count, pttl} in one round trip.
var windowScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

// redisWindow is a fixed-window counter in Redis.
type redisWindow struct {
	rdb    *redis.Client
	max    int
	window time.Duration
}

func (w *redisWindow) hit(ctx context.Context, key string) (verdict, error) {
	res, err := windowScript.Run(ctx, w.rdb, []string{key}, w.window.Milliseconds()).Int64Slice()
	if err != nil {
		return verdict{}, err
	}
	if len(res) != 2 {
		return verdict{}, fmt.Errorf("rate window %s: unexpected reply %v", key, res)
	}
	count, pttl := int(res[0]), time.Duration(res[1])*time.Millisecond
	return verdict{allowed: count <= w.max, remaining: remaining(w.max, count), reset: pttl}, nil
}

func remaining(max, count int) int {
	if count >= max {
		return 0
	}
	return max - count
}

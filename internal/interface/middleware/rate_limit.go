package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/oksasatya/go-appointment-scheduler/pkg/response"
)

// ipFromCtx extracts the client IP from Gin context, falling back to "unknown"
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

// KeyFunc builds a rate-limit key from the request
type KeyFunc func(c *gin.Context) string

// KeyByIP limits by client IP only
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndPath limits by client IP and route
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + normalizePath(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID limits authenticated callers by id and anonymous ones by IP.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		uid := UserID(c)
		if uid == 0 {
			return "rl:user:anon:ip:" + ipFromCtx(c)
		}
		return "rl:user:" + strconv.FormatInt(uid, 10)
	}
}

// KeyByUserIDAndPath scopes KeyByUserID to the route so each route keeps its own budget.
func KeyByUserIDAndPath() KeyFunc {
	byUser := KeyByUserID()
	return func(c *gin.Context) string {
		return byUser(c) + ":path:" + normalizePath(c)
	}
}

// atomic INCR, setting the window expiry on the first hit
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

type AllowFunc func(*gin.Context) bool // return true for bypass limit

// RateLimit allows max requests per window and key. It counts in Redis when rdb is
// set and fails open on Redis errors; without Redis it falls back to an in-process
// token bucket per key. Responses carry X-RateLimit-* headers; 429 on excess.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	var local *localLimiter
	if rdb == nil {
		local = newLocalLimiter(max, window)
	}
	return func(c *gin.Context) {
		if allow != nil && allow(c) {
			c.Next()
			return
		}
		if strings.EqualFold(c.Request.Method, http.MethodOptions) {
			c.Next()
			return
		}

		key := keyFn(c)
		var remaining, resetSec int
		var exceeded bool
		if local != nil {
			remaining, resetSec, exceeded = local.take(key)
		} else {
			ctx := c.Request.Context()
			countI, err := incrExpireScript.Run(ctx, rdb, []string{key}, window.Milliseconds()).Result()
			if err != nil {
				c.Next()
				return
			}
			count := toInt(countI)
			if ttl, _ := rdb.PTTL(ctx, key).Result(); ttl > 0 {
				resetSec = int(math.Ceil(ttl.Seconds()))
			}
			remaining = max - count
			exceeded = count > max
		}
		if remaining < 0 {
			remaining = 0
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if exceeded {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			response.Error[any](c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// localLimiter keeps one token bucket per key refilling max tokens per window.
type localLimiter struct {
	mu       sync.Mutex
	max      int
	window   time.Duration
	limiters map[string]*rate.Limiter
}

func newLocalLimiter(max int, window time.Duration) *localLimiter {
	return &localLimiter{max: max, window: window, limiters: map[string]*rate.Limiter{}}
}

func (l *localLimiter) take(key string) (remaining, resetSec int, exceeded bool) {
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.window/time.Duration(l.max)), l.max)
		l.limiters[key] = lim
	}
	l.mu.Unlock()

	now := time.Now()
	if !lim.AllowN(now, 1) {
		r := lim.ReserveN(now, 1)
		wait := r.DelayFrom(now)
		r.CancelAt(now)
		return 0, int(math.Ceil(wait.Seconds())), true
	}
	return int(lim.TokensAt(now)), int(math.Ceil(l.window.Seconds())), false
}

func toInt(v interface{}) int {
	switch x := v.(type) {
	case int64:
		return int(x)
	case int:
		return x
	case string:
		i, _ := strconv.Atoi(x)
		return i
	}
	return 0
}

package ratelim

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/time/rate"

	"merchant/utils"
)

const visitorTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP. An IP is forgotten
// once it has sent nothing for the idle TTL.
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	ttl      time.Duration
}

// NewRateLimiter allows perMinute requests per IP with the given burst.
// A non-positive perMinute disables limiting.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		burst:    burst,
		ttl:      visitorTTL,
	}
}

// Get or create a rate limiter for an IP
func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, exists := rl.visitors[ip]; exists {
		v.lastSeen = time.Now()
		return v.limiter
	}

	v := &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst), lastSeen: time.Now()}
	rl.visitors[ip] = v
	rl.evictWhenIdle(ip, rl.ttl)
	return v.limiter
}

// evictWhenIdle checks ip after the given delay and drops it only if it has
// been idle for a full TTL; an active visitor is checked again later.
func (rl *RateLimiter) evictWhenIdle(ip string, after time.Duration) {
	time.AfterFunc(after, func() {
		rl.mu.Lock()
		defer rl.mu.Unlock()
		v, ok := rl.visitors[ip]
		if !ok {
			return
		}
		if idle := time.Since(v.lastSeen); idle < rl.ttl {
			rl.evictWhenIdle(ip, rl.ttl-idle)
			return
		}
		delete(rl.visitors, ip)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (rl *RateLimiter) Limit(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !rl.getLimiter(clientIP(r)).Allow() {
			utils.RespondWithError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next(w, r, ps)
	}
}

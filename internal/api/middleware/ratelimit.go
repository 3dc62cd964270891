package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/gatherhub/server/internal/api/problem"
	"github.com/gatherhub/server/internal/config"
)

// RateLimit enforces a per-client-IP request budget, with a separate
// budget for the admin surface. A zero per-minute limit disables that
// tier. Health and metrics endpoints are exempt.
func RateLimit(cfg config.RateLimitConfig, env string) func(http.Handler) http.Handler {
	public := newLimiterStore(cfg.PublicPerMinute)
	admin := newLimiterStore(cfg.AdminPerMinute)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" || r.URL.Path == "/readyz" || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			store := public
			limit := cfg.PublicPerMinute
			if strings.HasPrefix(r.URL.Path, "/admin") {
				store = admin
				limit = cfg.AdminPerMinute
			}
			if limit > 0 && !store.allow(ClientIP(r)) {
				problem.Write(w, r, http.StatusTooManyRequests,
					"https://gatherhub.dev/problems/rate-limited", "Too many requests", nil, env)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type limiterStore struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newLimiterStore(perMinute int) *limiterStore {
	return &limiterStore{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(max(perMinute, 1))),
		burst:    max(perMinute, 1),
	}
}

func (s *limiterStore) allow(key string) bool {
	s.mu.Lock()
	limiter, ok := s.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(s.limit, s.burst)
		s.limiters[key] = limiter
	}
	s.mu.Unlock()
	return limiter.Allow()
}

// ClientIP returns the remote address without the port, honoring
// X-Forwarded-For when set by a proxy.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if idx := strings.IndexByte(forwarded, ','); idx >= 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

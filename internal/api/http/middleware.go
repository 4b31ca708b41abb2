package httpapi

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"farmer/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Middleware wraps a handler. Chains are applied first-to-last, so the first
// middleware sees the request first.
type Middleware func(http.Handler) http.Handler

func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// CORS allows any origin on the shop's fixed method and header lists, and
// exposes Authorization so clients can pick up rotated tokens.
func CORS() Middleware {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS", "PUT", "POST", "DELETE"},
		AllowedHeaders: []string{
			"Accept", "Accept-Language", "Content-Language", "Origin", "Content-Type", "Authorization",
		},
		ExposedHeaders: []string{"Authorization"},
	})
	return c.Handler
}

const requestIDHeader = "X-Request-ID"

// RequestLogger tags every request with an id and logs its outcome.
func RequestLogger(log logrus.FieldLogger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			entry := log.WithFields(logrus.Fields{
				"request_id": id,
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     rec.status,
				"duration":   time.Since(start).String(),
			})
			if rec.status >= http.StatusInternalServerError {
				entry.Error("request handled")
			} else {
				entry.Debug("request handled")
			}
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RateLimiter throttles requests per client address.
type RateLimiter struct {
	clients map[string]*client
	mu      sync.Mutex
	rate    rate.Limit
	burst   int
	log     logrus.FieldLogger
	now     func() time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(requestsPerSecond float64, burst int, log logrus.FieldLogger) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*client),
		rate:    rate.Limit(requestsPerSecond),
		burst:   burst,
		log:     log,
		now:     time.Now,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, exists := rl.clients[key]
	if !exists {
		c = &client{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = rl.now()
	return c.limiter
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientAddr(r)
		if !rl.getLimiter(key).Allow() {
			rl.log.WithFields(logrus.Fields{"client": key, "path": r.URL.Path}).Warn("rate limit exceeded")
			err := &domain.Error{Message: "too many requests", Code: http.StatusTooManyRequests}
			writeError(w, r, rl.log, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Cleanup drops clients not seen for idle and returns how many were removed.
func (rl *RateLimiter) Cleanup(idle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-idle)
	removed := 0
	for key, c := range rl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(rl.clients, key)
			removed++
		}
	}
	return removed
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := rl.Cleanup(idle); n > 0 {
					rl.log.WithField("removed", n).Debug("rate limiter cleanup")
				}
			}
		}
	}()
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

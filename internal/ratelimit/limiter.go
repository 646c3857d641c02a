// Package ratelimit throttles clients of the authentication routes with one
// token bucket per client ip.
package ratelimit

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/time/rate"

	"watttime-api/internal/audit"
	"watttime-api/internal/observability/metrics"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps a token bucket per key and evicts idle keys.
type Limiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	// trustProxy keys clients on forwarding headers instead of the peer.
	trustProxy bool

	mu      sync.Mutex
	clients map[string]*client
	started bool

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithTrustedProxy keys requests on X-Forwarded-For / X-Real-IP. Only safe
// when a proxy in front of the service overwrites those headers.
func WithTrustedProxy(trust bool) Option {
	return func(l *Limiter) { l.trustProxy = trust }
}

// New constructs a limiter allowing rps requests per second with burst.
// A non-positive rps disables limiting.
func New(rps float64, burst int, idleTTL time.Duration, opts ...Option) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	l := &Limiter{
		limit:   limit,
		burst:   burst,
		idleTTL: idleTTL,
		now:     time.Now,
		clients: make(map[string]*client),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether key may proceed and, if not, how long to wait.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	if l == nil || l.limit == rate.Inf {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	l.mu.Unlock()

	reservation := c.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, time.Second
	}
	delay := reservation.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	reservation.CancelAt(now)
	return false, delay
}

// Len returns the number of tracked clients.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Evict drops clients idle for longer than the idle TTL.
func (l *Limiter) Evict() {
	cutoff := l.now().Add(-l.idleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, key)
		}
	}
}

// Start runs the eviction loop until Close.
func (l *Limiter) Start(interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.mu.Unlock()
	go func() {
		defer close(l.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.Evict()
			case <-l.stop:
				return
			}
		}
	}()
}

// Close stops the eviction loop started by Start and waits for it.
func (l *Limiter) Close() {
	l.stopOnce.Do(func() {
		close(l.stop)
		l.mu.Lock()
		started := l.started
		l.mu.Unlock()
		if started {
			<-l.done
		}
	})
}

// Middleware throttles requests whose path is in paths.
func (l *Limiter) Middleware(next http.Handler, paths []string) http.Handler {
	limited := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		limited[p] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := limited[r.URL.Path]; !ok {
			next.ServeHTTP(w, r)
			return
		}
		ok, wait := l.Allow(l.clientKey(r))
		if ok {
			next.ServeHTTP(w, r)
			return
		}
		metrics.IncRateLimited(r.URL.Path)
		writeTooManyRequests(w, wait)
	})
}

// clientKey is the peer address unless forwarding headers are trusted.
func (l *Limiter) clientKey(r *http.Request) string {
	if l.trustProxy {
		return audit.ClientIP(r.Header.Get, r.RemoteAddr)
	}
	return audit.ClientIP(nil, r.RemoteAddr)
}

func writeTooManyRequests(w http.ResponseWriter, wait time.Duration) {
	seconds := int(math.Ceil(wait.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(huma.ErrorModel{
		Title:  http.StatusText(http.StatusTooManyRequests),
		Status: http.StatusTooManyRequests,
		Detail: "rate limit exceeded, retry later",
	})
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/MKhiriev/go-account-keeper/internal/logger"
)

// evictEvery is the number of Allow calls between idle-entry sweeps.
const evictEvery = 512

// keyLimiter applies a token bucket per key and periodically evicts idle
// entries. A nil *keyLimiter allows everything.
type keyLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu    sync.Mutex
	byKey map[string]*limiterEntry
	hits  uint64
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newKeyLimiter returns nil when rps or burst is not positive, which
// disables limiting.
func newKeyLimiter(rps float64, burst int, idleTTL time.Duration) *keyLimiter {
	if rps <= 0 || burst <= 0 {
		return nil
	}

	return &keyLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		byKey:   make(map[string]*limiterEntry),
	}
}

// Allow reports whether one more event for key may happen at now.
func (l *keyLimiter) Allow(key string, now time.Time) bool {
	if l == nil || key == "" {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.byKey[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byKey[key] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%evictEvery == 0 {
		cutoff := now.Add(-l.idleTTL)
		for k, v := range l.byKey {
			if v.lastSeen.Before(cutoff) {
				delete(l.byKey, k)
			}
		}
	}

	return allowed
}

func (l *keyLimiter) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byKey)
}

// withLoginRateLimit limits login attempts per client IP.
func (h *Handler) withLoginRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !h.loginLimiter.Allow(ip, time.Now()) {
			logger.FromRequest(r).Warn().
				Str("func", "*Handler.withLoginRateLimit").
				Str("ip", ip).
				Msg("login rate limit exceeded")
			w.Header().Set("Retry-After", "1")
			writeError(w, r, "*Handler.withLoginRateLimit", ErrTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP returns the host part of the connection's remote address.
// Forwarding headers are ignored since a client controls them.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

package handler

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

func limitOf(perSecond float64) rate.Limit {
	if perSecond <= 0 {
		return rate.Inf
	}
	return rate.Limit(perSecond)
}

func burstOf(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// limiterSet hands out one token bucket per key.
type limiterSet[K comparable] struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[K]*rate.Limiter
}

func newLimiterSet[K comparable](limit rate.Limit, burst int) *limiterSet[K] {
	return &limiterSet[K]{limit: limit, burst: burst, limiters: make(map[K]*rate.Limiter)}
}

func (s *limiterSet[K]) allow(key K) bool {
	if s.limit == rate.Inf {
		return true
	}
	s.mu.Lock()
	l, ok := s.limiters[key]
	if !ok {
		l = rate.NewLimiter(s.limit, s.burst)
		s.limiters[key] = l
	}
	s.mu.Unlock()
	return l.Allow()
}

// clientIP is the host part of the request's remote address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

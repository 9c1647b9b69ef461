package util

import (
	"sync"

	"golang.org/x/time/rate"
)

// Limiter is a token bucket.
type Limiter struct {
	inner *rate.Limiter
}

// NewLimiter refills perSecond tokens a second up to burst.
func NewLimiter(perSecond float64, burst int) *Limiter {
	return &Limiter{inner: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (l *Limiter) Allow() bool {
	return l.inner.Allow()
}

// KeyedLimiter hands out an independent Limiter per key, created on first
// use. The key set is expected to be small and fixed, so entries are never
// evicted.
type KeyedLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*Limiter
	perSecond float64
	burst     int
}

func NewKeyedLimiter(perSecond float64, burst int) *KeyedLimiter {
	return &KeyedLimiter{
		limiters:  make(map[string]*Limiter),
		perSecond: perSecond,
		burst:     burst,
	}
}

func (k *KeyedLimiter) Get(key string) *Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	l, ok := k.limiters[key]
	if !ok {
		l = NewLimiter(k.perSecond, k.burst)
		k.limiters[key] = l
	}
	return l
}

func (k *KeyedLimiter) Allow(key string) bool {
	return k.Get(key).Allow()
}

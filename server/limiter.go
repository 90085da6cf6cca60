package server

import (
	"time"

	"github.com/bluele/gcache"
	"golang.org/x/time/rate"
)

const limiterCacheSize = 1000

// ipRateLimiter throttles connection attempts per client IP. Limiters
// are kept in an LRU cache so an address churn cannot grow memory
// without bound. A non-positive rate disables limiting entirely.
type ipRateLimiter struct {
	cache gcache.Cache
	r     rate.Limit
	b     int
}

func newIPRateLimiter(r rate.Limit, b int) *ipRateLimiter {
	return &ipRateLimiter{
		cache: gcache.New(limiterCacheSize).LRU().Build(),
		r:     r,
		b:     b,
	}
}

func (i *ipRateLimiter) allow(ip string) bool {
	if i.r <= 0 {
		return true
	}
	return i.getLimiter(ip).Allow()
}

func (i *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	if v, err := i.cache.Get(ip); err == nil {
		return v.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(i.r, i.b)
	i.cache.SetWithExpire(ip, limiter, 24*time.Hour)
	return limiter
}

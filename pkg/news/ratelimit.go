package news

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// windowLimiter caps requests per key over a rolling window. Allow is
// checked before a request goes out; an exhausted budget fails fast
// instead of blocking.
type windowLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	requests int
	window   time.Duration
}

func newWindowLimiter(requests int, window time.Duration) *windowLimiter {
	return &windowLimiter{
		limiters: make(map[string]*rate.Limiter),
		requests: requests,
		window:   window,
	}
}

func (w *windowLimiter) allow(key string) bool {
	w.mu.Lock()
	limiter, ok := w.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(w.window/time.Duration(w.requests)), w.requests)
		w.limiters[key] = limiter
	}
	w.mu.Unlock()

	return limiter.Allow()
}

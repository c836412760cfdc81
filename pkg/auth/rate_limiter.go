package auth

import (
	"context"
	"sync"
	"time"
)

// RateLimiter limits request rates per key
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// SlidingWindowLimiter implements a sliding-window rate limiter
type SlidingWindowLimiter struct {
	limit      int
	windowSize time.Duration
	windows    map[string]*window
	mu         sync.Mutex
}

type window struct {
	timestamps []time.Time
}

// NewSlidingWindowLimiter creates a sliding window rate limiter
func NewSlidingWindowLimiter(limit int, windowSize time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		limit:      limit,
		windowSize: windowSize,
		windows:    make(map[string]*window),
	}
}

// Allow checks whether a request for the key is within the limit
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-l.windowSize)

	w, exists := l.windows[key]
	if !exists {
		w = &window{}
		l.windows[key] = w
	}

	// Drop timestamps outside the window
	kept := w.timestamps[:0]
	for _, ts := range w.timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	w.timestamps = kept

	if len(w.timestamps) >= l.limit {
		return false, nil
	}

	w.timestamps = append(w.timestamps, now)
	return true, nil
}

// Reset clears the window for a key
func (l *SlidingWindowLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
	return nil
}

// IPRateLimiter limits requests per client IP
type IPRateLimiter struct {
	limiter *SlidingWindowLimiter
}

// NewIPRateLimiter creates an IP rate limiter
func NewIPRateLimiter(requestsPerMinute int) *IPRateLimiter {
	return &IPRateLimiter{
		limiter: NewSlidingWindowLimiter(requestsPerMinute, time.Minute),
	}
}

// Allow checks whether the IP is within its limit
func (l *IPRateLimiter) Allow(ctx context.Context, ip string) (bool, error) {
	return l.limiter.Allow(ctx, "ip:"+ip)
}

// UserRateLimiter limits requests per authenticated user
type UserRateLimiter struct {
	limiter *SlidingWindowLimiter
}

// NewUserRateLimiter creates a user rate limiter
func NewUserRateLimiter(requestsPerMinute int) *UserRateLimiter {
	return &UserRateLimiter{
		limiter: NewSlidingWindowLimiter(requestsPerMinute, time.Minute),
	}
}

// Allow checks whether the user is within their limit
func (l *UserRateLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	return l.limiter.Allow(ctx, "user:"+userID)
}

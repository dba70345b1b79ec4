package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// minBucketSize keeps bursts large enough for the sampled hash windows and
// buffered full-hash reads to go through in one piece.
const minBucketSize = 64 * 1024

// Limiter is a token bucket shared by every file it throttles
type Limiter struct {
	bytesPerSecond int64
	mu             sync.Mutex
	tokens         int64     // available bytes
	lastUpdate     time.Time // last refill
	bucketSize     int64     // burst size
}

// NewLimiter creates a limiter capping reads to bytesPerSecond.
// A rate of zero or less returns nil, meaning unlimited.
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}

	// One second worth of data, never less than minBucketSize
	bucketSize := bytesPerSecond
	if bucketSize < minBucketSize {
		bucketSize = minBucketSize
	}

	return &Limiter{
		bytesPerSecond: bytesPerSecond,
		tokens:         bucketSize,
		lastUpdate:     time.Now(),
		bucketSize:     bucketSize,
	}
}

// ParseRate parses a human readable rate such as "10MB" or "512KiB" into
// bytes per second. An empty string or "0" means unlimited.
func ParseRate(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	s = strings.TrimSuffix(strings.TrimSuffix(s, "/s"), "ps")

	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid read rate %q: %w", s, err)
	}
	if n > 1<<62 {
		return 0, fmt.Errorf("read rate %q is too large", s)
	}
	return int64(n), nil
}

// BytesPerSecond returns the configured rate
func (l *Limiter) BytesPerSecond() int64 {
	if l == nil {
		return 0
	}
	return l.bytesPerSecond
}

// String formats the rate for logs
func (l *Limiter) String() string {
	if l == nil {
		return "unlimited"
	}
	return humanize.IBytes(uint64(l.bytesPerSecond)) + "/s"
}

// chunk caps a read request to what a single reservation can cover
func (l *Limiter) chunk(n int) int {
	if int64(n) > l.bucketSize {
		return int(l.bucketSize)
	}
	return n
}

// reserve blocks until n bytes are available and takes them from the bucket.
// n must not exceed the bucket size.
func (l *Limiter) reserve(ctx context.Context, n int64) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		l.mu.Lock()
		l.refillTokens()
		if l.tokens >= n {
			l.tokens -= n
			l.mu.Unlock()
			return nil
		}
		deficit := n - l.tokens
		l.mu.Unlock()

		wait := time.Duration(float64(deficit) / float64(l.bytesPerSecond) * float64(time.Second))
		if wait < time.Millisecond {
			wait = time.Millisecond
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// release returns bytes reserved but not read
func (l *Limiter) release(n int64) {
	if n <= 0 {
		return
	}
	l.mu.Lock()
	l.tokens += n
	if l.tokens > l.bucketSize {
		l.tokens = l.bucketSize
	}
	l.mu.Unlock()
}

// refillTokens adds tokens for the time elapsed since the last refill.
// Must be called with the lock held.
func (l *Limiter) refillTokens() {
	now := time.Now()
	elapsed := now.Sub(l.lastUpdate)
	l.lastUpdate = now

	l.tokens += int64(elapsed.Seconds() * float64(l.bytesPerSecond))
	if l.tokens > l.bucketSize {
		l.tokens = l.bucketSize
	}
}

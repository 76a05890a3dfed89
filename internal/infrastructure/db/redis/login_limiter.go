package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter counts failed logins per email in Redis.
// Key format: login:failures:<email>
//
// The window starts at the first failure and is not extended by later ones.
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter creates a LoginLimiter that locks an email after
// maxAttempts failures within window.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// Allow reports whether another attempt is permitted for email.
func (l *LoginLimiter) Allow(ctx context.Context, email string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(email)).Int()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("login limiter check: %w", err)
	}
	return n < l.maxAttempts, nil
}

// RecordFailure increments the failure counter, starting the window on the
// first failure.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) error {
	key := l.key(email)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("login limiter record: %w", err)
	}
	return nil
}

// Reset clears the failure counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	if err := l.client.Del(ctx, l.key(email)).Err(); err != nil {
		return fmt.Errorf("login limiter reset: %w", err)
	}
	return nil
}

func (l *LoginLimiter) key(email string) string {
	return "login:failures:" + email
}

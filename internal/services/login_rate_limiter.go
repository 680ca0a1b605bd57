package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BradenHooton/quill/internal/cache"
	"github.com/BradenHooton/quill/internal/models"
)

const loginKeyPrefix = "login:"

// LoginRateLimitConfig holds the fixed-window login limits
type LoginRateLimitConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// LoginRateLimiter counts every login attempt per client key, successful or
// not, and rejects once the window's allowance is used up.
type LoginRateLimiter struct {
	counter cache.AttemptCounter
	config  LoginRateLimitConfig
	logger  *slog.Logger
}

// NewLoginRateLimiter creates a new LoginRateLimiter
func NewLoginRateLimiter(counter cache.AttemptCounter, config LoginRateLimitConfig, logger *slog.Logger) *LoginRateLimiter {
	return &LoginRateLimiter{
		counter: counter,
		config:  config,
		logger:  logger,
	}
}

// RecordAttempt increments the counter for clientKey and returns
// ErrRateLimitExceeded when the attempt exceeds the allowance. Counter
// failures are returned as errors so callers fail closed.
func (l *LoginRateLimiter) RecordAttempt(ctx context.Context, clientKey string) error {
	count, err := l.counter.Increment(ctx, loginKeyPrefix+clientKey, l.config.Window)
	if err != nil {
		return fmt.Errorf("failed to record login attempt: %w", err)
	}

	if count > l.config.MaxAttempts {
		l.logger.Warn("login rate limit exceeded",
			slog.String("client_ip", clientKey),
			slog.Int("attempts", count),
		)
		return models.ErrRateLimitExceeded
	}

	return nil
}

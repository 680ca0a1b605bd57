package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BradenHooton/quill/internal/cache"
	"github.com/BradenHooton/quill/internal/metrics"
	"github.com/BradenHooton/quill/internal/models"
	"github.com/BradenHooton/quill/pkg/auth"
)

// resetTokenBytes yields a 160-bit token, 40 hex characters
const resetTokenBytes = 20

const resetKeyPrefix = "reset:"

// ResetTokenCache maps one-time password reset tokens to the email they
// authorize. Issue performs no account lookup.
type ResetTokenCache struct {
	store  cache.ExpiringStore
	ttl    time.Duration
	logger *slog.Logger
}

// NewResetTokenCache creates a new ResetTokenCache
func NewResetTokenCache(store cache.ExpiringStore, ttl time.Duration, logger *slog.Logger) *ResetTokenCache {
	return &ResetTokenCache{
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// Issue stores a fresh random token for email and returns it.
func (c *ResetTokenCache) Issue(ctx context.Context, email string) (string, error) {
	token, err := auth.RandomHex(resetTokenBytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	if err := c.store.Put(ctx, resetKeyPrefix+token, email, c.ttl); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	metrics.RecordResetToken(metrics.ResetTokenIssued)
	return token, nil
}

// Consume atomically removes token and returns its email. Unknown, expired,
// and already used tokens all yield ErrInvalidToken.
func (c *ResetTokenCache) Consume(ctx context.Context, token string) (string, error) {
	if token == "" {
		metrics.RecordResetToken(metrics.ResetTokenRejected)
		return "", models.ErrInvalidToken
	}

	email, ok, err := c.store.Consume(ctx, resetKeyPrefix+token)
	if err != nil {
		return "", fmt.Errorf("failed to consume reset token: %w", err)
	}
	if !ok {
		metrics.RecordResetToken(metrics.ResetTokenRejected)
		return "", models.ErrInvalidToken
	}

	metrics.RecordResetToken(metrics.ResetTokenConsumed)
	return email, nil
}

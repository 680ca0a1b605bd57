package services

import (
	"context"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/BradenHooton/quill/internal/cache"
	"github.com/BradenHooton/quill/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexToken = regexp.MustCompile(`^[0-9a-f]{40}$`)

func TestResetTokenCache_IssueConsume(t *testing.T) {
	ctx := context.Background()
	tokens := NewResetTokenCache(cache.NewMemoryStore(), time.Hour, testLogger())

	token, err := tokens.Issue(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Regexp(t, hexToken, token)

	email, err := tokens.Consume(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)

	_, err = tokens.Consume(ctx, token)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestResetTokenCache_UnissuedToken(t *testing.T) {
	tokens := NewResetTokenCache(cache.NewMemoryStore(), time.Hour, testLogger())

	_, err := tokens.Consume(context.Background(), "0123456789abcdef0123456789abcdef01234567")
	assert.ErrorIs(t, err, models.ErrInvalidToken)

	_, err = tokens.Consume(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestResetTokenCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	store := cache.NewMemoryStore()
	store.SetClock(func() time.Time { return now })
	tokens := NewResetTokenCache(store, time.Hour, testLogger())

	token, err := tokens.Issue(ctx, "a@x.com")
	require.NoError(t, err)

	now = now.Add(time.Hour + time.Second)
	_, err = tokens.Consume(ctx, token)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestResetTokenCache_TokensAreDistinct(t *testing.T) {
	tokens := NewResetTokenCache(cache.NewMemoryStore(), time.Hour, testLogger())

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		token, err := tokens.Issue(context.Background(), "a@x.com")
		require.NoError(t, err)
		assert.False(t, seen[token])
		seen[token] = true
	}
}

func TestResetTokenCache_ConcurrentConsume(t *testing.T) {
	ctx := context.Background()
	tokens := NewResetTokenCache(cache.NewMemoryStore(), time.Hour, testLogger())
	token, err := tokens.Issue(ctx, "a@x.com")
	require.NoError(t, err)

	var successes atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := tokens.Consume(ctx, token); err == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
}

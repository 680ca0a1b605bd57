package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BradenHooton/quill/internal/database"
	"github.com/jackc/pgx/v5"
)

// PostgresStore is an ExpiringStore on the cache_entries table. Expiry is
// evaluated against the database clock so that all instances agree.
type PostgresStore struct {
	db database.Querier
}

func NewPostgresStore(db database.Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	query := `
		INSERT INTO cache_entries (key, value, expires_at)
		VALUES ($1, $2, now() + ($3 * interval '1 millisecond'))
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at
	`

	if _, err := s.db.Exec(ctx, query, key, value, ttl.Milliseconds()); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Consume deletes and returns the entry in a single statement, so two
// concurrent callers cannot both observe it.
func (s *PostgresStore) Consume(ctx context.Context, key string) (string, bool, error) {
	query := `
		DELETE FROM cache_entries
		WHERE key = $1 AND expires_at > now()
		RETURNING value
	`

	var value string
	err := s.db.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to consume cache entry: %w", err)
	}
	return value, true, nil
}

func (s *PostgresStore) Sweep(ctx context.Context) (int, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM cache_entries WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep cache entries: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// PostgresCounter is an AttemptCounter on the attempt_counters table.
type PostgresCounter struct {
	db database.Querier
}

func NewPostgresCounter(db database.Querier) *PostgresCounter {
	return &PostgresCounter{db: db}
}

// Increment upserts the counter row. An elapsed window is reset to one in
// the same statement, so concurrent increments never lose updates.
func (c *PostgresCounter) Increment(ctx context.Context, key string, window time.Duration) (int, error) {
	query := `
		INSERT INTO attempt_counters (key, count, window_start, expires_at)
		VALUES ($1, 1, now(), now() + ($2 * interval '1 millisecond'))
		ON CONFLICT (key) DO UPDATE SET
			count = CASE WHEN attempt_counters.expires_at <= now()
				THEN 1 ELSE attempt_counters.count + 1 END,
			window_start = CASE WHEN attempt_counters.expires_at <= now()
				THEN now() ELSE attempt_counters.window_start END,
			expires_at = CASE WHEN attempt_counters.expires_at <= now()
				THEN EXCLUDED.expires_at ELSE attempt_counters.expires_at END
		RETURNING count
	`

	var count int
	if err := c.db.QueryRow(ctx, query, key, window.Milliseconds()).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to increment attempt counter: %w", err)
	}
	return count, nil
}

func (c *PostgresCounter) Sweep(ctx context.Context) (int, error) {
	tag, err := c.db.Exec(ctx, `DELETE FROM attempt_counters WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep attempt counters: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

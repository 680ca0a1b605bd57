package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/BradenHooton/quill/internal/database"
	"github.com/BradenHooton/quill/internal/models"
	"github.com/jackc/pgx/v5"
)

const postColumns = `id, title, content, author_id, created_at, updated_at`

// PostRepository stores blog posts. Author-scoped operations match on both
// the post id and the author id, so a foreign post looks like a missing one.
type PostRepository struct {
	db database.Querier
}

func NewPostRepository(db database.Querier) *PostRepository {
	return &PostRepository{db: db}
}

func scanPostRow(scanner rowScanner) (*models.Post, error) {
	var post models.Post

	err := scanner.Scan(
		&post.ID, &post.Title, &post.Content, &post.AuthorID,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &post, nil
}

func scanPostRows(rows pgx.Rows) ([]*models.Post, error) {
	defer rows.Close()

	posts := make([]*models.Post, 0)

	for rows.Next() {
		post, err := scanPostRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return posts, nil
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	query := `
		INSERT INTO posts (id, title, content, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + postColumns

	return scanPostRow(r.db.QueryRow(ctx, query,
		post.ID, post.Title, post.Content, post.AuthorID, post.CreatedAt, post.UpdatedAt,
	))
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	return scanPostRow(r.db.QueryRow(ctx, query, id))
}

func (r *PostRepository) List(ctx context.Context) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}

	return scanPostRows(rows)
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE author_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}

	return scanPostRows(rows)
}

func (r *PostRepository) UpdateByAuthor(ctx context.Context, id, authorID, title, content string) (*models.Post, error) {
	query := `
		UPDATE posts SET title = $1, content = $2, updated_at = $3
		WHERE id = $4 AND author_id = $5
		RETURNING ` + postColumns

	return scanPostRow(r.db.QueryRow(ctx, query, title, content, time.Now().UTC(), id, authorID))
}

func (r *PostRepository) DeleteByAuthor(ctx context.Context, id, authorID string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1 AND author_id = $2`, id, authorID)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/BradenHooton/quill/internal/models"
	"github.com/google/uuid"
)

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error)
	UpdateByAuthor(ctx context.Context, id, authorID, title, content string) (*models.Post, error)
	DeleteByAuthor(ctx context.Context, id, authorID string) error
	Delete(ctx context.Context, id string) error
}

// PostInput carries the writable fields of a post
type PostInput struct {
	Title   string
	Content string
}

func (in PostInput) validate() error {
	vErr := &models.ValidationError{}
	if strings.TrimSpace(in.Title) == "" {
		vErr.Add("title", "is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		vErr.Add("content", "is required")
	}
	return vErr.OrNil()
}

// ContentService handles post business logic
type ContentService struct {
	repo   PostRepository
	logger *slog.Logger
}

// NewContentService creates a new ContentService
func NewContentService(repo PostRepository, logger *slog.Logger) *ContentService {
	return &ContentService{
		repo:   repo,
		logger: logger,
	}
}

// CreatePost stores a post owned by authorID
func (s *ContentService) CreatePost(ctx context.Context, authorID string, in PostInput) (*models.Post, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	post, err := s.repo.Create(ctx, &models.Post{
		ID:       uuid.New().String(),
		Title:    in.Title,
		Content:  in.Content,
		AuthorID: authorID,
	})
	if err != nil {
		s.logger.Error("failed to create post", slog.String("author_id", authorID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("post created", slog.String("post_id", post.ID), slog.String("author_id", authorID))
	return post, nil
}

// ListPosts retrieves every post
func (s *ContentService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list posts", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return posts, nil
}

// ListPostsByAuthor retrieves the posts owned by authorID
func (s *ContentService) ListPostsByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	posts, err := s.repo.ListByAuthor(ctx, authorID)
	if err != nil {
		s.logger.Error("failed to list posts", slog.String("author_id", authorID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return posts, nil
}

// GetPost retrieves a post by ID
func (s *ContentService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	if !validID(id) {
		return nil, models.ErrNotFound
	}

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapError("get post", id, err)
	}
	return post, nil
}

// UpdateOwnPost replaces title and content of a post owned by authorID.
// Posts of other authors are reported as not found.
func (s *ContentService) UpdateOwnPost(ctx context.Context, authorID, id string, in PostInput) (*models.Post, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, models.ErrNotFound
	}

	post, err := s.repo.UpdateByAuthor(ctx, id, authorID, in.Title, in.Content)
	if err != nil {
		return nil, s.mapError("update post", id, err)
	}

	s.logger.Info("post updated", slog.String("post_id", id))
	return post, nil
}

// DeleteOwnPost deletes a post owned by authorID
func (s *ContentService) DeleteOwnPost(ctx context.Context, authorID, id string) error {
	if !validID(id) {
		return models.ErrNotFound
	}

	if err := s.repo.DeleteByAuthor(ctx, id, authorID); err != nil {
		return s.mapError("delete post", id, err)
	}

	s.logger.Info("post deleted", slog.String("post_id", id))
	return nil
}

// DeletePost deletes any post
func (s *ContentService) DeletePost(ctx context.Context, id string) error {
	if !validID(id) {
		return models.ErrNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapError("delete post", id, err)
	}

	s.logger.Info("post deleted by moderator", slog.String("post_id", id))
	return nil
}

func (s *ContentService) mapError(op, id string, err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return models.ErrNotFound
	}
	s.logger.Error("failed to "+op, slog.String("post_id", id), slog.Any("error", err))
	return models.ErrInternalServer
}

// validID reports whether id is a UUID; anything else cannot name a row.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

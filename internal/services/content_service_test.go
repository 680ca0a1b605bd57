package services

import (
	"context"
	"errors"
	"testing"

	"github.com/BradenHooton/quill/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPostID   = "0f8fad5b-d9cb-469f-a165-70867728950e"
	testAuthorID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
)

func TestContentService_CreatePost(t *testing.T) {
	svc := NewContentService(&MockPostRepository{}, testLogger())

	post, err := svc.CreatePost(context.Background(), testAuthorID, PostInput{Title: "Hello", Content: "World"})
	require.NoError(t, err)
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, testAuthorID, post.AuthorID)
	assert.Equal(t, "Hello", post.Title)
}

func TestContentService_CreatePost_Validation(t *testing.T) {
	repo := &MockPostRepository{
		CreateFunc: func(ctx context.Context, post *models.Post) (*models.Post, error) {
			t.Fatal("invalid post must not be stored")
			return nil, nil
		},
	}
	svc := NewContentService(repo, testLogger())

	_, err := svc.CreatePost(context.Background(), testAuthorID, PostInput{Title: " ", Content: ""})

	var vErr *models.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Len(t, vErr.Fields, 2)
}

func TestContentService_GetPost(t *testing.T) {
	repo := &MockPostRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Post, error) {
			if id == testPostID {
				return &models.Post{ID: id}, nil
			}
			return nil, models.ErrNotFound
		},
	}
	svc := NewContentService(repo, testLogger())

	post, err := svc.GetPost(context.Background(), testPostID)
	require.NoError(t, err)
	assert.Equal(t, testPostID, post.ID)

	_, err = svc.GetPost(context.Background(), "a3bb189e-8bf9-3888-9912-ace4e6543002")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.GetPost(context.Background(), "42")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestContentService_UpdateOwnPost(t *testing.T) {
	repo := &MockPostRepository{
		UpdateByAuthorFunc: func(ctx context.Context, id, authorID, title, content string) (*models.Post, error) {
			if authorID != testAuthorID {
				return nil, models.ErrNotFound
			}
			return &models.Post{ID: id, AuthorID: authorID, Title: title, Content: content}, nil
		},
	}
	svc := NewContentService(repo, testLogger())

	post, err := svc.UpdateOwnPost(context.Background(), testAuthorID, testPostID, PostInput{Title: "T2", Content: "C2"})
	require.NoError(t, err)
	assert.Equal(t, "T2", post.Title)

	_, err = svc.UpdateOwnPost(context.Background(), "someone-else", testPostID, PostInput{Title: "T2", Content: "C2"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestContentService_DeleteOwnPost(t *testing.T) {
	repo := &MockPostRepository{
		DeleteByAuthorFunc: func(ctx context.Context, id, authorID string) error {
			if authorID != testAuthorID {
				return models.ErrNotFound
			}
			return nil
		},
	}
	svc := NewContentService(repo, testLogger())

	assert.NoError(t, svc.DeleteOwnPost(context.Background(), testAuthorID, testPostID))
	assert.ErrorIs(t, svc.DeleteOwnPost(context.Background(), "someone-else", testPostID), models.ErrNotFound)
}

func TestContentService_DeletePost_RepositoryFailure(t *testing.T) {
	repo := &MockPostRepository{
		DeleteFunc: func(ctx context.Context, id string) error {
			return errors.New("deadlock")
		},
	}
	svc := NewContentService(repo, testLogger())

	assert.ErrorIs(t, svc.DeletePost(context.Background(), testPostID), models.ErrInternalServer)
}

func TestContentService_ListPostsByAuthor(t *testing.T) {
	repo := &MockPostRepository{
		ListByAuthorFunc: func(ctx context.Context, authorID string) ([]*models.Post, error) {
			assert.Equal(t, testAuthorID, authorID)
			return []*models.Post{}, nil
		},
	}

	posts, err := NewContentService(repo, testLogger()).ListPostsByAuthor(context.Background(), testAuthorID)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

package services

import (
	"context"
	"sync"
	"time"

	"github.com/BradenHooton/quill/internal/models"
	"github.com/BradenHooton/quill/pkg/auth"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	CreateFunc                  func(ctx context.Context, user *models.User) (*models.User, error)
	GetByIDFunc                 func(ctx context.Context, id string) (*models.User, error)
	GetByUsernameFunc           func(ctx context.Context, username string) (*models.User, error)
	GetByEmailFunc              func(ctx context.Context, email string) (*models.User, error)
	ExistsByUsernameOrEmailFunc func(ctx context.Context, username, email string) (bool, error)
	UpdatePasswordFunc          func(ctx context.Context, id, passwordHash string) error
	ListFunc                    func(ctx context.Context) ([]*models.User, error)
	ListByRoleFunc              func(ctx context.Context, role models.Role) ([]*models.User, error)
	DeleteFunc                  func(ctx context.Context, id string) error
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	if m.ExistsByUsernameOrEmailFunc != nil {
		return m.ExistsByUsernameOrEmailFunc(ctx, username, email)
	}
	return false, nil
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) ListByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	if m.ListByRoleFunc != nil {
		return m.ListByRoleFunc(ctx, role)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockPostRepository implements PostRepository for testing
type MockPostRepository struct {
	CreateFunc         func(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByIDFunc        func(ctx context.Context, id string) (*models.Post, error)
	ListFunc           func(ctx context.Context) ([]*models.Post, error)
	ListByAuthorFunc   func(ctx context.Context, authorID string) ([]*models.Post, error)
	UpdateByAuthorFunc func(ctx context.Context, id, authorID, title, content string) (*models.Post, error)
	DeleteByAuthorFunc func(ctx context.Context, id, authorID string) error
	DeleteFunc         func(ctx context.Context, id string) error
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, post)
	}
	return post, nil
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.Post{}, nil
}

func (m *MockPostRepository) ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	if m.ListByAuthorFunc != nil {
		return m.ListByAuthorFunc(ctx, authorID)
	}
	return []*models.Post{}, nil
}

func (m *MockPostRepository) UpdateByAuthor(ctx context.Context, id, authorID, title, content string) (*models.Post, error) {
	if m.UpdateByAuthorFunc != nil {
		return m.UpdateByAuthorFunc(ctx, id, authorID, title, content)
	}
	return nil, models.ErrNotFound
}

func (m *MockPostRepository) DeleteByAuthor(ctx context.Context, id, authorID string) error {
	if m.DeleteByAuthorFunc != nil {
		return m.DeleteByAuthorFunc(ctx, id, authorID)
	}
	return models.ErrNotFound
}

func (m *MockPostRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return models.ErrNotFound
}

// MockResetNotifier records delivered tokens
type MockResetNotifier struct {
	mu   sync.Mutex
	Sent map[string]string
	Err  error
}

func (m *MockResetNotifier) SendResetToken(_ context.Context, email, token string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Sent == nil {
		m.Sent = make(map[string]string)
	}
	m.Sent[email] = token
	return m.Err
}

// NewTestUser creates a user whose hash matches password
func NewTestUser(id, username, email string, role models.Role, password string) *models.User {
	hash, err := auth.HashPassword(password)
	if err != nil {
		panic(err)
	}
	now := time.Now()
	return &models.User{
		ID:           id,
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

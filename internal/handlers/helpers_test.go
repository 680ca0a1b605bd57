package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/quill/internal/auth"
	"github.com/BradenHooton/quill/internal/models"
	"github.com/BradenHooton/quill/internal/services"
	pkghttp "github.com/BradenHooton/quill/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithPrincipal attaches an authenticated principal to the request context
func WithPrincipal(req *http.Request, userID string, role models.Role) *http.Request {
	return req.WithContext(auth.WithPrincipal(req.Context(), &models.Principal{UserID: userID, Role: role}))
}

// WithURLParams sets chi route parameters on the request
func WithURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	RegisterFunc             func(ctx context.Context, in services.RegisterInput) (*models.User, error)
	LoginFunc                func(ctx context.Context, clientKey, username, password string) (*services.LoginResult, error)
	RefreshFunc              func(ctx context.Context, refreshToken string) (string, *models.Principal, error)
	LogoutFunc               func(ctx context.Context, refreshToken string) error
	RequestPasswordResetFunc func(ctx context.Context, email string) (string, error)
	ResetPasswordFunc        func(ctx context.Context, token, newPassword string) error
}

func (m *MockAuthService) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	if m.RegisterFunc == nil {
		return nil, models.ErrConflict
	}
	return m.RegisterFunc(ctx, in)
}

func (m *MockAuthService) Login(ctx context.Context, clientKey, username, password string) (*services.LoginResult, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.LoginFunc(ctx, clientKey, username, password)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (string, *models.Principal, error) {
	if m.RefreshFunc == nil {
		return "", nil, models.ErrForbidden
	}
	return m.RefreshFunc(ctx, refreshToken)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	if m.LogoutFunc == nil {
		return nil
	}
	return m.LogoutFunc(ctx, refreshToken)
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if m.RequestPasswordResetFunc == nil {
		return "token", nil
	}
	return m.RequestPasswordResetFunc(ctx, email)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if m.ResetPasswordFunc == nil {
		return models.ErrInvalidToken
	}
	return m.ResetPasswordFunc(ctx, token, newPassword)
}

// MockContentService implements ContentServiceInterface for testing
type MockContentService struct {
	CreatePostFunc        func(ctx context.Context, authorID string, in services.PostInput) (*models.Post, error)
	ListPostsFunc         func(ctx context.Context) ([]*models.Post, error)
	ListPostsByAuthorFunc func(ctx context.Context, authorID string) ([]*models.Post, error)
	GetPostFunc           func(ctx context.Context, id string) (*models.Post, error)
	UpdateOwnPostFunc     func(ctx context.Context, authorID, id string, in services.PostInput) (*models.Post, error)
	DeleteOwnPostFunc     func(ctx context.Context, authorID, id string) error
	DeletePostFunc        func(ctx context.Context, id string) error
}

func (m *MockContentService) CreatePost(ctx context.Context, authorID string, in services.PostInput) (*models.Post, error) {
	if m.CreatePostFunc == nil {
		return &models.Post{ID: "p1", Title: in.Title, Content: in.Content, AuthorID: authorID}, nil
	}
	return m.CreatePostFunc(ctx, authorID, in)
}

func (m *MockContentService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	if m.ListPostsFunc == nil {
		return []*models.Post{}, nil
	}
	return m.ListPostsFunc(ctx)
}

func (m *MockContentService) ListPostsByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	if m.ListPostsByAuthorFunc == nil {
		return []*models.Post{}, nil
	}
	return m.ListPostsByAuthorFunc(ctx, authorID)
}

func (m *MockContentService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	if m.GetPostFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetPostFunc(ctx, id)
}

func (m *MockContentService) UpdateOwnPost(ctx context.Context, authorID, id string, in services.PostInput) (*models.Post, error) {
	if m.UpdateOwnPostFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateOwnPostFunc(ctx, authorID, id, in)
}

func (m *MockContentService) DeleteOwnPost(ctx context.Context, authorID, id string) error {
	if m.DeleteOwnPostFunc == nil {
		return models.ErrNotFound
	}
	return m.DeleteOwnPostFunc(ctx, authorID, id)
}

func (m *MockContentService) DeletePost(ctx context.Context, id string) error {
	if m.DeletePostFunc == nil {
		return models.ErrNotFound
	}
	return m.DeletePostFunc(ctx, id)
}

// MockUserService implements UserServiceInterface for testing
type MockUserService struct {
	ListUsersFunc    func(ctx context.Context) ([]*models.User, error)
	ListBloggersFunc func(ctx context.Context) ([]*models.User, error)
	DeleteUserFunc   func(ctx context.Context, actorID, id string) error
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	if m.ListUsersFunc == nil {
		return []*models.User{}, nil
	}
	return m.ListUsersFunc(ctx)
}

func (m *MockUserService) ListBloggers(ctx context.Context) ([]*models.User, error) {
	if m.ListBloggersFunc == nil {
		return []*models.User{}, nil
	}
	return m.ListBloggersFunc(ctx)
}

func (m *MockUserService) DeleteUser(ctx context.Context, actorID, id string) error {
	if m.DeleteUserFunc == nil {
		return models.ErrNotFound
	}
	return m.DeleteUserFunc(ctx, actorID, id)
}

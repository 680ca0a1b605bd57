package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BradenHooton/quill/internal/auth"
	"github.com/BradenHooton/quill/internal/handlers"
	"github.com/BradenHooton/quill/internal/models"
	"github.com/BradenHooton/quill/internal/services"
	pkghttp "github.com/BradenHooton/quill/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCookieConfig = auth.CookieConfig{Secure: true, SameSite: "strict"}

func newAuthHandler(svc handlers.AuthServiceInterface) *handlers.AuthHandler {
	return handlers.NewAuthHandler(svc, &pkghttp.IPConfig{}, testCookieConfig)
}

func refreshCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.RefreshTokenCookieName {
			return c
		}
	}
	return nil
}

func TestRegister_Success(t *testing.T) {
	var got services.RegisterInput
	mockAuth := &handlers.MockAuthService{
		RegisterFunc: func(ctx context.Context, in services.RegisterInput) (*models.User, error) {
			got = in
			return &models.User{ID: "u1"}, nil
		},
	}

	req := handlers.NewTestRequest(t, http.MethodPost, "/auth/register", handlers.RegisterRequest{
		Email: "a@x.com", Username: "alice01", Password: "Passw0rd1", Role: "blogger",
	})
	w := httptest.NewRecorder()
	newAuthHandler(mockAuth).Register(w, req)

	var resp handlers.MessageResponse
	handlers.AssertJSONResponse(t, w, http.StatusCreated, &resp)
	assert.NotEmpty(t, resp.Message)
	assert.Equal(t, "alice01", got.Username)
	assert.Equal(t, "blogger", got.Role)
}

func TestRegister_Conflict(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		RegisterFunc: func(ctx context.Context, in services.RegisterInput) (*models.User, error) {
			return nil, models.ErrConflict
		},
	}

	req := handlers.NewTestRequest(t, http.MethodPost, "/auth/register", handlers.RegisterRequest{
		Email: "a@x.com", Username: "alice01", Password: "Passw0rd1", Role: "blogger",
	})
	w := httptest.NewRecorder()
	newAuthHandler(mockAuth).Register(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "conflict")
}

func TestRegister_ValidationError(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		RegisterFunc: func(ctx context.Context, in services.RegisterInput) (*models.User, error) {
			vErr := &models.ValidationError{}
			vErr.Add("username", "must be at least 5 characters")
			return nil, vErr
		},
	}

	req := handlers.NewTestRequest(t, http.MethodPost, "/auth/register", handlers.RegisterRequest{
		Email: "a@x.com", Username: "al", Password: "Passw0rd1", Role: "blogger",
	})
	w := httptest.NewRecorder()
	newAuthHandler(mockAuth).Register(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "validation_failed")
}

func TestRegister_MissingFields(t *testing.T) {
	req := handlers.NewTestRequest(t, http.MethodPost, "/auth/register", map[string]string{"email": "a@x.com"})
	w := httptest.NewRecorder()
	newAuthHandler(&handlers.MockAuthService{}).Register(w, req)

	var resp pkghttp.ErrorResponse
	handlers.AssertJSONResponse(t, w, http.StatusBadRequest, &resp)
	assert.Equal(t, "validation_failed", resp.Error)
	assert.Contains(t, resp.Message, "username")
}

func TestRegister_MalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/auth/register", nil)
	w := httptest.NewRecorder()
	newAuthHandler(&handlers.MockAuthService{}).Register(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

func TestLogin_Success(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		LoginFunc: func(ctx context.Context, clientKey, username, password string) (*services.LoginResult, error) {
			assert.Equal(t, "192.0.2.1", clientKey)
			return &services.LoginResult{
				AccessToken:        "access_token_123",
				RefreshToken:       "refresh_token_123",
				AccessTokenExpiry:  15 * time.Minute,
				RefreshTokenExpiry: 30 * 24 * time.Hour,
			}, nil
		},
	}

	req := handlers.NewTestRequest(t, http.MethodPost, "/auth/login", handlers.LoginRequest{
		Username: "alice01", Password: "Passw0rd1",
	})
	w := httptest.NewRecorder()
	newAuthHandler(mockAuth).Login(w, req)

	var resp handlers.LoginResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "access_token_123", resp.AccessToken)
	assert.Equal(t, 900, resp.AccessTokenExpiresIn)
	assert.Equal(t, 2592000, resp.RefreshTokenExpiresIn)
	assert.NotContains(t, w.Body.String(), "refresh_token_123", "refresh token travels only in the cookie")

	cookie := refreshCookie(t, w)
	require.NotNil(t, cookie)
	assert.Equal(t, "refresh_token_123", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 2592000, cookie.MaxAge)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"bad credentials", models.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"rate limited", models.ErrRateLimitExceeded, http.StatusTooManyRequests, "rate_limit_exceeded"},
		{"internal", models.ErrInternalServer, http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuth := &handlers.MockAuthService{
				LoginFunc: func(ctx context.Context, clientKey, username, password string) (*services.LoginResult, error) {
					return nil, tt.err
				},
			}

			req := handlers.NewTestRequest(t, http.MethodPost, "/auth/login", handlers.LoginRequest{
				Username: "alice01", Password: "Passw0rd1",
			})
			w := httptest.NewRecorder()
			newAuthHandler(mockAuth).Login(w, req)

			handlers.AssertErrorResponse(t, w, tt.wantStatus, tt.wantCode)
			assert.Nil(t, refreshCookie(t, w))
		})
	}
}

func TestRefreshToken(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		RefreshFunc: func(ctx context.Context, refreshToken string) (string, *models.Principal, error) {
			if refreshToken != "good" {
				return "", nil, models.ErrForbidden
			}
			return "new_access", &models.Principal{UserID: "u1", Role: models.RoleModerator}, nil
		},
	}
	h := newAuthHandler(mockAuth)

	t.Run("valid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh-token", nil)
		req.AddCookie(&http.Cookie{Name: auth.RefreshTokenCookieName, Value: "good"})
		w := httptest.NewRecorder()
		h.RefreshToken(w, req)

		var resp handlers.RefreshResponse
		handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
		assert.Equal(t, "new_access", resp.AccessToken)
		assert.Equal(t, models.RoleModerator, resp.Role)
	})

	t.Run("missing cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh-token", nil)
		w := httptest.NewRecorder()
		h.RefreshToken(w, req)

		handlers.AssertErrorResponse(t, w, http.StatusForbidden, "forbidden")
	})

	t.Run("invalid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh-token", nil)
		req.AddCookie(&http.Cookie{Name: auth.RefreshTokenCookieName, Value: "bad"})
		w := httptest.NewRecorder()
		h.RefreshToken(w, req)

		handlers.AssertErrorResponse(t, w, http.StatusForbidden, "forbidden")
	})
}

func TestLogout(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		LogoutFunc: func(ctx context.Context, refreshToken string) error {
			if refreshToken != "good" {
				return models.ErrInvalidToken
			}
			return nil
		},
	}
	h := newAuthHandler(mockAuth)

	t.Run("success clears cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: auth.RefreshTokenCookieName, Value: "good"})
		w := httptest.NewRecorder()
		h.Logout(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		cookie := refreshCookie(t, w)
		require.NotNil(t, cookie)
		assert.Less(t, cookie.MaxAge, 0)
	})

	t.Run("missing cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
		w := httptest.NewRecorder()
		h.Logout(w, req)

		handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
	})

	t.Run("invalid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: auth.RefreshTokenCookieName, Value: "bad"})
		w := httptest.NewRecorder()
		h.Logout(w, req)

		handlers.AssertErrorResponse(t, w, http.StatusInternalServerError, "internal_error")
	})
}

func TestRequestPasswordReset(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		RequestPasswordResetFunc: func(ctx context.Context, email string) (string, error) {
			return "abc123", nil
		},
	}

	req := handlers.NewTestRequest(t, http.MethodPost, "/auth/request-reset-password", handlers.RequestResetRequest{Email: "ghost@x.com"})
	w := httptest.NewRecorder()
	newAuthHandler(mockAuth).RequestPasswordReset(w, req)

	var resp handlers.RequestResetResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "abc123", resp.ResetToken)
	assert.NotEmpty(t, resp.Message)
}

func TestResetPassword(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid token", models.ErrInvalidToken, http.StatusBadRequest, "invalid_token"},
		{"account gone", models.ErrNotFound, http.StatusBadRequest, "bad_request"},
		{"weak password", &models.ValidationError{Fields: []models.FieldError{{Field: "password", Message: "too short"}}}, http.StatusBadRequest, "validation_failed"},
		{"internal", models.ErrInternalServer, http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuth := &handlers.MockAuthService{
				ResetPasswordFunc: func(ctx context.Context, token, newPassword string) error {
					assert.Equal(t, "abc123", token)
					return tt.err
				},
			}

			req := handlers.NewTestRequest(t, http.MethodPost, "/auth/reset-password/abc123", handlers.ResetPasswordRequest{Password: "NewPassw0rd"})
			req = handlers.WithURLParams(req, map[string]string{"token": "abc123"})
			w := httptest.NewRecorder()
			newAuthHandler(mockAuth).ResetPassword(w, req)

			handlers.AssertErrorResponse(t, w, tt.wantStatus, tt.wantCode)
		})
	}
}

func TestResetPassword_Success(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		ResetPasswordFunc: func(ctx context.Context, token, newPassword string) error {
			return nil
		},
	}

	req := handlers.NewTestRequest(t, http.MethodPost, "/auth/reset-password/abc123", handlers.ResetPasswordRequest{Password: "NewPassw0rd"})
	req = handlers.WithURLParams(req, map[string]string{"token": "abc123"})
	w := httptest.NewRecorder()
	newAuthHandler(mockAuth).ResetPassword(w, req)

	handlers.AssertJSONResponse(t, w, http.StatusOK, nil)
}

func TestRequestPasswordReset_MissingEmail(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		RequestPasswordResetFunc: func(ctx context.Context, email string) (string, error) {
			t.Fatal("service must not be called")
			return "", nil
		},
	}

	req := handlers.NewTestRequest(t, http.MethodPost, "/auth/request-reset-password", map[string]string{})
	w := httptest.NewRecorder()
	newAuthHandler(mockAuth).RequestPasswordReset(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "validation_failed")
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/BradenHooton/quill/internal/auth"
	"github.com/BradenHooton/quill/internal/models"
	"github.com/BradenHooton/quill/internal/services"
	pkghttp "github.com/BradenHooton/quill/pkg/http"
	"github.com/go-chi/chi/v5"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, clientKey, username, password string) (*services.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, *models.Principal, error)
	Logout(ctx context.Context, refreshToken string) error
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service      AuthServiceInterface
	ipConfig     *pkghttp.IPConfig
	cookieConfig auth.CookieConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface, ipConfig *pkghttp.IPConfig, cookieConfig auth.CookieConfig) *AuthHandler {
	return &AuthHandler{
		service:      service,
		ipConfig:     ipConfig,
		cookieConfig: cookieConfig,
	}
}

// Request DTOs

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Email    string `json:"email" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RequestResetRequest represents the request body for a password reset request
type RequestResetRequest struct {
	Email string `json:"email" validate:"required"`
}

// ResetPasswordRequest represents the request body for a password reset confirmation
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// Response DTOs

// LoginResponse is returned on successful login. The refresh token travels
// only in the cookie.
type LoginResponse struct {
	Message               string `json:"message"`
	AccessToken           string `json:"accessToken"`
	AccessTokenExpiresIn  int    `json:"accessToken_expires_in"`
	RefreshTokenExpiresIn int    `json:"refreshToken_expires_in"`
}

// RefreshResponse is returned by the refresh endpoint
type RefreshResponse struct {
	AccessToken string      `json:"accessToken"`
	Role        models.Role `json:"role"`
}

// RequestResetResponse is returned by the reset request endpoint
type RequestResetResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"resetToken"`
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	_, err := h.service.Register(r.Context(), services.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, MessageResponse{Message: "User registered successfully"})
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	clientIP := pkghttp.ExtractClientIP(r, h.ipConfig)

	result, err := h.service.Login(r.Context(), clientIP, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "invalid username or password")
		case errors.Is(err, models.ErrRateLimitExceeded):
			pkghttp.WriteTooManyRequests(w, "too many login attempts, please try again later")
		default:
			pkghttp.WriteInternalError(w, "internal server error")
		}
		return
	}

	auth.SetRefreshTokenCookie(w, result.RefreshToken, result.RefreshTokenExpiry, h.cookieConfig)
	pkghttp.WriteJSON(w, http.StatusOK, LoginResponse{
		Message:               "Login successful",
		AccessToken:           result.AccessToken,
		AccessTokenExpiresIn:  int(result.AccessTokenExpiry.Seconds()),
		RefreshTokenExpiresIn: int(result.RefreshTokenExpiry.Seconds()),
	})
}

// RefreshToken exchanges the refresh cookie for a new access token
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := auth.GetRefreshTokenCookie(r)
	if err != nil {
		pkghttp.WriteForbidden(w, "refresh token required")
		return
	}

	accessToken, principal, err := h.service.Refresh(r.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, models.ErrForbidden) {
			pkghttp.WriteForbidden(w, "invalid or expired refresh token")
			return
		}
		pkghttp.WriteInternalError(w, "internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, RefreshResponse{AccessToken: accessToken, Role: principal.Role})
}

// Logout clears the refresh cookie. The token itself is not revoked.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := auth.GetRefreshTokenCookie(r)
	if err != nil {
		pkghttp.WriteBadRequest(w, "refresh token cookie required")
		return
	}

	auth.ClearRefreshTokenCookie(w, h.cookieConfig)

	if err := h.service.Logout(r.Context(), refreshToken); err != nil {
		pkghttp.WriteInternalError(w, "failed to verify refresh token")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// RequestPasswordReset issues a reset token. The response is identical for
// known and unknown addresses.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req RequestResetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	token, err := h.service.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, RequestResetResponse{
		Message:    "If the email is registered, a password reset link has been sent",
		ResetToken: token,
	})
}

// ResetPassword consumes the token from the path and sets the new password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req ResetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.service.ResetPassword(r.Context(), token, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidToken):
			pkghttp.WriteInvalidToken(w, "invalid or expired reset token")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteBadRequest(w, "account not found")
		default:
			writeServiceError(w, err)
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Password has been reset successfully"})
}

// decodeAndValidate reads a JSON body into dst and applies its validate tags.
// It writes a 400 and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return false
	}

	if err := ValidateRequest(dst); err != nil {
		writeServiceError(w, err)
		return false
	}

	return true
}

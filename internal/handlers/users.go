package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/BradenHooton/quill/internal/auth"
	"github.com/BradenHooton/quill/internal/models"
	pkghttp "github.com/BradenHooton/quill/pkg/http"
	"github.com/go-chi/chi/v5"
)

// UserServiceInterface defines the interface for account administration
type UserServiceInterface interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	ListBloggers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, actorID, id string) error
}

// UserHandler handles account listing and removal
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// UserResponse represents a user in the HTTP response. It never carries the
// password hash.
type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	CreatedAt string      `json:"created_at"`
	UpdatedAt string      `json:"updated_at"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

func toUserResponses(users []*models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

// ListUsers returns every account
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, toUserResponses(users))
}

// ListBloggers returns every account with the blogger role
func (h *UserHandler) ListBloggers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListBloggers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, toUserResponses(users))
}

// DeleteUser removes an account and its posts
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var actorID string
	if principal := auth.PrincipalFromContext(r.Context()); principal != nil {
		actorID = principal.UserID
	}

	if err := h.service.DeleteUser(r.Context(), actorID, chi.URLParam(r, "userId")); err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}

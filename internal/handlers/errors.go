package handlers

import (
	"errors"
	"net/http"

	"github.com/BradenHooton/quill/internal/models"
	pkghttp "github.com/BradenHooton/quill/pkg/http"
)

// writeServiceError maps service sentinels onto HTTP responses
func writeServiceError(w http.ResponseWriter, err error) {
	var vErr *models.ValidationError
	switch {
	case errors.As(err, &vErr):
		pkghttp.WriteValidationError(w, vErr.Error(), vErr.Fields)
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, err.Error())
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteConflict(w, "username or email already registered")
	case errors.Is(err, models.ErrInvalidToken):
		pkghttp.WriteInvalidToken(w, "invalid or expired token")
	case errors.Is(err, models.ErrUnauthorized):
		pkghttp.WriteUnauthorized(w, "unauthorized")
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "forbidden")
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "resource not found")
	case errors.Is(err, models.ErrRateLimitExceeded):
		pkghttp.WriteTooManyRequests(w, "too many requests, please try again later")
	default:
		pkghttp.WriteInternalError(w, "internal server error")
	}
}

// MessageResponse is the body of operations that only report success
type MessageResponse struct {
	Message string `json:"message"`
}

package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/BradenHooton/quill/internal/models"
	pkghttp "github.com/BradenHooton/quill/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// PrincipalContextKey is the key for storing the authenticated principal in context
	PrincipalContextKey contextKey = "principal"
)

// AccessTokenVerifier is implemented by TokenIssuer
type AccessTokenVerifier interface {
	VerifyAccessToken(tokenString string) (*models.Principal, error)
}

// Authenticate validates the bearer access token and injects the principal into the request context
func Authenticate(verifier AccessTokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				pkghttp.WriteUnauthorized(w, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				pkghttp.WriteUnauthorized(w, "invalid authorization header format")
				return
			}

			principal, err := verifier.VerifyAccessToken(strings.TrimSpace(parts[1]))
			if err != nil {
				pkghttp.WriteUnauthorized(w, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// Authorize requires the authenticated principal to hold exactly the given
// role. Roles are not hierarchical: an admin does not pass a moderator gate.
// Must be used after Authenticate.
func Authorize(required models.Role) func(next http.Handler) http.Handler {
	switch required {
	case models.RoleBlogger, models.RoleModerator, models.RoleAdmin:
	default:
		panic(fmt.Sprintf("auth: Authorize called with unknown role %q", required))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				pkghttp.WriteUnauthorized(w, "unauthorized")
				return
			}

			if principal.Role != required {
				pkghttp.WriteForbidden(w, "forbidden: insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WithPrincipal returns a copy of ctx carrying p
func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalContextKey, p)
}

// PrincipalFromContext extracts the authenticated principal, or nil
func PrincipalFromContext(ctx context.Context) *models.Principal {
	p, ok := ctx.Value(PrincipalContextKey).(*models.Principal)
	if !ok {
		return nil
	}
	return p
}

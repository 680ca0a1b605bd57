package handlers

import (
	"context"
	"net/http"

	pkghttp "github.com/BradenHooton/quill/pkg/http"
)

// HealthChecker is implemented by database.DB
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Health reports 200 when the database answers a ping and 503 otherwise
func Health(db HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.HealthCheck(r.Context()); err != nil {
			pkghttp.WriteError(w, http.StatusServiceUnavailable, "unavailable", "database unreachable")
			return
		}
		pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLoginAttempt(t *testing.T) {
	before := testutil.ToFloat64(LoginAttempts.WithLabelValues(LoginRateLimited))

	RecordLoginAttempt(LoginRateLimited)

	assert.Equal(t, before+1, testutil.ToFloat64(LoginAttempts.WithLabelValues(LoginRateLimited)))
}

func TestRecordSwept_IgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(SweptEntries.WithLabelValues("test"))

	RecordSwept("test", 0)
	assert.Equal(t, before, testutil.ToFloat64(SweptEntries.WithLabelValues("test")))

	RecordSwept("test", 3)
	assert.Equal(t, before+3, testutil.ToFloat64(SweptEntries.WithLabelValues("test")))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	registry := NewRegistry()
	RecordHTTPRequest(http.MethodGet, "/health", http.StatusOK, 5*time.Millisecond)
	RecordResetToken(ResetTokenIssued)

	w := httptest.NewRecorder()
	Handler(registry).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	for _, name := range []string{
		"quill_http_requests_total",
		"quill_http_request_duration_seconds",
		"quill_reset_tokens_total",
		"go_goroutines",
	} {
		assert.True(t, strings.Contains(body, name), "missing %s", name)
	}
}

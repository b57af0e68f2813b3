package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAuth(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordAuth("login", OutcomeSuccess)
	m.RecordAuth("login", OutcomeSuccess)
	m.RecordAuth("login", OutcomeFailure)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuthAttemptsTotal.WithLabelValues("login", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthAttemptsTotal.WithLabelValues("login", OutcomeFailure)))
}

func TestRecordAuth_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.RecordAuth("login", OutcomeError) })
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.RecordAuth("signup", OutcomeSuccess)
	m.HTTPRequestsTotal.WithLabelValues("GET", "/api/check-auth", "200").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `dsalog_auth_attempts_total{operation="signup",outcome="success"} 1`)
	assert.Contains(t, string(body), "dsalog_http_requests_total")
	assert.Contains(t, string(body), "go_goroutines")
}

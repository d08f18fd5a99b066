package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAttempt("password", OutcomeSuccess, "")
	c.RecordAttempt("password", OutcomeFailure, "invalid_credentials")
	c.RecordAttempt("password", OutcomeFailure, "invalid_credentials")
	c.RecordTokenIssued("federated")
	c.RecordAuthorization(OutcomeForbidden)
	c.RecordFlowLatency("password", 20*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.attempts.WithLabelValues("password", OutcomeSuccess, "")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.attempts.WithLabelValues("password", OutcomeFailure, "invalid_credentials")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.tokensIssued.WithLabelValues("federated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.authorization.WithLabelValues(OutcomeForbidden)))
	assert.Equal(t, 1, testutil.CollectAndCount(c.flowLatency))
}

func TestCollector_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	assert.Panics(t, func() { NewCollector(reg) })
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordTokenIssued("password")

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "skill_auth_tokens_issued_total"))
}

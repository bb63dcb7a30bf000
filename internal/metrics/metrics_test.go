package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderCallCounters(t *testing.T) {
	m := New()

	m.ProviderCall("search", "mail", 5*time.Millisecond, nil)
	m.ProviderCall("search", "mail", 5*time.Millisecond, errors.New("boom"))
	m.ProviderCall("pending_action", "chat", time.Millisecond, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.providerCalls.WithLabelValues("search", "mail")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.providerFailures.WithLabelValues("search", "mail")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.providerCalls.WithLabelValues("pending_action", "chat")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.providerFailures.WithLabelValues("pending_action", "chat")))
}

func TestInstrumentHandlerCountsRequests(t *testing.T) {
	m := New()
	h := m.InstrumentHandler("/api/search", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=x", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/api/search", "400")))
}

func TestMetricsEndpointExposesCollectors(t *testing.T) {
	m := New()
	m.ProviderCall("search", "mail", time.Millisecond, nil)

	resp := httptest.NewRecorder()
	m.Handler().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "atrium_registry_provider_calls_total")
	assert.Contains(t, resp.Body.String(), "atrium_registry_provider_call_duration_seconds")
}

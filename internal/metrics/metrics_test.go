package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLobbyOperationOutcomes(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.LobbyOperation("join", nil)
	m.LobbyOperation("join", nil)
	m.LobbyOperation("join", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LobbyOperations.WithLabelValues("join", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LobbyOperations.WithLabelValues("join", OutcomeError)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.LobbyOperation("create", nil)
	m.AdvisorRequest(OutcomeOK)
	m.SubscriberDelta(1)
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	m := New(prometheus.NewRegistry())

	r := mux.NewRouter()
	r.Use(m.Middleware)
	r.HandleFunc("/lobbies/{name}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lobbies/Raid1", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/lobbies/{name}", "GET", "404")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New(nil)
	m.AdvisorRequest(OutcomeOK)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `advisor_requests_total{outcome="ok"} 1`))
	assert.Contains(t, body, "go_goroutines")
}

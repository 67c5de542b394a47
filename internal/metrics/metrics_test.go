package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveEdit(t *testing.T) {
	r := NewRegistry()
	r.ObserveEdit("append", nil)
	r.ObserveEdit("append", nil)
	r.ObserveEdit("append", errors.New("drag in progress"))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.RouteEditsTotal.WithLabelValues("append", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.RouteEditsTotal.WithLabelValues("append", "rejected")))
}

func TestNilRegistryIsSafe(t *testing.T) {
	var r *Registry
	assert.NotPanics(t, func() {
		r.ObserveEdit("append", nil)
		r.SetOpenRoutes(3)
		r.ObserveCache("isochrones", true)
		r.ObserveBrief(false)
		r.ObserveRequest("/api/v1/health", http.MethodGet, http.StatusOK, time.Millisecond)
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := NewRegistry()
	r.SetOpenRoutes(2)
	r.ObserveCache("isochrones", false)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "flightplanner_open_routes 2")
	assert.Contains(t, string(body), `flightplanner_cache_misses_total{cache="isochrones"} 1`)
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := NewRegistry(), NewRegistry()
	a.ObserveBrief(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(a.BriefsTotal.WithLabelValues("true")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.BriefsTotal.WithLabelValues("true")))
}

func TestObserveRequest(t *testing.T) {
	r := NewRegistry()
	r.ObserveRequest("/api/v1/routes", http.MethodPost, http.StatusCreated, 3*time.Millisecond)
	r.ObserveRequest("/api/v1/routes", http.MethodPost, http.StatusBadRequest, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.HTTPRequestsTotal.WithLabelValues("/api/v1/routes", "POST", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.HTTPRequestsTotal.WithLabelValues("/api/v1/routes", "POST", "400")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.HTTPRequestDuration))
}

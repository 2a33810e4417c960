package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := New(DefaultConfig())

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/cars/{carID}/repairs", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/cars/"+id+"/repairs", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))

	got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/cars/{carID}/repairs", "418"))
	assert.Equal(t, 3.0, got)
	assert.Equal(t, 1, testutil.CollectAndCount(m.requestsTotal))
}

func TestObserveAssembly(t *testing.T) {
	m := New(Config{})
	m.ObserveAssembly(OutcomePresented, 10*time.Millisecond, 4)
	m.ObserveAssembly(OutcomeDiscarded, time.Millisecond, 2)
	m.ObserveAssembly(OutcomeFailed, time.Millisecond, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.assemblies.WithLabelValues(OutcomePresented)))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.repairsFolded))

	var nilMetrics *Metrics
	nilMetrics.ObserveAssembly(OutcomePresented, 0, 1)
}

func TestHandler_ServesExposition(t *testing.T) {
	m := New(DefaultConfig())
	m.ObserveAssembly(OutcomePresented, time.Millisecond, 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	assert.True(t, strings.Contains(string(body), "repairhub_dashboard_assemblies_total"))
}

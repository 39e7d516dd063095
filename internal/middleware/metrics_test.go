package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	method string
	route  string
	status int
}

type stubObserver struct {
	seen []observation
}

func (s *stubObserver) ObserveRequest(method string, route string, status int, _ time.Duration) {
	s.seen = append(s.seen, observation{method: method, route: route, status: status})
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	observer := &stubObserver{}

	r := chi.NewRouter()
	r.Use(Metrics(observer))
	r.Get("/api/technologies/{generatedId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/technologies/tech-1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	require.Len(t, observer.seen, 2)
	assert.Equal(t, observation{http.MethodGet, "/api/technologies/{generatedId}", http.StatusTeapot}, observer.seen[0])
	assert.Equal(t, http.StatusNotFound, observer.seen[1].status)
}

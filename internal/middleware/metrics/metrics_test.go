package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/v1/posts/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(requestsTotal.WithLabelValues("GET", "/v1/posts/{slug}", "418"))

	for _, slug := range []string{"first-post-abc123", "second-post-def456"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest("GET", "/v1/posts/"+slug, nil))
		require.Equal(t, http.StatusTeapot, rr.Code)
	}

	// both slugs collapse into the one route series
	after := testutil.ToFloat64(requestsTotal.WithLabelValues("GET", "/v1/posts/{slug}", "418"))
	assert.Equal(t, float64(2), after-before)
}

func TestStatusRecorder_DefaultsToOK(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	rec.Write([]byte("body without explicit WriteHeader"))
	assert.Equal(t, http.StatusOK, rec.status)
}

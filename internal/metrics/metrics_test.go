package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_RecordsCompletedRequests(t *testing.T) {
	m, err := New("articles-test")
	require.NoError(t, err)
	defer m.Shutdown(context.Background())

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/articles/{articleID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/articles/7", nil))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "http_server_completed_count")
	assert.Contains(t, string(body), `route="/articles/{articleID}"`)
	assert.Contains(t, string(body), `status="404"`)
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, err := New("a")
	require.NoError(t, err)
	b, err := New("b")
	require.NoError(t, err)

	assert.NotSame(t, a.registry, b.registry)
}

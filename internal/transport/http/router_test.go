package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postboard/internal/platform/metrics"
)

type panicRoutes struct{}

func (panicRoutes) Register(r chi.Router) {
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("kaboom") })
}

func newTestRouter(t *testing.T, origins []string, handlers ...RouteRegistrar) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewRouter(RouterConfig{
		Logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:            metrics.New(reg),
		Gatherer:           reg,
		CORSAllowedOrigins: origins,
	}, handlers...)
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestBanner(t *testing.T) {
	rr := serve(newTestRouter(t, nil), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "Social Media Platform API is running!", rr.Body.String())
}

func TestPanicBecomesInternalError(t *testing.T) {
	rr := serve(newTestRouter(t, nil, panicRoutes{}), httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"Internal server error"}`, rr.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	rr := serve(newTestRouter(t, nil), httptest.NewRequest(http.MethodDelete, "/healthz", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"Method not allowed"}`, rr.Body.String())
}

func TestCORSOptions(t *testing.T) {
	t.Run("wildcard disables credentials", func(t *testing.T) {
		opts := corsOptions(nil)
		assert.Equal(t, []string{"*"}, opts.AllowedOrigins)
		assert.False(t, opts.AllowCredentials)
	})

	t.Run("explicit origins allow credentials", func(t *testing.T) {
		opts := corsOptions([]string{"https://app.example"})
		assert.True(t, opts.AllowCredentials)
	})

	t.Run("explicit origin is echoed", func(t *testing.T) {
		router := newTestRouter(t, []string{"https://app.example"})
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("Origin", "https://app.example")

		rr := serve(router, req)

		assert.Equal(t, "https://app.example", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin gets no allow header", func(t *testing.T) {
		router := newTestRouter(t, []string{"https://app.example"})
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("Origin", "https://evil.example")

		rr := serve(router, req)

		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

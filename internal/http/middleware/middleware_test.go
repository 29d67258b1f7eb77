package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/straye-as/staffing-api/internal/auth"
	"github.com/straye-as/staffing-api/internal/config"
	"github.com/straye-as/staffing-api/internal/http/middleware"
	"github.com/straye-as/staffing-api/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestSecurityHeaders(t *testing.T) {
	cfg := &config.SecurityConfig{
		EnableHSTS:            true,
		HSTSMaxAge:            31536000,
		HSTSIncludeSubdomains: true,
		ContentTypeNosniff:    true,
		FrameOptions:          "DENY",
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}
	h := middleware.SecurityHeaders(cfg)(okHandler)

	t.Run("api path", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/modules", nil))

		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
		assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
		assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
	})

	t.Run("swagger skips content security policy", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))

		assert.Empty(t, w.Header().Get("Content-Security-Policy"))
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	})

	t.Run("hsts disabled", func(t *testing.T) {
		h := middleware.SecurityHeaders(&config.SecurityConfig{})(okHandler)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
		assert.Empty(t, w.Header().Get("X-Content-Type-Options"))
	})
}

func newRateLimiter(cfg config.RateLimitConfig) *middleware.RateLimiter {
	return middleware.NewRateLimiter(&cfg, zap.NewNop())
}

func serve(h http.Handler, path, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiter_LimitByIP(t *testing.T) {
	rl := newRateLimiter(config.RateLimitConfig{
		Enabled:               true,
		RequestsPerMinute:     2,
		RequestsPerMinuteAuth: 2,
		WhitelistIPs:          []string{"10.0.0.9"},
		WhitelistPaths:        []string{"/health", "/swagger/*"},
	})
	h := rl.LimitByIP(okHandler)

	assert.Equal(t, http.StatusOK, serve(h, "/api/v1/x", "192.0.2.1:1234"))
	assert.Equal(t, http.StatusOK, serve(h, "/api/v1/x", "192.0.2.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, serve(h, "/api/v1/x", "192.0.2.1:1234"))

	t.Run("other clients have their own budget", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(h, "/api/v1/x", "192.0.2.2:1234"))
	})

	t.Run("whitelisted paths", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusOK, serve(h, "/health", "192.0.2.1:1234"))
			assert.Equal(t, http.StatusOK, serve(h, "/swagger/doc.json", "192.0.2.1:1234"))
		}
	})

	t.Run("whitelisted ip", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusOK, serve(h, "/api/v1/x", "10.0.0.9:80"))
		}
	})
}

func TestRateLimiter_ExceededResponse(t *testing.T) {
	rl := newRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, RequestsPerMinuteAuth: 1})
	h := rl.LimitByIP(okHandler)
	serve(h, "/", "198.51.100.7:1")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.7:1"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"status":429`)
}

func TestRateLimiter_LimitByUser(t *testing.T) {
	rl := newRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 100, RequestsPerMinuteAuth: 1})
	h := rl.LimitByUser(okHandler)

	request := func(userID string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/x", nil)
		req.RemoteAddr = "203.0.113.5:1"
		req = req.WithContext(auth.WithUserContext(req.Context(), &auth.UserContext{UserID: userID}))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, request("alice"))
	assert.Equal(t, http.StatusTooManyRequests, request("alice"))
	assert.Equal(t, http.StatusOK, request("bob"), "callers behind one IP are limited separately")
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := newRateLimiter(config.RateLimitConfig{Enabled: false, RequestsPerMinute: 1, RequestsPerMinuteAuth: 1})
	h := rl.LimitByIP(okHandler)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(h, "/", "192.0.2.50:1"))
	}
}

func TestRecovery(t *testing.T) {
	h := middleware.Recovery(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "internal_error")
}

func TestRecovery_AbortHandlerPropagates(t *testing.T) {
	h := middleware.Recovery(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestLogging_RequestIDAndMetrics(t *testing.T) {
	m := metrics.NewManager()
	r := chi.NewRouter()
	r.Use(middleware.Logging(zap.NewNop(), m))
	r.Get("/modules/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	t.Run("generates a request ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/modules/1", nil))

		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("keeps an incoming request ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/modules/2", nil)
		req.Header.Set(middleware.RequestIDHeader, "req-42")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-42", w.Header().Get(middleware.RequestIDHeader))
	})

	count, err := testutil.GatherAndCount(m.Registry(), "staffing_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "both requests share one route label set")
}

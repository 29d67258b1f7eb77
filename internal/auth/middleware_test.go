package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/straye-as/staffing-api/internal/auth"
	"github.com/straye-as/staffing-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthenticatedHandler(t *testing.T, cfg *config.AuthConfig) (http.Handler, **auth.UserContext) {
	t.Helper()
	var seen *auth.UserContext
	m := auth.NewMiddleware(cfg, zap.NewNop())
	h := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.FromContext(r.Context())
		require.True(t, ok)
		seen = user
		w.WriteHeader(http.StatusOK)
	}))
	return h, &seen
}

func TestMiddleware_Authenticate(t *testing.T) {
	cfg := &config.AuthConfig{ApiKey: "secret-key", JWTSecret: testSecret}

	t.Run("api key", func(t *testing.T) {
		h, seen := newAuthenticatedHandler(t, cfg)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/modules", nil)
		req.Header.Set("x-api-key", "secret-key")
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, *seen)
		assert.Equal(t, auth.SystemUserID, (*seen).UserID)
		assert.True(t, (*seen).IsSystem)
	})

	t.Run("wrong api key", func(t *testing.T) {
		h, seen := newAuthenticatedHandler(t, cfg)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/modules", nil)
		req.Header.Set("x-api-key", "guess")
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Nil(t, *seen)
	})

	t.Run("bearer token", func(t *testing.T) {
		h, seen := newAuthenticatedHandler(t, cfg)
		token, err := auth.NewJWTValidator(cfg).IssueToken(auth.Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "planner-7"},
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/modules", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, *seen)
		assert.Equal(t, "planner-7", (*seen).UserID)
		assert.False(t, (*seen).IsSystem)
	})

	t.Run("missing credentials", func(t *testing.T) {
		h, _ := newAuthenticatedHandler(t, cfg)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/modules", nil)
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		h, _ := newAuthenticatedHandler(t, cfg)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/modules", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestMiddleware_APIKeyDisabledWhenEmpty(t *testing.T) {
	h, _ := newAuthenticatedHandler(t, &config.AuthConfig{JWTSecret: testSecret})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/modules", nil)
	req.Header.Set("x-api-key", "anything")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	user, ok := auth.FromContext(req.Context())
	assert.False(t, ok)
	assert.Nil(t, user)
}

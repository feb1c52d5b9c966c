package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nmqueue/internal/infrastructure/auth"
	"nmqueue/internal/shared/logger"
)

type noopLogger struct{}

func (noopLogger) Debug(string, ...any)            {}
func (noopLogger) Info(string, ...any)             {}
func (noopLogger) Warn(string, ...any)             {}
func (noopLogger) Error(string, ...any)            {}
func (l noopLogger) With(...any) logger.Interface  { return l }
func (l noopLogger) Named(string) logger.Interface { return l }
func (noopLogger) Debugw(string, ...any)           {}
func (noopLogger) Infow(string, ...any)            {}
func (noopLogger) Warnw(string, ...any)            {}
func (noopLogger) Errorw(string, ...any)           {}

func authTestRouter(t *testing.T, required bool) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService("test-secret", 15)
	m := NewAuthMiddleware(jwtService, noopLogger{})

	r := gin.New()
	guard := m.OptionalAuth()
	if required {
		guard = m.RequireAuth()
	}
	r.GET("/probe", guard, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"viewer_id": ViewerID(c)})
	})
	return r, jwtService
}

func TestRequireAuth(t *testing.T) {
	t.Run("valid token passes and identifies the viewer", func(t *testing.T) {
		r, jwtService := authTestRouter(t, true)
		token, err := jwtService.Generate(42, "jdoe")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"viewer_id":42`)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		r, _ := authTestRouter(t, true)

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		r, _ := authTestRouter(t, true)

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		r, _ := authTestRouter(t, true)
		other := auth.NewJWTService("other-secret", 15)
		token, err := other.Generate(42, "jdoe")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	t.Run("anonymous requests pass with a zero viewer", func(t *testing.T) {
		r, _ := authTestRouter(t, false)

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"viewer_id":0`)
	})

	t.Run("a valid token still identifies the viewer", func(t *testing.T) {
		r, jwtService := authTestRouter(t, false)
		token, err := jwtService.Generate(7, "ada")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"viewer_id":7`)
	})

	t.Run("an invalid token falls back to anonymous", func(t *testing.T) {
		r, _ := authTestRouter(t, false)

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer junk")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"viewer_id":0`)
	})
}

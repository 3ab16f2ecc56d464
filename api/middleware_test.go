package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authProbe(t *testing.T, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	var caller string
	engine.GET("/probe", Authenticate([]byte(testSecret)), func(c *gin.Context) {
		caller = callerEmail(c)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w, caller
}

func TestAuthenticate(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()

	t.Run("email claim", func(t *testing.T) {
		w, caller := authProbe(t, "Bearer "+signedToken(t, jwt.MapClaims{"email": "guest@example.com", "exp": exp}))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "guest@example.com", caller)
	})

	t.Run("sub claim", func(t *testing.T) {
		w, caller := authProbe(t, "Bearer "+signedToken(t, jwt.MapClaims{"sub": "host@example.com", "exp": exp}))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "host@example.com", caller)
	})

	otherKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "x@example.com"}).SignedString([]byte("other"))
	require.NoError(t, err)

	rejected := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"empty token":    "Bearer ",
		"garbage":        "Bearer not.a.jwt",
		"wrong key":      "Bearer " + otherKey,
		"expired":        "Bearer " + signedToken(t, jwt.MapClaims{"email": "x@example.com", "exp": time.Now().Add(-time.Hour).Unix()}),
		"no identity":    "Bearer " + signedToken(t, jwt.MapClaims{"exp": exp}),
		"unsigned":       "Bearer " + unsignedToken(t),
	}
	for name, header := range rejected {
		t.Run(name, func(t *testing.T) {
			w, caller := authProbe(t, header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Empty(t, caller)
		})
	}
}

func unsignedToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"email": "x@example.com"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return token
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
	assert.Equal(t, w.Header().Get(requestIDHeader), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(Timeout(50 * time.Millisecond))
	var deadlineSet bool
	engine.GET("/", func(c *gin.Context) {
		_, deadlineSet = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, deadlineSet)
}

func TestHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	healthy := NewRouter(RouterConfig{
		Bookings: &MockBookingUseCase{}, Places: &MockPlaceUseCase{}, Comments: &MockCommentUseCase{},
		HealthChecks: []HealthCheck{{Name: "postgres", Check: func(context.Context) error { return nil }}},
	})
	w := httptest.NewRecorder()
	healthy.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	broken := NewRouter(RouterConfig{
		Bookings: &MockBookingUseCase{}, Places: &MockPlaceUseCase{}, Comments: &MockCommentUseCase{},
		HealthChecks: []HealthCheck{{Name: "redis", Check: func(context.Context) error { return errors.New("refused") }}},
	})
	w = httptest.NewRecorder()
	broken.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"refused"`)
}

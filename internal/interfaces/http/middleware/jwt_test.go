package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/auth"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/config"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/logger"
)

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.AuthConfig{
		JWTSecret:       "test-secret-key-at-least-32-chars",
		Issuer:          "salesdash-test",
		TokenExpiration: expiration,
	})
}

func newJWTRouter(t *testing.T, svc *auth.JWTService) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuth(JWTMiddlewareConfig{JWTService: svc, SkipPaths: []string{"/public"}}))
	router.GET("/test", func(c *gin.Context) {
		assert.Equal(t, "analyst", GetViewer(c))
		require.NotNil(t, GetJWTClaims(c))
		assert.Equal(t, "analyst", logger.GetSubject(c.Request.Context()))
		okHandler(c)
	})
	router.GET("/public", okHandler)
	return router
}

func TestJWTAuth_ValidToken(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	token, err := svc.Issue("analyst")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token.AccessToken)
	rec := httptest.NewRecorder()
	newJWTRouter(t, svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuth_Rejections(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	router := newJWTRouter(t, svc)

	other, err := auth.NewJWTService(config.AuthConfig{JWTSecret: "another-secret-key-of-32-characters", Issuer: "salesdash-test"}).Issue("analyst")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", "ERR_UNAUTHORIZED"},
		{"wrong scheme", "Basic abc", "ERR_TOKEN_INVALID"},
		{"empty token", "Bearer ", "ERR_TOKEN_INVALID"},
		{"garbage", "Bearer not-a-jwt", "ERR_TOKEN_INVALID"},
		{"foreign signature", "Bearer " + other.AccessToken, "ERR_TOKEN_INVALID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.code)
			assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "salesdash-test",
			Subject:   "analyst",
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
		},
		Viewer: "analyst",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret-key-at-least-32-chars"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+signed)
	rec := httptest.NewRecorder()
	newJWTRouter(t, newTestJWTService(time.Hour)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_TOKEN_EXPIRED")
}

func TestJWTAuth_SkipPaths(t *testing.T) {
	rec := httptest.NewRecorder()
	newJWTRouter(t, newTestJWTService(time.Hour)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/public", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

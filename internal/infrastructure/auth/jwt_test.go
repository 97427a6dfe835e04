package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.AuthConfig{
		JWTSecret:       "test-secret-key-at-least-32-chars",
		Issuer:          "salesdash-test",
		TokenExpiration: 15 * time.Minute,
	})
}

func TestNewJWTService_DefaultExpiration(t *testing.T) {
	svc := NewJWTService(config.AuthConfig{JWTSecret: "s"})
	assert.Equal(t, defaultTokenExpiration, svc.Expiration())
}

func TestIssueAndValidate(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.Issue("analyst")
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), token.ExpiresAt, 5*time.Second)

	claims, err := svc.Validate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "analyst", claims.Subject)
	assert.Equal(t, "analyst", claims.Viewer)
	assert.Equal(t, "salesdash-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)

	other, err := svc.Issue("analyst")
	require.NoError(t, err)
	otherClaims, err := svc.Validate(other.AccessToken)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, otherClaims.ID)
}

func TestIssue_RequiresViewer(t *testing.T) {
	_, err := newTestJWTService().Issue("")
	assert.ErrorIs(t, err, ErrMissingViewer)
}

func TestValidate_Expired(t *testing.T) {
	svc := newTestJWTService()
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := svc.Issue("analyst")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Validate(token.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidate_NotYetValid(t *testing.T) {
	svc := newTestJWTService()
	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	token, err := svc.Issue("analyst")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Validate(token.AccessToken)
	assert.ErrorIs(t, err, ErrTokenNotYetValid)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := newTestJWTService().Issue("analyst")
	require.NoError(t, err)

	other := NewJWTService(config.AuthConfig{JWTSecret: "another-secret-key-at-least-32-chars", Issuer: "salesdash-test"})
	_, err = other.Validate(token.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_WrongIssuer(t *testing.T) {
	token, err := newTestJWTService().Issue("analyst")
	require.NoError(t, err)

	other := NewJWTService(config.AuthConfig{JWTSecret: "test-secret-key-at-least-32-chars", Issuer: "someone-else"})
	_, err = other.Validate(token.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_RejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "analyst",
			Issuer:    "salesdash-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Viewer: "analyst",
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestJWTService().Validate(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Garbage(t *testing.T) {
	_, err := newTestJWTService().Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

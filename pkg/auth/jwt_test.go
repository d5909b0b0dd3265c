package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/cars-practice-api/internal/pkg/errors"
)

func newTestJWTService(t *testing.T, now *time.Time) *JWTService {
	t.Helper()
	s, err := NewJWTService("test-secret", 0)
	require.NoError(t, err)
	return s.WithClock(func() time.Time { return *now })
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService("", 24)
	assert.Error(t, err)
}

func TestJWTService_DefaultExpirationIsSevenDays(t *testing.T) {
	s, err := NewJWTService("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, s.Expiration())
}

func TestJWTService_RoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestJWTService(t, &now)

	token, err := s.GenerateToken(42, "reader@example.com")
	require.NoError(t, err)

	claims, err := s.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "reader@example.com", claims.Email)
	assert.Equal(t, Issuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, now.Add(7*24*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestJWTService_AcceptedUntilExpiry(t *testing.T) {
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	now := issued
	s := newTestJWTService(t, &now)

	token, err := s.GenerateToken(1, "a@example.com")
	require.NoError(t, err)

	now = issued.Add(7*24*time.Hour - time.Second)
	_, err = s.ParseToken(token)
	assert.NoError(t, err, "токен должен приниматься до истечения 7 дней")

	now = issued.Add(7*24*time.Hour + time.Second)
	_, err = s.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	now := time.Now()
	s := newTestJWTService(t, &now)
	other, err := NewJWTService("another-secret", 0)
	require.NoError(t, err)

	token, err := other.GenerateToken(1, "a@example.com")
	require.NoError(t, err)

	_, err = s.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsMalformedToken(t *testing.T) {
	now := time.Now()
	s := newTestJWTService(t, &now)

	_, err := s.ParseToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.ParseToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsUnexpectedAlgorithm(t *testing.T) {
	now := time.Now()
	s := newTestJWTService(t, &now)

	claims := &JWTCustomClaims{
		UserID: 1,
		Email:  "a@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(token, "."))

	_, err = s.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

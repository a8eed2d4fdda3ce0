package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-with-enough-entropy")

func newFixedClockService(at time.Time) *TokenService {
	svc := NewTokenService(testSecret, 0)
	svc.now = func() time.Time { return at }
	return svc
}

func TestTokenService_IssueValidate(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	token, err := svc.Issue("alice@example.com", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(token, ".")))

	subject, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", subject)
}

func TestTokenService_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTokenTTL, NewTokenService(testSecret, 0).DefaultTTL())
	assert.Equal(t, DefaultTokenTTL, NewTokenService(testSecret, -time.Second).DefaultTTL())
	assert.Equal(t, 30*time.Minute, NewTokenService(testSecret, 30*time.Minute).DefaultTTL())

	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newFixedClockService(issuedAt)

	token, err := svc.Issue("alice@example.com", -1)
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(DefaultTokenTTL).Unix(), claims.ExpiresAt.Unix())
}

func TestTokenService_Expired(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newFixedClockService(issuedAt)

	token, err := svc.Issue("alice@example.com", time.Minute)
	require.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(59 * time.Second) }
	_, err = svc.Validate(token)
	require.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Rejects(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	good, err := svc.Issue("alice@example.com", 0)
	require.NoError(t, err)

	otherKey, err := NewTokenService([]byte("another-secret"), time.Hour).Issue("alice@example.com", 0)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject: "alice@example.com", ExpiresAt: exp,
	}).SignedString(testSecret)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject: "alice@example.com", ExpiresAt: exp,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: exp,
	}).SignedString(testSecret)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "alice@example.com",
	}).SignedString(testSecret)
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"wrong secret", otherKey},
		{"wrong algorithm", hs512},
		{"alg none", none},
		{"missing subject", noSubject},
		{"missing expiry", noExpiry},
		{"tampered payload", tampered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, err := svc.Validate(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Empty(t, subject)
		})
	}
}

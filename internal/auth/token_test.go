package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testSecret = "test-secret"

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestTokenService(t *testing.T, clock *fakeClock) *TokenService {
	return NewTokenService(testSecret, time.Hour, zaptest.NewLogger(t), WithClock(clock.Now))
}

func signClaims(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestTokenService(t, clock)

	token, expiresAt, err := svc.Issue("admin")
	require.NoError(t, err)
	assert.Equal(t, clock.now.Add(time.Hour), expiresAt)
	assert.Len(t, strings.Split(token, "."), 3)

	subject, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", subject)

	clock.Advance(59 * time.Minute)
	subject, err = svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", subject)
}

func TestTokenService_IssueSetsClaims(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestTokenService(t, clock)

	token, _, err := svc.Issue("admin")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	assert.Equal(t, Issuer, claims.Issuer)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, clock.now.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, clock.now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)

	second, _, err := svc.Issue("admin")
	require.NoError(t, err)
	assert.NotEqual(t, token, second, "jti should make tokens unique")
}

func TestTokenService_Expired(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestTokenService(t, clock)

	token, _, err := svc.Issue("admin")
	require.NoError(t, err)

	clock.Advance(time.Hour + time.Second)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_InvalidTokens(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestTokenService(t, clock)

	valid, _, err := svc.Issue("admin")
	require.NoError(t, err)

	iat := jwt.NewNumericDate(clock.now)
	exp := jwt.NewNumericDate(clock.now.Add(time.Hour))

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-token"},
		{name: "tampered signature", token: valid[:strings.LastIndex(valid, ".")+1] + "c2lnbmF0dXJl"},
		{
			name: "wrong secret",
			token: signClaims(t, jwt.SigningMethodHS256, []byte("other-secret"), jwt.RegisteredClaims{
				Subject: "admin", Issuer: Issuer, IssuedAt: iat, ExpiresAt: exp,
			}),
		},
		{
			name: "wrong algorithm",
			token: signClaims(t, jwt.SigningMethodHS512, []byte(testSecret), jwt.RegisteredClaims{
				Subject: "admin", Issuer: Issuer, IssuedAt: iat, ExpiresAt: exp,
			}),
		},
		{
			name: "alg none",
			token: signClaims(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.RegisteredClaims{
				Subject: "admin", Issuer: Issuer, IssuedAt: iat, ExpiresAt: exp,
			}),
		},
		{
			name: "wrong issuer",
			token: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
				Subject: "admin", Issuer: "someone-else", IssuedAt: iat, ExpiresAt: exp,
			}),
		},
		{
			name: "missing subject",
			token: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
				Issuer: Issuer, IssuedAt: iat, ExpiresAt: exp,
			}),
		},
		{
			name: "missing issued at",
			token: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
				Subject: "admin", Issuer: Issuer, ExpiresAt: exp,
			}),
		},
		{
			name: "missing expiry",
			token: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
				Subject: "admin", Issuer: Issuer, IssuedAt: iat,
			}),
		},
		{
			name: "issued in the future",
			token: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
				Subject:   "admin",
				Issuer:    Issuer,
				IssuedAt:  jwt.NewNumericDate(clock.now.Add(10 * time.Minute)),
				ExpiresAt: exp,
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

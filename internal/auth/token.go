package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"starwars-gateway/internal/metrics"
)

// Issuer is stamped into every token and required on verification
const Issuer = "starwars-platform"

// TokenService issues and verifies HS256 bearer tokens. It holds no state besides the
// signing secret: tokens expire by timestamp only.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// TokenOption configures a TokenService
type TokenOption func(*TokenService)

// WithClock overrides the time source for issuing and verifying
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a token service signing with secret
func NewTokenService(secret string, ttl time.Duration, logger *zap.Logger, opts ...TokenOption) *TokenService {
	s := &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the lifetime of issued tokens
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for subject valid for the configured TTL
func (s *TokenService) Issue(subject string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	metrics.IncrementTokensIssued()
	s.logger.Debug("Issued token", zap.String("subject", subject), zap.String("jti", claims.ID))

	return signed, exp, nil
}

// Verify checks signature, issuer and lifetime and returns the token subject.
// An elapsed token yields ErrTokenExpired, every other failure ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			metrics.RecordTokenVerification("expired")
			return "", ErrTokenExpired
		}
		metrics.RecordTokenVerification("invalid")
		s.logger.Debug("Token rejected", zap.Error(err))
		return "", ErrInvalidToken
	}

	// exp and iss are enforced by the parser options; iat and sub must be present too
	if claims.IssuedAt == nil || claims.Subject == "" {
		metrics.RecordTokenVerification("invalid")
		return "", ErrInvalidToken
	}

	metrics.RecordTokenVerification("success")
	return claims.Subject, nil
}

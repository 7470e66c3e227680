package auth

import (
	"time"

	"go.uber.org/zap"

	"starwars-gateway/internal/metrics"
)

// TokenType is returned alongside every issued token
const TokenType = "Bearer"

// LoginResult is the outcome of a successful login
type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   time.Duration
	ExpiresAt   time.Time
}

// Service ties credential checking to token issuance
type Service struct {
	credentials *Credentials
	tokens      *TokenService
	logger      *zap.Logger
}

// NewService creates an auth service
func NewService(credentials *Credentials, tokens *TokenService, logger *zap.Logger) *Service {
	return &Service{
		credentials: credentials,
		tokens:      tokens,
		logger:      logger,
	}
}

// Login checks the credential pair and issues a token for it
func (s *Service) Login(username, password string) (*LoginResult, error) {
	if err := s.credentials.Verify(username, password); err != nil {
		metrics.RecordLoginAttempt("failed")
		s.logger.Info("Login rejected", zap.String("username", username))
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(s.credentials.username)
	if err != nil {
		return nil, err
	}

	metrics.RecordLoginAttempt("success")

	return &LoginResult{
		AccessToken: token,
		TokenType:   TokenType,
		ExpiresIn:   s.tokens.TTL(),
		ExpiresAt:   expiresAt,
	}, nil
}

// Verify validates a bearer token and returns its subject
func (s *Service) Verify(token string) (string, error) {
	return s.tokens.Verify(token)
}

package ewaste

import (
	"context"
	"reflect"

	"github.com/goliatone/go-errors"
)

// Auther orchestrates the identity provider and the token service: it is
// the only component that turns verified credentials into bearer tokens.
type Auther struct {
	provider     IdentityProvider
	signingKey   []byte
	logger       Logger
	tokenService TokenService
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator. The signing key is taken
// from cfg once at construction and passed into the token service by
// reference; nothing reads it from ambient state afterwards, so tests can
// inject a fixed secret for reproducible token assertions.
func NewAuthenticator(provider IdentityProvider, cfg Config) *Auther {
	tokenService := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		defLogger{},
	)

	return &Auther{
		provider:     provider,
		signingKey:   []byte(cfg.GetSigningKey()),
		logger:       defLogger{},
		tokenService: tokenService,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the credential pair and mints a bearer token for the
// matched identity.
func (s *Auther) Login(ctx context.Context, username, password string) (string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, username, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		return "", err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return "", ErrMismatchedHashAndPassword
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("Login token generation error", "error", err)
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to generate token")
	}

	return token, nil
}

// SessionFromToken validates a bearer token and returns the session it
// carries. Validation is stateless: it never reads the user store.
func (s *Auther) SessionFromToken(token string) (Session, error) {
	claims, err := s.tokenService.Validate(token)
	if err != nil {
		return nil, err
	}
	return sessionFromAuthClaims(claims), nil
}

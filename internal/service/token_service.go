package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tweetbook/internal/config"
	"tweetbook/internal/models"
	"tweetbook/internal/repository"
)

// AuthObserver is told why a token was refused.
type AuthObserver interface {
	ObserveAuthFailure(reason string)
}

type TokenService interface {
	Issue(account *models.MinAccount) (string, error)
	Verify(ctx context.Context, rawToken string) (string, error)
	VerifyFromAddress(ctx context.Context, rawToken, addr string) (string, error)
}

type tokenService struct {
	userRepo  repository.UserRepository
	secret    []byte
	issuer    string
	ttlMonths int
	now       func() time.Time
	observer  AuthObserver
}

func NewTokenService(userRepo repository.UserRepository, cfg config.Token, observer AuthObserver) TokenService {
	return &tokenService{
		userRepo:  userRepo,
		secret:    []byte(cfg.Secret),
		issuer:    cfg.Issuer,
		ttlMonths: cfg.TTLMonths,
		now:       time.Now,
		observer:  observer,
	}
}

func (s *tokenService) Issue(account *models.MinAccount) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   account.UserID,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.AddDate(0, s.ttlMonths, 0)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// Verify returns the id of the live account the token was issued to.
func (s *tokenService) Verify(ctx context.Context, rawToken string) (string, error) {
	creds, err := s.resolve(ctx, rawToken)
	if err != nil {
		return "", err
	}
	return creds.UserID, nil
}

// VerifyFromAddress is Verify that also requires addr to be one the account
// has signed up or signed in from.
func (s *tokenService) VerifyFromAddress(ctx context.Context, rawToken, addr string) (string, error) {
	creds, err := s.resolve(ctx, rawToken)
	if err != nil {
		return "", err
	}
	if !creds.KnowsAddress(addr) {
		s.fail("unknown_address")
		return "", models.ErrUnauthorized
	}
	return creds.UserID, nil
}

func (s *tokenService) resolve(ctx context.Context, rawToken string) (*models.Credentials, error) {
	if rawToken == "" {
		s.fail("missing")
		return nil, models.ErrUnauthorized
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(rawToken, claims,
		func(token *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		s.fail(failureReason(err))
		return nil, models.ErrUnauthorized
	}
	if claims.Subject == "" {
		s.fail("malformed")
		return nil, models.ErrUnauthorized
	}

	creds, err := s.userRepo.GetCredentialsByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, models.ErrUserNotExists) {
			s.fail("unknown_account")
			return nil, models.ErrUnauthorized
		}
		return nil, err
	}

	return creds, nil
}

func (s *tokenService) fail(reason string) {
	if s.observer != nil {
		s.observer.ObserveAuthFailure(reason)
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature"
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return "issuer"
	default:
		return "malformed"
	}
}

package service

import (
	"context"
	"errors"
	"fmt"

	"tweetbook/internal/models"
	"tweetbook/internal/password"
	"tweetbook/internal/query"
	"tweetbook/internal/repository"
)

// AuthResult is the identity handed back after signup or signin.
type AuthResult struct {
	Account *models.MinAccount
	Token   string
}

type AuthService interface {
	Signup(ctx context.Context, in models.SignupInput) (*AuthResult, error)
	Signin(ctx context.Context, email, password, addr string) (*AuthResult, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   TokenService
	hasher   password.Hasher
}

func NewAuthService(userRepo repository.UserRepository, tokens TokenService, hasher password.Hasher) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		hasher:   hasher,
	}
}

func (s *authService) Signup(ctx context.Context, in models.SignupInput) (*AuthResult, error) {
	account, err := s.userRepo.Add(ctx, in)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Account: account, Token: token}, nil
}

// Signin checks the password and records addr as a known address.
func (s *authService) Signin(ctx context.Context, email, password, addr string) (*AuthResult, error) {
	creds, err := s.userRepo.GetCredentials(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotExists) {
			return nil, models.ErrWrongEmailOrPassword
		}
		return nil, err
	}

	if err := s.hasher.Compare(creds.PasswordHash, password); err != nil {
		return nil, models.ErrWrongEmailOrPassword
	}

	var account *models.MinAccount
	if addr != "" && !creds.KnowsAddress(addr) {
		account, err = s.userRepo.Update(ctx, creds.UserID, query.NewUpdate(query.Users).AddToSet("active_ips", addr))
	} else {
		account, err = s.userRepo.GetMinByID(ctx, creds.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("load account after signin: %w", err)
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Account: account, Token: token}, nil
}

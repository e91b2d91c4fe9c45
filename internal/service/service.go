package service

import (
	"tweetbook/internal/config"
	"tweetbook/internal/password"
	"tweetbook/internal/repository"
	"tweetbook/internal/storage"
)

type Service struct {
	Token        TokenService
	Auth         AuthService
	User         UserService
	Post         PostService
	Relationship RelationshipService
	Health       HealthService
}

func NewService(rep *repository.Repository, cfg *config.Config, pinger Pinger, storage storage.Storage,
	hasher password.Hasher, observer AuthObserver) *Service {
	tokens := NewTokenService(rep.User, cfg.Token, observer)

	return &Service{
		Token:        tokens,
		Auth:         NewAuthService(rep.User, tokens, hasher),
		User:         NewUserService(rep.User, storage),
		Post:         NewPostService(rep.Post, rep),
		Relationship: NewRelationshipService(rep.User, rep),
		Health:       NewHealthService(pinger, rep.Stats),
	}
}

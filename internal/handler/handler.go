package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"

	"tweetbook/internal/config"
	"tweetbook/internal/service"
)

type Handlers struct {
	AuthService         service.AuthService
	UserService         service.UserService
	PostService         service.PostService
	RelationshipService service.RelationshipService
	HealthService       service.HealthService
	Cfg                 *config.Config
	Validate            *validator.Validate
}

func NewHandlers(service *service.Service, config *config.Config) *Handlers {
	return &Handlers{
		AuthService:         service.Auth,
		UserService:         service.User,
		PostService:         service.Post,
		RelationshipService: service.Relationship,
		HealthService:       service.Health,
		Cfg:                 config,
		Validate:            validator.New(),
	}
}

type contextKey string

const userIDKey contextKey = "userID"

// ContextWithUserID stores the verified account id for downstream handlers.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

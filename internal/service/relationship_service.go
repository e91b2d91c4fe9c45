package service

import (
	"context"

	"tweetbook/internal/models"
	"tweetbook/internal/query"
	"tweetbook/internal/repository"
)

// RelationshipService keeps the follow edge mirrored: B is in A.following
// exactly when A is in B.followers.
type RelationshipService interface {
	Follow(ctx context.Context, followerID, followeeID string) (*models.Account, error)
	Unfollow(ctx context.Context, followerID, followeeID string) (*models.Account, error)
}

type relationshipService struct {
	userRepo repository.UserRepository
	uow      repository.UnitOfWork
}

func NewRelationshipService(userRepo repository.UserRepository, uow repository.UnitOfWork) RelationshipService {
	return &relationshipService{
		userRepo: userRepo,
		uow:      uow,
	}
}

func (s *relationshipService) Follow(ctx context.Context, followerID, followeeID string) (*models.Account, error) {
	return s.link(ctx, followerID, followeeID, func(u *query.Update, field, id string) *query.Update {
		return u.AddToSet(field, id)
	})
}

func (s *relationshipService) Unfollow(ctx context.Context, followerID, followeeID string) (*models.Account, error) {
	return s.link(ctx, followerID, followeeID, func(u *query.Update, field, id string) *query.Update {
		return u.Pull(field, id)
	})
}

// link applies op to both sides of the edge in one unit of work and returns
// the hydrated followee.
func (s *relationshipService) link(ctx context.Context, followerID, followeeID string,
	op func(u *query.Update, field, id string) *query.Update) (*models.Account, error) {
	if _, err := s.userRepo.GetMinByID(ctx, followeeID); err != nil {
		return nil, err
	}
	if followerID == followeeID {
		return nil, models.ErrWrongInfo
	}

	err := s.uow.WithinTx(ctx, func(st repository.Stores) error {
		if _, err := st.User.Update(ctx, followerID, op(query.NewUpdate(query.Users), "following", followeeID)); err != nil {
			return err
		}
		_, err := st.User.Update(ctx, followeeID, op(query.NewUpdate(query.Users), "followers", followerID))
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, followeeID)
}

package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"tweetbook/internal/models"
	"tweetbook/internal/query"
	"tweetbook/internal/repository"
	"tweetbook/internal/storage"
)

// ProfileUpdate carries the editable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	Bio           *string
	ProfileImgURL *string
}

type UserService interface {
	Profile(ctx context.Context, userID string) (*models.Account, error)
	UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.MinAccount, error)
	Search(ctx context.Context, term string) ([]models.MinAccount, error)
	UploadProfileImage(ctx context.Context, userID, fileName string, file io.Reader, size int64) (*models.MinAccount, error)
}

type userService struct {
	userRepo repository.UserRepository
	storage  storage.Storage
}

func NewUserService(userRepo repository.UserRepository, storage storage.Storage) UserService {
	return &userService{
		userRepo: userRepo,
		storage:  storage,
	}
}

func (s *userService) Profile(ctx context.Context, userID string) (*models.Account, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.MinAccount, error) {
	if upd.Bio == nil && upd.ProfileImgURL == nil {
		return nil, models.ErrWrongInfo
	}

	u := query.NewUpdate(query.Users)
	if upd.Bio != nil {
		u.Set("bio", strings.TrimSpace(*upd.Bio))
	}
	if upd.ProfileImgURL != nil {
		u.Set("profile_img_url", strings.TrimSpace(*upd.ProfileImgURL))
	}

	return s.userRepo.Update(ctx, userID, u)
}

// Search matches usernames containing term, ignoring case.
func (s *userService) Search(ctx context.Context, term string) ([]models.MinAccount, error) {
	return s.userRepo.Search(ctx, strings.TrimSpace(term))
}

func (s *userService) UploadProfileImage(ctx context.Context, userID, fileName string, file io.Reader, size int64) (*models.MinAccount, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}

	objectName, imageURL, err := s.storage.UploadProfileImage(ctx, userID, fileName, file, size)
	if err != nil {
		return nil, err
	}

	account, err := s.userRepo.Update(ctx, userID, query.NewUpdate(query.Users).Set("profile_img_url", imageURL))
	if err != nil {
		if delErr := s.storage.DeleteObject(ctx, objectName); delErr != nil {
			slog.Warn("failed to remove orphaned profile image",
				slog.String("object", objectName),
				slog.String("error", delErr.Error()))
		}
		return nil, err
	}

	return account, nil
}

package test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"tweetbook/internal/models"
	"tweetbook/internal/repository"
	"tweetbook/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, in models.SignupInput) (*service.AuthResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) Signin(ctx context.Context, email, password, addr string) (*service.AuthResult, error) {
	args := m.Called(ctx, email, password, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Profile(ctx context.Context, userID string) (*models.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, upd service.ProfileUpdate) (*models.MinAccount, error) {
	args := m.Called(ctx, userID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MinAccount), args.Error(1)
}

func (m *MockUserService) Search(ctx context.Context, term string) ([]models.MinAccount, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MinAccount), args.Error(1)
}

func (m *MockUserService) UploadProfileImage(ctx context.Context, userID, fileName string, file io.Reader, size int64) (*models.MinAccount, error) {
	args := m.Called(ctx, userID, fileName, file, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MinAccount), args.Error(1)
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) List(ctx context.Context, page repository.Page) ([]models.PostView, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PostView), args.Error(1)
}

func (m *MockPostService) Get(ctx context.Context, postID string) (*models.PostView, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostView), args.Error(1)
}

func (m *MockPostService) Create(ctx context.Context, authorID, text string) (*models.PostView, error) {
	args := m.Called(ctx, authorID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostView), args.Error(1)
}

func (m *MockPostService) Like(ctx context.Context, postID, userID string) (*models.PostView, error) {
	args := m.Called(ctx, postID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostView), args.Error(1)
}

func (m *MockPostService) Unlike(ctx context.Context, postID, userID string) (*models.PostView, error) {
	args := m.Called(ctx, postID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostView), args.Error(1)
}

func (m *MockPostService) Delete(ctx context.Context, postID, requesterID string) error {
	args := m.Called(ctx, postID, requesterID)
	return args.Error(0)
}

type MockRelationshipService struct {
	mock.Mock
}

func (m *MockRelationshipService) Follow(ctx context.Context, followerID, followeeID string) (*models.Account, error) {
	args := m.Called(ctx, followerID, followeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockRelationshipService) Unfollow(ctx context.Context, followerID, followeeID string) (*models.Account, error) {
	args := m.Called(ctx, followerID, followeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) Check(ctx context.Context) (*models.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stats), args.Error(1)
}

package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tweetbook/internal/models"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadProfileImage(ctx context.Context, userID string, fileName string, file io.Reader, size int64) (string, string, error) {
	args := m.Called(ctx, userID, fileName, file, size)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockStorage) DeleteObject(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

func TestUserService_UpdateProfile(t *testing.T) {
	store := newMemStore()
	users := NewUserService(store, nil)
	ctx := context.Background()
	alice := seedAccount(t, store, "alice@example.com", "alice", "")

	bio := "  hello there "
	account, err := users.UpdateProfile(ctx, alice.UserID, ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	require.NotNil(t, account.Bio)
	assert.Equal(t, "hello there", *account.Bio)
	assert.Empty(t, account.ProfileImgURL)

	_, err = users.UpdateProfile(ctx, alice.UserID, ProfileUpdate{})
	assert.ErrorIs(t, err, models.ErrWrongInfo)

	_, err = users.UpdateProfile(ctx, "missing", ProfileUpdate{Bio: &bio})
	assert.ErrorIs(t, err, models.ErrUserNotExists)
}

func TestUserService_Search(t *testing.T) {
	store := newMemStore()
	users := NewUserService(store, nil)
	ctx := context.Background()
	seedAccount(t, store, "alice@example.com", "Alice99", "")
	seedAccount(t, store, "malice@example.com", "malice", "")
	seedAccount(t, store, "bob@example.com", "bob", "")

	found, err := users.Search(ctx, "ALI")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Alice99", found[0].Username)
	assert.Equal(t, "malice", found[1].Username)

	found, err = users.Search(ctx, "zed")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestUserService_Profile(t *testing.T) {
	store := newMemStore()
	users := NewUserService(store, nil)
	alice := seedAccount(t, store, "alice@example.com", "alice", "")

	account, err := users.Profile(context.Background(), alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, "alice", account.Username)
	assert.Empty(t, account.Posts)
}

func TestUserService_UploadProfileImage(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the image url on the account", func(t *testing.T) {
		store := newMemStore()
		storage := new(MockStorage)
		users := NewUserService(store, storage)
		alice := seedAccount(t, store, "alice@example.com", "alice", "")
		file := strings.NewReader("png-bytes")

		storage.On("UploadProfileImage", mock.Anything, alice.UserID, "me.png", file, int64(9)).
			Return("profiles/a/me.png", "http://localhost:9000/profile-images/profiles/a/me.png", nil)

		account, err := users.UploadProfileImage(ctx, alice.UserID, "me.png", file, 9)

		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9000/profile-images/profiles/a/me.png", account.ProfileImgURL)
		storage.AssertExpectations(t)
	})

	t.Run("removes the object when the account update fails", func(t *testing.T) {
		store := newMemStore()
		storage := new(MockStorage)
		users := NewUserService(store, storage)
		file := strings.NewReader("png-bytes")

		storage.On("UploadProfileImage", mock.Anything, "missing", "me.png", file, int64(9)).
			Return("profiles/x/me.png", "http://host/x", nil)
		storage.On("DeleteObject", mock.Anything, "profiles/x/me.png").Return(nil)

		_, err := users.UploadProfileImage(ctx, "missing", "me.png", file, 9)

		assert.ErrorIs(t, err, models.ErrUserNotExists)
		storage.AssertExpectations(t)
	})

	t.Run("upload failure", func(t *testing.T) {
		store := newMemStore()
		storage := new(MockStorage)
		users := NewUserService(store, storage)
		alice := seedAccount(t, store, "alice@example.com", "alice", "")

		storage.On("UploadProfileImage", mock.Anything, alice.UserID, "me.png", mock.Anything, int64(1)).
			Return("", "", errors.New("bucket unavailable"))

		_, err := users.UploadProfileImage(ctx, alice.UserID, "me.png", strings.NewReader("x"), 1)

		assert.Error(t, err)
		storage.AssertNotCalled(t, "DeleteObject", mock.Anything, mock.Anything)
	})
}

package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"tweetbook/internal/config"
)

type Storage interface {
	UploadProfileImage(ctx context.Context, userID string, fileName string, file io.Reader, size int64) (string, string, error)
	DeleteObject(ctx context.Context, objectName string) error
}

type MinIOClient struct {
	client *minio.Client
	cfg    config.MinIO
}

// NewMinIOClient connects to the object store and makes sure the profile
// image bucket exists.
func NewMinIOClient(ctx context.Context, cfg config.MinIO) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.BucketName, err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region})
		if err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.BucketName, err)
		}
		slog.Info("bucket created", slog.String("bucket", cfg.BucketName))
	}

	return &MinIOClient{client: client, cfg: cfg}, nil
}

// UploadProfileImage stores the file and returns its object name and public URL.
func (m *MinIOClient) UploadProfileImage(ctx context.Context, userID string, fileName string, file io.Reader, size int64) (string, string, error) {
	now := time.Now()
	objectName := ObjectName(userID, fileName, now)

	_, err := m.client.PutObject(ctx, m.cfg.BucketName, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: ContentType(fileName),
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"user-id":           userID,
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", "", fmt.Errorf("upload to minio: %w", err)
	}

	return objectName, m.ObjectURL(objectName), nil
}

func (m *MinIOClient) DeleteObject(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.cfg.BucketName, objectName,
		minio.RemoveObjectOptions{
			GovernanceBypass: true,
		})
	if err != nil {
		return fmt.Errorf("remove from minio: %w", err)
	}
	return nil
}

// ObjectURL is the public address of an object. MINIO_PUBLIC_URL wins over
// the endpoint when set.
func (m *MinIOClient) ObjectURL(objectName string) string {
	base := strings.TrimSuffix(m.cfg.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if m.cfg.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + m.cfg.Endpoint
	}
	return fmt.Sprintf("%s/%s/%s", base, m.cfg.BucketName, objectName)
}

func ObjectName(userID, fileName string, now time.Time) string {
	fileExt := strings.ToLower(filepath.Ext(fileName))
	if fileExt == "" {
		fileExt = ".jpg"
	}
	return fmt.Sprintf("profiles/%s/%d/%02d/%s%s",
		userID,
		now.Year(),
		now.Month(),
		uuid.New().String(),
		fileExt)
}

func ContentType(fileName string) string {
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName)))
	if contentType == "" {
		return "application/octet-stream"
	}
	return contentType
}

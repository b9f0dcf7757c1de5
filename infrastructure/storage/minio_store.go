package storage

import (
	"context"
	"fmt"

	"carmarket/config"
	apperrors "carmarket/pkg/errors"
	"carmarket/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinioStore 图片写入 MinIO / S3 兼容存储，返回相对路径 /uploads/<object>
type MinioStore struct {
	client   *minio.Client
	bucket   string
	maxBytes int64
}

// NewMinioStore connects and ensures the bucket exists
func NewMinioStore(ctx context.Context, cfg config.StorageConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
	}

	logger.Info("Object storage connected",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.Bucket),
	)
	return &MinioStore{client: client, bucket: cfg.Bucket, maxBytes: cfg.MaxSizeMB << 20}, nil
}

func (s *MinioStore) Save(ctx context.Context, u Upload) (string, error) {
	if err := validateSize(u, s.maxBytes); err != nil {
		return "", err
	}
	name, err := objectName(u)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, s.bucket, name, u.Body, u.Size,
		minio.PutObjectOptions{ContentType: contentType(u)})
	if err != nil {
		logger.Error("Image upload failed",
			zap.String("bucket", s.bucket),
			zap.String("object", name),
			zap.Error(err),
		)
		return "", apperrors.Wrap(err, apperrors.CodeStorage, "image storage unavailable")
	}
	return "/uploads/" + name, nil
}

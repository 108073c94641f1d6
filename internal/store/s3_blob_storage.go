package store

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ashmelev/cardvault/internal/config"
	"github.com/ashmelev/cardvault/internal/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// s3BlobStorage is the object-store implementation of [BlobStorage], backed
// by any S3-compatible endpoint (MinIO, AWS). Object PUTs are atomic on the
// server side, which satisfies the all-or-nothing write contract without
// extra work here.
type s3BlobStorage struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

// NewS3BlobStorage constructs a [BlobStorage] against the configured
// S3-compatible endpoint, creating the bucket if it does not exist yet.
func NewS3BlobStorage(ctx context.Context, cfg config.S3, logger *logger.Logger) (BlobStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
		}
	}

	logger.Debug().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.Bucket).Msg("creating s3 blob storage")
	return &s3BlobStorage{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

// Read returns the stored object bytes, or [ErrBlobNotFound] if no object
// exists under name.
func (s *s3BlobStorage) Read(ctx context.Context, name string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %q: %w", name, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		// GetObject is lazy: a missing key surfaces on the first read.
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("read object %q: %w", name, err)
	}

	return data, nil
}

// Write stores data under name, replacing any previous object.
func (s *s3BlobStorage) Write(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", name, err)
	}

	return nil
}

// Remove deletes the object. S3 deletes are idempotent, so removing an
// absent object succeeds.
func (s *s3BlobStorage) Remove(ctx context.Context, name string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", name, err)
	}

	return nil
}

package storage

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config holds the connection details for an S3-compatible backend.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	// URLExpiry bounds how long presigned download links stay valid.
	URLExpiry time.Duration
}

// S3Store keeps resume files in an S3-compatible bucket.
type S3Store struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, &StorageError{Op: "init", Key: cfg.Bucket, Cause: err}
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, &StorageError{Op: "init", Key: cfg.Bucket, Cause: err}
	}
	if !exists {
		opts := minio.MakeBucketOptions{Region: cfg.Region}
		if err := client.MakeBucket(ctx, cfg.Bucket, opts); err != nil {
			return nil, &StorageError{Op: "init", Key: cfg.Bucket, Cause: err}
		}
	}

	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &S3Store{client: client, bucket: cfg.Bucket, expiry: expiry}, nil
}

func (s *S3Store) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return &StorageError{Op: "save", Key: key, Cause: err}
	}
	return nil
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	return getWithRetry(ctx, key, func() ([]byte, error) {
		obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
		if err != nil {
			return nil, err
		}
		defer obj.Close()
		return io.ReadAll(obj)
	})
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return &StorageError{Op: "delete", Key: key, Cause: err}
	}
	return nil
}

func (s *S3Store) URL(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, nil)
	if err != nil {
		return "", &StorageError{Op: "url", Key: key, Cause: err}
	}
	return u.String(), nil
}

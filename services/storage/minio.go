package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL prefixes object keys in returned references. Defaults to the endpoint.
	PublicURL string
}

// MinioStore writes photos to an S3-compatible bucket.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinioStore(cfg MinioConfig) (*MinioStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: MinIO bucket is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: failed to create MinIO client: %w", err)
	}
	return &MinioStore{client: client, bucket: cfg.Bucket, publicURL: publicBase(cfg)}, nil
}

func publicBase(cfg MinioConfig) string {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/")
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
}

func (s *MinioStore) Name() string { return "minio" }

// EnsureBucket creates the photo bucket if it does not exist yet.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("storage: check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("storage: create bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *MinioStore) Put(ctx context.Context, sessionID string, u Upload) (string, error) {
	body, err := u.Open()
	if err != nil {
		return "", fmt.Errorf("storage: open %s: %w", u.Filename, err)
	}
	defer body.Close()

	key := folderFor(sessionID) + "/" + objectName(u.Filename)
	if _, err := s.client.PutObject(ctx, s.bucket, key, body, u.Size, minio.PutObjectOptions{
		ContentType: u.ContentType,
	}); err != nil {
		return "", fmt.Errorf("storage: failed to upload %s: %w", u.Filename, err)
	}
	return s.publicURL + "/" + key, nil
}

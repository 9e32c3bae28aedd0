package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"junkbutler/config"

	"github.com/google/uuid"
)

const (
	MaxPhotoSize = 10 << 20
	// MaxConcurrentUploads bounds the uploads of one request.
	MaxConcurrentUploads = 4
)

var (
	ErrUnsupportedType = errors.New("only image uploads are accepted")
	ErrTooLarge        = errors.New("photo exceeds the 10MB limit")
)

// Upload is one photo received from the client. Open may be called once.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// PhotoStore persists estimate photos and returns the reference the dialogue keeps.
type PhotoStore interface {
	Name() string
	Put(ctx context.Context, sessionID string, u Upload) (string, error)
}

// Validate rejects non-image and oversized uploads before anything is sent.
func (u Upload) Validate() error {
	if !strings.HasPrefix(strings.ToLower(u.ContentType), "image/") {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, u.Filename)
	}
	if u.Size > MaxPhotoSize {
		return fmt.Errorf("%w: %s", ErrTooLarge, u.Filename)
	}
	return nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// objectName gives each upload a unique, URL-safe name that keeps the original filename.
func objectName(filename string) string {
	base := unsafeChars.ReplaceAllString(path.Base(strings.ReplaceAll(filename, `\`, "/")), "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "photo"
	}
	return uuid.New().String() + "-" + base
}

func folderFor(sessionID string) string {
	return "estimates/" + sessionID
}

// NewPhotoStore picks Cloudinary when configured, then MinIO, then local references.
func NewPhotoStore(cfg config.Config) (PhotoStore, error) {
	switch {
	case cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "":
		return NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	case cfg.MinioEndpoint != "":
		return NewMinioStore(MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.MinioPublicURL,
		})
	default:
		return LocalStore{}, nil
	}
}

package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore uploads photos to Cloudinary and keeps the secure URL.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld}, nil
}

func (s *CloudinaryStore) Name() string { return "cloudinary" }

func (s *CloudinaryStore) Put(ctx context.Context, sessionID string, u Upload) (string, error) {
	body, err := u.Open()
	if err != nil {
		return "", fmt.Errorf("storage: open %s: %w", u.Filename, err)
	}
	defer body.Close()

	result, err := s.cld.Upload.Upload(ctx, body, uploader.UploadParams{
		Folder:   folderFor(sessionID),
		PublicID: objectName(u.Filename),
	})
	if err != nil {
		return "", fmt.Errorf("storage: failed to upload %s: %w", u.Filename, err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("storage: cloudinary rejected %s: %s", u.Filename, result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("storage: no URL returned for %s", u.Filename)
	}
	return result.SecureURL, nil
}

// LocalStore keeps no bytes; the reference only records that a photo was attached.
type LocalStore struct{}

func (LocalStore) Name() string { return "local" }

func (LocalStore) Put(ctx context.Context, sessionID string, u Upload) (string, error) {
	if u.Open != nil {
		body, err := u.Open()
		if err != nil {
			return "", fmt.Errorf("storage: open %s: %w", u.Filename, err)
		}
		_, _ = io.Copy(io.Discard, body)
		body.Close()
	}
	return fmt.Sprintf("local://%s/%s", sessionID, objectName(u.Filename)), nil
}

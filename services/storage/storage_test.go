package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"junkbutler/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upload(name, contentType string) Upload {
	return Upload{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(name)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(name)), nil
		},
	}
}

type recordingStore struct {
	failOn string
	calls  atomic.Int32
}

func (s *recordingStore) Name() string { return "recording" }

func (s *recordingStore) Put(ctx context.Context, sessionID string, u Upload) (string, error) {
	s.calls.Add(1)
	if u.Filename == s.failOn {
		return "", errors.New("upload failed")
	}
	return "mem://" + sessionID + "/" + u.Filename, nil
}

func TestUploadAllKeepsOrder(t *testing.T) {
	store := &recordingStore{}
	uploads := []Upload{
		upload("a.jpg", "image/jpeg"),
		upload("b.png", "image/png"),
		upload("c.jpg", "image/jpeg"),
		upload("d.jpg", "image/jpeg"),
		upload("e.heic", "image/heic"),
	}
	refs, err := UploadAll(context.Background(), store, "dlg-1", uploads)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"mem://dlg-1/a.jpg", "mem://dlg-1/b.png", "mem://dlg-1/c.jpg", "mem://dlg-1/d.jpg", "mem://dlg-1/e.heic",
	}, refs)
}

func TestUploadAllRejectsBeforeSending(t *testing.T) {
	store := &recordingStore{}
	big := upload("huge.jpg", "image/jpeg")
	big.Size = MaxPhotoSize + 1

	_, err := UploadAll(context.Background(), store, "dlg-1", []Upload{upload("a.jpg", "image/jpeg"), big})
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = UploadAll(context.Background(), store, "dlg-1", []Upload{upload("notes.pdf", "application/pdf")})
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Zero(t, store.calls.Load())
}

func TestUploadAllFailure(t *testing.T) {
	store := &recordingStore{failOn: "b.jpg"}
	refs, err := UploadAll(context.Background(), store, "dlg-1", []Upload{
		upload("a.jpg", "image/jpeg"),
		upload("b.jpg", "image/jpeg"),
	})
	assert.EqualError(t, err, "upload failed")
	assert.Nil(t, refs)
}

func TestLocalStoreReference(t *testing.T) {
	ref, err := LocalStore{}.Put(context.Background(), "dlg-1", upload(`C:\Users\me\my couch (1).jpg`, "image/jpeg"))
	require.NoError(t, err)
	assert.Regexp(t, `^local://dlg-1/[0-9a-f-]{36}-my_couch_1_.jpg$`, ref)
}

func TestObjectNameFallback(t *testing.T) {
	assert.Regexp(t, `^[0-9a-f-]{36}-photo$`, objectName("..."))
}

func TestNewPhotoStoreSelection(t *testing.T) {
	store, err := NewPhotoStore(config.Config{})
	require.NoError(t, err)
	assert.Equal(t, "local", store.Name())

	store, err = NewPhotoStore(config.Config{MinioEndpoint: "localhost:9000", MinioBucket: "photos"})
	require.NoError(t, err)
	assert.Equal(t, "minio", store.Name())
	assert.Equal(t, "http://localhost:9000/photos", store.(*MinioStore).publicURL)

	store, err = NewPhotoStore(config.Config{
		CloudinaryCloudName: "demo", CloudinaryAPIKey: "key", CloudinaryAPISecret: "secret",
		MinioEndpoint: "localhost:9000", MinioBucket: "photos",
	})
	require.NoError(t, err)
	assert.Equal(t, "cloudinary", store.Name())
}

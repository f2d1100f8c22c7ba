package storage

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"liftbrain/fitness-coach/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestValidatePhoto(t *testing.T) {
	assert.NoError(t, ValidatePhoto("image/jpeg", 1024))
	assert.NoError(t, ValidatePhoto("IMAGE/HEIC", MaxProgressPhotoSize))

	err := ValidatePhoto("image/gif", 10)
	assert.True(t, errors.Is(err, ErrUnsupportedContentType))

	err = ValidatePhoto("image/png", MaxProgressPhotoSize+1)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestProgressPhotoKey(t *testing.T) {
	now := time.UnixMilli(1736726400000)

	key := ProgressPhotoKey("u1", "Front.JPEG", "image/jpeg", now)
	assert.Regexp(t, regexp.MustCompile(`^progress-photos/u1/1736726400000-[0-9a-f-]{36}\.jpeg$`), key)

	key = ProgressPhotoKey("u1", "", "image/webp", now)
	assert.True(t, strings.HasSuffix(key, ".webp"))

	assert.NotEqual(t, ProgressPhotoKey("u1", "a.png", "image/png", now), ProgressPhotoKey("u1", "a.png", "image/png", now))
}

func TestPublicObjectURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/progress-photos/k.jpg",
		PublicObjectURL("https://cdn.example.com/", "bucket", "eu-west-1", "progress-photos/k.jpg"))
	assert.Equal(t, "https://bucket.s3.eu-west-1.amazonaws.com/progress-photos/k.jpg",
		PublicObjectURL("", "bucket", "eu-west-1", "progress-photos/k.jpg"))
}

func TestS3Storage_PresignUpload(t *testing.T) {
	store, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		BucketName:      "photos",
	}, zap.NewNop())
	require.NoError(t, err)

	url, err := store.GeneratePresignedUploadURL(context.Background(), "progress-photos/u1/x.jpg", "image/jpeg", ProgressPhotoURLExpiry)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/photos/progress-photos/u1/x.jpg?"))
	assert.Contains(t, url, "X-Amz-Expires=60")
}

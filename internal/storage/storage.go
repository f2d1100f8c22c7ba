package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProgressPhotoURLExpiry is how long a presigned upload URL stays valid.
const ProgressPhotoURLExpiry = 60 * time.Second

// MaxProgressPhotoSize is the largest photo a client may announce, in bytes.
const MaxProgressPhotoSize = 10 << 20

// Error constants for the storage layer
var (
	ErrUnsupportedContentType = errors.New("unsupported image type")
	ErrFileTooLarge           = errors.New("file exceeds the 10 MB limit")
)

var unsafeFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
	"image/heif": ".heif",
}

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// PublicURL is where the object can be read once uploaded.
	PublicURL(objectKey string) string
}

// ValidatePhoto checks the announced content type and size of a progress photo.
func ValidatePhoto(contentType string, size int64) error {
	if _, ok := photoExtensions[strings.ToLower(contentType)]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedContentType, contentType)
	}
	if size > MaxProgressPhotoSize {
		return ErrFileTooLarge
	}
	return nil
}

// ProgressPhotoKey builds progress-photos/<userID>/<unixMillis>-<uuid><ext>.
// The extension comes from the sanitized file name when present, else from the content type.
func ProgressPhotoKey(userID, fileName, contentType string, now time.Time) string {
	ext := strings.ToLower(path.Ext(unsafeFileNameChars.ReplaceAllString(fileName, "")))
	if ext == "." {
		ext = ""
	}
	if ext == "" {
		ext = photoExtensions[strings.ToLower(contentType)]
	}
	return fmt.Sprintf("progress-photos/%s/%d-%s%s", userID, now.UnixMilli(), uuid.NewString(), ext)
}

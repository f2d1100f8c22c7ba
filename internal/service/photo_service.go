package service

import (
	"context"
	"errors"
	"time"

	"liftbrain/fitness-coach/internal/domain"
	"liftbrain/fitness-coach/internal/repository"
	"liftbrain/fitness-coach/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var ErrUploadURLError = errors.New("unable to create upload link")

// PhotoUpload is what the client needs to PUT a progress photo straight to storage.
type PhotoUpload struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"` // Seconds
}

type PhotoService interface {
	CreateUploadURL(ctx context.Context, userID primitive.ObjectID, contentType, fileName string, size int64) (*PhotoUpload, error)
}

type photoService struct {
	photoRepo repository.ProgressPhotoRepository
	store     storage.FileStorage
	logger    *zap.Logger
	now       func() time.Time
}

func NewPhotoService(photoRepo repository.ProgressPhotoRepository, store storage.FileStorage, logger *zap.Logger) PhotoService {
	return &photoService{photoRepo: photoRepo, store: store, logger: logger, now: time.Now}
}

// CreateUploadURL validates the file, presigns a PUT and records the upload metadata.
func (s *photoService) CreateUploadURL(ctx context.Context, userID primitive.ObjectID, contentType, fileName string, size int64) (*PhotoUpload, error) {
	if err := storage.ValidatePhoto(contentType, size); err != nil {
		return nil, err
	}

	key := storage.ProgressPhotoKey(userID.Hex(), fileName, contentType, s.now())
	uploadURL, err := s.store.GeneratePresignedUploadURL(ctx, key, contentType, storage.ProgressPhotoURLExpiry)
	if err != nil {
		s.logger.Error("presign progress photo failed", zap.String("userId", userID.Hex()), zap.Error(err))
		return nil, ErrUploadURLError
	}

	photo := &domain.ProgressPhoto{
		UserID:      userID,
		ObjectKey:   key,
		FileURL:     s.store.PublicURL(key),
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
	}
	if _, err := s.photoRepo.Create(ctx, photo); err != nil {
		s.logger.Error("save progress photo metadata failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	return &PhotoUpload{
		UploadURL: uploadURL,
		FileURL:   photo.FileURL,
		Key:       key,
		ExpiresIn: int(storage.ProgressPhotoURLExpiry / time.Second),
	}, nil
}

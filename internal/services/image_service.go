package services

import (
	"context"
	"errors"
	"fmt"

	"eventim/internal/models"
	"eventim/internal/repositories"
	"eventim/pkg/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Upload is a file read fully into memory from a multipart request.
type Upload struct {
	Filename string
	Data     []byte
}

// ImageService validates uploads and resolves stored images. Without a blob store the
// bytes are kept inline in the images table.
type ImageService struct {
	repo     repositories.ImageRepository
	blobs    storage.BlobStore
	maxBytes int64
	log      *zap.Logger
}

// NewImageService creates a new ImageService. blobs may be nil; maxBytes <= 0 disables
// the size check.
func NewImageService(repo repositories.ImageRepository, blobs storage.BlobStore, maxBytes int64, log *zap.Logger) *ImageService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ImageService{repo: repo, blobs: blobs, maxBytes: maxBytes, log: log}
}

// Prepare checks an upload and returns the image row to insert along with the entity.
// A nil upload yields a nil image. When the bytes went to a blob store, release removes
// them again and must be called if the surrounding transaction fails.
func (s *ImageService) Prepare(ctx context.Context, field string, up *Upload) (img *models.Image, release func(), err error) {
	release = func() {}
	if up == nil {
		return nil, release, nil
	}
	if len(up.Data) == 0 {
		return nil, release, invalid(field, "Die hochgeladene Datei ist leer.")
	}
	if s.maxBytes > 0 && int64(len(up.Data)) > s.maxBytes {
		return nil, release, invalid(field, fmt.Sprintf("Die Datei darf höchstens %d MB groß sein.", s.maxBytes>>20))
	}
	mt := mimetype.Detect(up.Data)
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		return nil, release, invalid(field, "Nur JPEG-, PNG-, GIF- und WebP-Bilder sind erlaubt.")
	}

	img = &models.Image{ID: uuid.New().String(), MimeType: mt.String()}
	if s.blobs == nil {
		img.Data = up.Data
		return img, release, nil
	}

	key := "images/" + img.ID
	if err := s.blobs.Put(ctx, key, up.Data, img.MimeType); err != nil {
		return nil, release, fmt.Errorf("failed to store image %s: %w", key, err)
	}
	img.StorageKey = key
	release = func() {
		if err := s.blobs.Delete(context.Background(), key); err != nil {
			s.log.Warn("failed to remove orphaned image blob", zap.String("key", key), zap.Error(err))
		}
	}
	return img, release, nil
}

// Open returns the image row and its bytes.
func (s *ImageService) Open(ctx context.Context, id string) (*models.Image, []byte, error) {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if img.StorageKey == "" {
		return img, img.Data, nil
	}
	if s.blobs == nil {
		return nil, nil, fmt.Errorf("image %s lives in blob storage, but none is configured", id)
	}
	data, err := s.blobs.Get(ctx, img.StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, fmt.Errorf("image with ID %s %w", id, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read image %s: %w", id, err)
	}
	return img, data, nil
}

package repositories

import (
	"context"

	"eventim/internal/models"
)

// ImageRepository defines the interface for image metadata and inline blob access.
type ImageRepository interface {
	GetByID(ctx context.Context, id string) (*models.Image, error)
}

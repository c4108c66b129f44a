package repositories

import (
	"context"

	"eventim/internal/models"
)

// VenueCreation describes a venue with its areas and optional image.
type VenueCreation struct {
	Venue *models.Venue
	Areas []models.VenueArea
	Image *models.Image
}

// VenueRepository defines the interface for venue data access.
type VenueRepository interface {
	Create(ctx context.Context, c VenueCreation) error
	GetAll(ctx context.Context) ([]models.Venue, error)
	GetByID(ctx context.Context, id string) (*models.Venue, error)
	Delete(ctx context.Context, id string) error
}

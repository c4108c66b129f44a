package repositories

import (
	"context"

	"eventim/internal/models"
)

// GenreSelection is one genre block of a tour: a genre and the chosen subgenres of it.
type GenreSelection struct {
	GenreID     string
	SubgenreIDs []string
}

// TourCreation describes a tour together with every dependent row that is inserted with it.
type TourCreation struct {
	Tour      *models.Tour
	ArtistIDs []string
	Genres    []GenreSelection
	Image     *models.Image
}

// TourRepository defines the interface for tour data access.
type TourRepository interface {
	// Create persists the tour, its image, subgenre and artist links as one unit.
	Create(ctx context.Context, c TourCreation) error
	GetAll(ctx context.Context) ([]models.Tour, error)
	GetByID(ctx context.Context, id string) (*models.Tour, error)
	Delete(ctx context.Context, id string) error
}

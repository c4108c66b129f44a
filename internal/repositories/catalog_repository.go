package repositories

import (
	"context"

	"eventim/internal/models"
)

// CatalogRepository covers the simple catalog entities that are created with a single
// insert: countries, cities, areas, artists, genres and subgenres.
type CatalogRepository interface {
	ListCountries(ctx context.Context) ([]models.Country, error)
	CreateCountry(ctx context.Context, country *models.Country) error

	ListCities(ctx context.Context, countryID string) ([]models.City, error)
	CreateCity(ctx context.Context, city *models.City) error

	ListAreas(ctx context.Context) ([]models.Area, error)
	CreateArea(ctx context.Context, area *models.Area) error

	ListArtists(ctx context.Context) ([]models.Artist, error)
	GetArtist(ctx context.Context, id string) (*models.Artist, error)
	CreateArtist(ctx context.Context, artist *models.Artist, image *models.Image) error
	UpdateArtist(ctx context.Context, artist *models.Artist) error
	DeleteArtist(ctx context.Context, id string) error

	ListGenres(ctx context.Context) ([]models.Genre, error)
	CreateGenre(ctx context.Context, genre *models.Genre) error
	ListSubgenres(ctx context.Context, genreID string) ([]models.Subgenre, error)
	CreateSubgenre(ctx context.Context, subgenre *models.Subgenre) error
}

package services

import (
	"context"
	"strings"

	"eventim/internal/models"
	"eventim/internal/repositories"
)

type NameRequest struct {
	Name string `json:"name" validate:"notblank,max=100"`
}

type CityRequest struct {
	Name       string `json:"name" validate:"notblank,max=100"`
	PostalCode string `json:"postal_code" validate:"max=20"`
	CountryID  string `json:"country_id" validate:"notblank"`
}

type ArtistRequest struct {
	Name        string `json:"name" validate:"notblank,max=255"`
	Description string `json:"description"`
}

type SubgenreRequest struct {
	Name    string `json:"name" validate:"notblank,max=100"`
	GenreID string `json:"genre_id" validate:"notblank"`
}

// CatalogService manages the reference data tours, venues and events point at.
type CatalogService struct {
	repo   repositories.CatalogRepository
	images *ImageService
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.CatalogRepository, images *ImageService) *CatalogService {
	if images == nil {
		images = NewImageService(nil, nil, 0, nil)
	}
	return &CatalogService{repo: repo, images: images}
}

func (s *CatalogService) ListCountries(ctx context.Context) ([]models.Country, error) {
	return s.repo.ListCountries(ctx)
}

func (s *CatalogService) CreateCountry(ctx context.Context, req NameRequest) (*models.Country, error) {
	if err := validateStruct(&req); err != nil {
		return nil, err
	}
	country := &models.Country{Name: strings.TrimSpace(req.Name)}
	if err := s.repo.CreateCountry(ctx, country); err != nil {
		return nil, err
	}
	return country, nil
}

func (s *CatalogService) ListCities(ctx context.Context, countryID string) ([]models.City, error) {
	return s.repo.ListCities(ctx, strings.TrimSpace(countryID))
}

func (s *CatalogService) CreateCity(ctx context.Context, req CityRequest) (*models.City, error) {
	if err := validateStruct(&req); err != nil {
		return nil, err
	}
	city := &models.City{
		Name:       strings.TrimSpace(req.Name),
		PostalCode: strings.TrimSpace(req.PostalCode),
		CountryID:  strings.TrimSpace(req.CountryID),
	}
	if err := s.repo.CreateCity(ctx, city); err != nil {
		return nil, err
	}
	return city, nil
}

func (s *CatalogService) ListAreas(ctx context.Context) ([]models.Area, error) {
	return s.repo.ListAreas(ctx)
}

func (s *CatalogService) CreateArea(ctx context.Context, req NameRequest) (*models.Area, error) {
	if err := validateStruct(&req); err != nil {
		return nil, err
	}
	area := &models.Area{Name: strings.TrimSpace(req.Name)}
	if err := s.repo.CreateArea(ctx, area); err != nil {
		return nil, err
	}
	return area, nil
}

func (s *CatalogService) ListArtists(ctx context.Context) ([]models.Artist, error) {
	return s.repo.ListArtists(ctx)
}

func (s *CatalogService) GetArtist(ctx context.Context, id string) (*models.Artist, error) {
	return s.repo.GetArtist(ctx, id)
}

// CreateArtist stores the artist and its optional image together.
func (s *CatalogService) CreateArtist(ctx context.Context, req ArtistRequest, image *Upload) (*models.Artist, error) {
	if err := validateStruct(&req); err != nil {
		return nil, err
	}
	img, release, err := s.images.Prepare(ctx, "image", image)
	if err != nil {
		return nil, err
	}
	artist := &models.Artist{Name: strings.TrimSpace(req.Name), Description: strings.TrimSpace(req.Description)}
	if err := s.repo.CreateArtist(ctx, artist, img); err != nil {
		release()
		return nil, err
	}
	return artist, nil
}

func (s *CatalogService) UpdateArtist(ctx context.Context, id string, req ArtistRequest) (*models.Artist, error) {
	if err := validateStruct(&req); err != nil {
		return nil, err
	}
	artist := &models.Artist{ID: id, Name: strings.TrimSpace(req.Name), Description: strings.TrimSpace(req.Description)}
	if err := s.repo.UpdateArtist(ctx, artist); err != nil {
		return nil, err
	}
	return s.repo.GetArtist(ctx, id)
}

func (s *CatalogService) DeleteArtist(ctx context.Context, id string) error {
	return s.repo.DeleteArtist(ctx, id)
}

func (s *CatalogService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	return s.repo.ListGenres(ctx)
}

func (s *CatalogService) CreateGenre(ctx context.Context, req NameRequest) (*models.Genre, error) {
	if err := validateStruct(&req); err != nil {
		return nil, err
	}
	genre := &models.Genre{Name: strings.TrimSpace(req.Name)}
	if err := s.repo.CreateGenre(ctx, genre); err != nil {
		return nil, err
	}
	return genre, nil
}

func (s *CatalogService) ListSubgenres(ctx context.Context, genreID string) ([]models.Subgenre, error) {
	return s.repo.ListSubgenres(ctx, strings.TrimSpace(genreID))
}

func (s *CatalogService) CreateSubgenre(ctx context.Context, req SubgenreRequest) (*models.Subgenre, error) {
	if err := validateStruct(&req); err != nil {
		return nil, err
	}
	subgenre := &models.Subgenre{Name: strings.TrimSpace(req.Name), GenreID: strings.TrimSpace(req.GenreID)}
	if err := s.repo.CreateSubgenre(ctx, subgenre); err != nil {
		return nil, err
	}
	return subgenre, nil
}

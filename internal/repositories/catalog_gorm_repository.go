package repositories

import (
	"context"
	"fmt"

	"eventim/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCatalogRepository is a GORM implementation of CatalogRepository.
type GORMCatalogRepository struct {
	db *gorm.DB
}

// NewGORMCatalogRepository creates a new instance of GORMCatalogRepository.
func NewGORMCatalogRepository(db *gorm.DB) *GORMCatalogRepository {
	return &GORMCatalogRepository{db: db}
}

func (r *GORMCatalogRepository) ListCountries(ctx context.Context) ([]models.Country, error) {
	var countries []models.Country
	if err := r.db.WithContext(ctx).Order("name").Find(&countries).Error; err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	return countries, nil
}

func (r *GORMCatalogRepository) CreateCountry(ctx context.Context, country *models.Country) error {
	if country.ID == "" {
		country.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(country).Error, "failed to create country")
}

// ListCities returns all cities, restricted to one country when countryID is set.
func (r *GORMCatalogRepository) ListCities(ctx context.Context, countryID string) ([]models.City, error) {
	var cities []models.City
	q := r.db.WithContext(ctx).Preload("Country").Order("name")
	if countryID != "" {
		q = q.Where("country_id = ?", countryID)
	}
	if err := q.Find(&cities).Error; err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	return cities, nil
}

func (r *GORMCatalogRepository) CreateCity(ctx context.Context, city *models.City) error {
	if city.ID == "" {
		city.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireIDs(tx, &models.Country{}, "country", []string{city.CountryID}); err != nil {
			return err
		}
		return translate(tx.Create(city).Error, "failed to create city")
	})
}

func (r *GORMCatalogRepository) ListAreas(ctx context.Context) ([]models.Area, error) {
	var areas []models.Area
	if err := r.db.WithContext(ctx).Order("name").Find(&areas).Error; err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	return areas, nil
}

func (r *GORMCatalogRepository) CreateArea(ctx context.Context, area *models.Area) error {
	if area.ID == "" {
		area.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(area).Error, "failed to create area")
}

func (r *GORMCatalogRepository) ListArtists(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist
	if err := r.db.WithContext(ctx).Order("name").Find(&artists).Error; err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}
	return artists, nil
}

func (r *GORMCatalogRepository) GetArtist(ctx context.Context, id string) (*models.Artist, error) {
	var artist models.Artist
	if err := r.db.WithContext(ctx).First(&artist, "id = ?", id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("artist with ID %s", id))
	}
	return &artist, nil
}

// CreateArtist inserts the artist and its optional image in one transaction.
func (r *GORMCatalogRepository) CreateArtist(ctx context.Context, artist *models.Artist, image *models.Image) error {
	if artist.ID == "" {
		artist.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insertImage(tx, image, "artist", artist.ID); err != nil {
			return err
		}
		if image != nil {
			artist.ImageID = &image.ID
		}
		return translate(tx.Create(artist).Error, "failed to create artist")
	})
}

// UpdateArtist overwrites name and description of an existing artist.
func (r *GORMCatalogRepository) UpdateArtist(ctx context.Context, artist *models.Artist) error {
	res := r.db.WithContext(ctx).Model(&models.Artist{}).Where("id = ?", artist.ID).
		Updates(map[string]interface{}{"name": artist.Name, "description": artist.Description})
	if res.Error != nil {
		return fmt.Errorf("failed to update artist: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("artist with ID %s %w", artist.ID, ErrNotFound)
	}
	return nil
}

// DeleteArtist removes an artist. Artists still linked to tours or events are kept and
// ErrConflict is returned.
func (r *GORMCatalogRepository) DeleteArtist(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var links int64
		if err := tx.Model(&models.TourArtist{}).Where("artist_id = ?", id).Count(&links).Error; err != nil {
			return fmt.Errorf("failed to check tour artists: %w", err)
		}
		var acts int64
		if err := tx.Model(&models.EventSupportingAct{}).Where("artist_id = ?", id).Count(&acts).Error; err != nil {
			return fmt.Errorf("failed to check supporting acts: %w", err)
		}
		if links+acts > 0 {
			return fmt.Errorf("artist %s is still referenced: %w", id, ErrConflict)
		}
		if err := tx.Where("entity_type = ? AND entity_id = ?", "artist", id).Delete(&models.Image{}).Error; err != nil {
			return fmt.Errorf("failed to delete artist images: %w", err)
		}
		res := tx.Delete(&models.Artist{}, "id = ?", id)
		if res.Error != nil {
			return translate(res.Error, "failed to delete artist")
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("artist with ID %s %w", id, ErrNotFound)
		}
		return nil
	})
}

func (r *GORMCatalogRepository) ListGenres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	err := r.db.WithContext(ctx).
		Preload("Subgenres", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).
		Order("name").Find(&genres).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}

func (r *GORMCatalogRepository) CreateGenre(ctx context.Context, genre *models.Genre) error {
	if genre.ID == "" {
		genre.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Omit("Subgenres").Create(genre).Error, "failed to create genre")
}

func (r *GORMCatalogRepository) ListSubgenres(ctx context.Context, genreID string) ([]models.Subgenre, error) {
	var subgenres []models.Subgenre
	q := r.db.WithContext(ctx).Order("name")
	if genreID != "" {
		q = q.Where("genre_id = ?", genreID)
	}
	if err := q.Find(&subgenres).Error; err != nil {
		return nil, fmt.Errorf("failed to list subgenres: %w", err)
	}
	return subgenres, nil
}

func (r *GORMCatalogRepository) CreateSubgenre(ctx context.Context, subgenre *models.Subgenre) error {
	if subgenre.ID == "" {
		subgenre.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireIDs(tx, &models.Genre{}, "genre", []string{subgenre.GenreID}); err != nil {
			return err
		}
		return translate(tx.Create(subgenre).Error, "failed to create subgenre")
	})
}

package repositories

import (
	"context"
	"fmt"

	"eventim/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMTourRepository is a GORM implementation of TourRepository.
type GORMTourRepository struct {
	db *gorm.DB
}

// NewGORMTourRepository creates a new instance of GORMTourRepository.
func NewGORMTourRepository(db *gorm.DB) *GORMTourRepository {
	return &GORMTourRepository{db: db}
}

// Create inserts image, tour, tour_subgenres and tour_artists rows in one transaction.
// Any failure rolls every insert back.
func (r *GORMTourRepository) Create(ctx context.Context, c TourCreation) error {
	tour := c.Tour
	if tour.ID == "" {
		tour.ID = uuid.New().String()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insertImage(tx, c.Image, "tour", tour.ID); err != nil {
			return err
		}
		if c.Image != nil {
			tour.ImageID = &c.Image.ID
		}

		if err := tx.Omit(clause.Associations).Create(tour).Error; err != nil {
			return fmt.Errorf("insert tour: %w", err)
		}

		subgenreLinks, err := tourSubgenreLinks(tx, tour.ID, c.Genres)
		if err != nil {
			return err
		}
		if len(subgenreLinks) > 0 {
			if err := tx.Create(&subgenreLinks).Error; err != nil {
				return fmt.Errorf("insert tour subgenres: %w", err)
			}
		}

		artistIDs := unique(c.ArtistIDs)
		if err := requireIDs(tx, &models.Artist{}, "artist", artistIDs); err != nil {
			return err
		}
		artistLinks := make([]models.TourArtist, 0, len(artistIDs))
		for _, id := range artistIDs {
			artistLinks = append(artistLinks, models.TourArtist{TourID: tour.ID, ArtistID: id})
		}
		if len(artistLinks) > 0 {
			if err := tx.Create(&artistLinks).Error; err != nil {
				return fmt.Errorf("insert tour artists: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create tour: %w", err)
	}
	return nil
}

// tourSubgenreLinks builds one join row per (tour, subgenre) and checks that every
// subgenre belongs to the genre of its block.
func tourSubgenreLinks(tx *gorm.DB, tourID string, genres []GenreSelection) ([]models.TourSubgenre, error) {
	seen := make(map[string]struct{})
	var links []models.TourSubgenre
	for i, g := range genres {
		ids := unique(g.SubgenreIDs)
		var count int64
		err := tx.Model(&models.Subgenre{}).Where("id IN ? AND genre_id = ?", ids, g.GenreID).Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("check subgenres of genre block %d: %w", i, err)
		}
		if int(count) != len(ids) {
			return nil, invalidReference("genre block %d: subgenres %v do not all belong to genre %s", i, ids, g.GenreID)
		}
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			links = append(links, models.TourSubgenre{TourID: tourID, SubgenreID: id})
		}
	}
	return links, nil
}

// GetAll retrieves all tours ordered by start date.
func (r *GORMTourRepository) GetAll(ctx context.Context) ([]models.Tour, error) {
	var tours []models.Tour
	err := r.withRelations(r.db.WithContext(ctx)).Order("start_date, title").Find(&tours).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all tours: %w", err)
	}
	return tours, nil
}

// GetByID retrieves a single tour with its artists and subgenres.
func (r *GORMTourRepository) GetByID(ctx context.Context, id string) (*models.Tour, error) {
	var tour models.Tour
	if err := r.withRelations(r.db.WithContext(ctx)).First(&tour, "id = ?", id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("tour with ID %s", id))
	}
	return &tour, nil
}

// Delete removes a tour and its links. Tours that still have events are kept and
// ErrConflict is returned.
func (r *GORMTourRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var events int64
		if err := tx.Model(&models.Event{}).Where("tour_id = ?", id).Count(&events).Error; err != nil {
			return fmt.Errorf("failed to check tour events: %w", err)
		}
		if events > 0 {
			return fmt.Errorf("tour %s still has %d events: %w", id, events, ErrConflict)
		}
		if err := tx.Where("tour_id = ?", id).Delete(&models.TourArtist{}).Error; err != nil {
			return fmt.Errorf("failed to delete tour artists: %w", err)
		}
		if err := tx.Where("tour_id = ?", id).Delete(&models.TourSubgenre{}).Error; err != nil {
			return fmt.Errorf("failed to delete tour subgenres: %w", err)
		}
		if err := tx.Where("entity_type = ? AND entity_id = ?", "tour", id).Delete(&models.Image{}).Error; err != nil {
			return fmt.Errorf("failed to delete tour images: %w", err)
		}
		res := tx.Delete(&models.Tour{}, "id = ?", id)
		if res.Error != nil {
			return translate(res.Error, "failed to delete tour")
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("tour with ID %s %w", id, ErrNotFound)
		}
		return nil
	})
}

func (r *GORMTourRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Artists.Artist").Preload("Subgenres.Subgenre")
}

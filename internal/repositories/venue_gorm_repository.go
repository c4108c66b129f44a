package repositories

import (
	"context"
	"fmt"

	"eventim/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMVenueRepository is a GORM implementation of VenueRepository.
type GORMVenueRepository struct {
	db *gorm.DB
}

// NewGORMVenueRepository creates a new instance of GORMVenueRepository.
func NewGORMVenueRepository(db *gorm.DB) *GORMVenueRepository {
	return &GORMVenueRepository{db: db}
}

// Create inserts image, venue and one venue_areas row per declared area in one transaction.
func (r *GORMVenueRepository) Create(ctx context.Context, c VenueCreation) error {
	venue := c.Venue
	if venue.ID == "" {
		venue.ID = uuid.New().String()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireIDs(tx, &models.City{}, "city", []string{venue.CityID}); err != nil {
			return err
		}
		if err := insertImage(tx, c.Image, "venue", venue.ID); err != nil {
			return err
		}
		if c.Image != nil {
			venue.ImageID = &c.Image.ID
		}

		if err := tx.Omit(clause.Associations).Create(venue).Error; err != nil {
			return fmt.Errorf("insert venue: %w", err)
		}

		areaIDs := make([]string, 0, len(c.Areas))
		for _, a := range c.Areas {
			areaIDs = append(areaIDs, a.AreaID)
		}
		if err := requireIDs(tx, &models.Area{}, "area", areaIDs); err != nil {
			return err
		}

		areas := make([]models.VenueArea, len(c.Areas))
		for i, a := range c.Areas {
			areas[i] = models.VenueArea{
				ID:          uuid.New().String(),
				VenueID:     venue.ID,
				AreaID:      a.AreaID,
				MaxCapacity: a.MaxCapacity,
			}
		}
		if len(areas) > 0 {
			if err := tx.Omit(clause.Associations).Create(&areas).Error; err != nil {
				return fmt.Errorf("insert venue areas: %w", err)
			}
		}
		venue.Areas = areas
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create venue: %w", err)
	}
	return nil
}

// GetAll retrieves all venues with city and areas.
func (r *GORMVenueRepository) GetAll(ctx context.Context) ([]models.Venue, error) {
	var venues []models.Venue
	if err := r.withRelations(r.db.WithContext(ctx)).Order("name").Find(&venues).Error; err != nil {
		return nil, fmt.Errorf("failed to get all venues: %w", err)
	}
	return venues, nil
}

// GetByID retrieves a single venue with city and areas.
func (r *GORMVenueRepository) GetByID(ctx context.Context, id string) (*models.Venue, error) {
	var venue models.Venue
	if err := r.withRelations(r.db.WithContext(ctx)).First(&venue, "id = ?", id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("venue with ID %s", id))
	}
	return &venue, nil
}

// Delete removes a venue and its areas unless events are scheduled there.
func (r *GORMVenueRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var events int64
		if err := tx.Model(&models.Event{}).Where("venue_id = ?", id).Count(&events).Error; err != nil {
			return fmt.Errorf("failed to check venue events: %w", err)
		}
		if events > 0 {
			return fmt.Errorf("venue %s still has %d events: %w", id, events, ErrConflict)
		}
		if err := tx.Where("venue_id = ?", id).Delete(&models.VenueArea{}).Error; err != nil {
			return fmt.Errorf("failed to delete venue areas: %w", err)
		}
		if err := tx.Where("entity_type = ? AND entity_id = ?", "venue", id).Delete(&models.Image{}).Error; err != nil {
			return fmt.Errorf("failed to delete venue images: %w", err)
		}
		res := tx.Delete(&models.Venue{}, "id = ?", id)
		if res.Error != nil {
			return translate(res.Error, "failed to delete venue")
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("venue with ID %s %w", id, ErrNotFound)
		}
		return nil
	})
}

func (r *GORMVenueRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("City.Country").Preload("Areas.Area")
}

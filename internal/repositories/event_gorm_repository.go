package repositories

import (
	"context"
	"fmt"

	"eventim/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMEventRepository is a GORM implementation of EventRepository.
type GORMEventRepository struct {
	db *gorm.DB
}

// NewGORMEventRepository creates a new instance of GORMEventRepository.
func NewGORMEventRepository(db *gorm.DB) *GORMEventRepository {
	return &GORMEventRepository{db: db}
}

// Create inserts the event, its supporting acts, categories and venue area allocations in
// one transaction. Allocations must reference areas of the event's venue and may not
// exceed an area's maximum capacity in total.
func (r *GORMEventRepository) Create(ctx context.Context, c EventCreation) error {
	event := c.Event
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireIDs(tx, &models.Tour{}, "tour", []string{event.TourID}); err != nil {
			return err
		}
		if err := requireIDs(tx, &models.Venue{}, "venue", []string{event.VenueID}); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(event).Error; err != nil {
			return fmt.Errorf("insert event: %w", err)
		}

		actIDs := unique(c.SupportingActIDs)
		if err := requireIDs(tx, &models.Artist{}, "artist", actIDs); err != nil {
			return err
		}
		if len(actIDs) > 0 {
			acts := make([]models.EventSupportingAct, 0, len(actIDs))
			for _, id := range actIDs {
				acts = append(acts, models.EventSupportingAct{EventID: event.ID, ArtistID: id})
			}
			if err := tx.Create(&acts).Error; err != nil {
				return fmt.Errorf("insert supporting acts: %w", err)
			}
		}

		if err := requireMarks(tx, c.Categories); err != nil {
			return err
		}

		var venueAreas []models.VenueArea
		if err := tx.Where("venue_id = ?", event.VenueID).Find(&venueAreas).Error; err != nil {
			return fmt.Errorf("load venue areas: %w", err)
		}
		remaining := make(map[string]int, len(venueAreas))
		for _, va := range venueAreas {
			remaining[va.ID] = va.MaxCapacity
		}

		categories := make([]models.EventCategory, len(c.Categories))
		for i, cat := range c.Categories {
			cat.ID = uuid.New().String()
			cat.EventID = event.ID
			allocations := cat.VenueAreas
			if err := tx.Omit(clause.Associations).Create(&cat).Error; err != nil {
				return fmt.Errorf("insert category %d: %w", i, err)
			}

			rows := make([]models.EventVenueArea, 0, len(allocations))
			for _, a := range allocations {
				left, ok := remaining[a.VenueAreaID]
				if !ok {
					return invalidReference("category %d: venue area %s does not belong to venue %s", i, a.VenueAreaID, event.VenueID)
				}
				if a.Capacity > left {
					return invalidReference("category %d: capacity %d exceeds remaining %d of venue area %s", i, a.Capacity, left, a.VenueAreaID)
				}
				remaining[a.VenueAreaID] = left - a.Capacity
				rows = append(rows, models.EventVenueArea{
					EventCategoryID: cat.ID,
					VenueAreaID:     a.VenueAreaID,
					Capacity:        a.Capacity,
				})
			}
			if len(rows) > 0 {
				if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
					return fmt.Errorf("insert allocations of category %d: %w", i, err)
				}
			}
			cat.VenueAreas = rows
			categories[i] = cat
		}
		event.Categories = categories
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func requireMarks(tx *gorm.DB, categories []models.EventCategory) error {
	var codes []string
	for _, c := range categories {
		if c.DisabilitySupportFor != nil {
			codes = append(codes, *c.DisabilitySupportFor)
		}
	}
	codes = unique(codes)
	if len(codes) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&models.DisabilityMark{}).Where("code IN ?", codes).Count(&count).Error; err != nil {
		return fmt.Errorf("check disability marks: %w", err)
	}
	if int(count) != len(codes) {
		return invalidReference("unknown disability mark in %v", codes)
	}
	return nil
}

// GetAll retrieves all events, restricted to one tour when tourID is set.
func (r *GORMEventRepository) GetAll(ctx context.Context, tourID string) ([]models.Event, error) {
	var events []models.Event
	q := r.db.WithContext(ctx).Preload("Tour").Preload("Venue.City").Order("start_time")
	if tourID != "" {
		q = q.Where("tour_id = ?", tourID)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to get all events: %w", err)
	}
	return events, nil
}

// GetByID retrieves an event with tour, venue, supporting acts and categories.
func (r *GORMEventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).
		Preload("Tour.Artists.Artist").
		Preload("Venue.City").
		Preload("SupportingActs.Artist").
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("price DESC, name") }).
		Preload("Categories.VenueAreas.VenueArea.Area").
		First(&event, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("event with ID %s", id))
	}
	return &event, nil
}

// ListCategories returns the categories of an event, most expensive first.
func (r *GORMEventRepository) ListCategories(ctx context.Context, eventID string) ([]models.EventCategory, error) {
	var exists int64
	if err := r.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", eventID).Count(&exists).Error; err != nil {
		return nil, fmt.Errorf("failed to check event %s: %w", eventID, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("event with ID %s %w", eventID, ErrNotFound)
	}
	var categories []models.EventCategory
	err := r.db.WithContext(ctx).
		Preload("VenueAreas.VenueArea.Area").
		Where("event_id = ?", eventID).
		Order("price DESC, name").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories of event %s: %w", eventID, err)
	}
	return categories, nil
}

// GetCategory retrieves a single event category.
func (r *GORMEventRepository) GetCategory(ctx context.Context, id string) (*models.EventCategory, error) {
	var category models.EventCategory
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("event category with ID %s", id))
	}
	return &category, nil
}

// Delete removes an event with its categories, allocations, supporting acts and the cart
// rows pointing at its categories.
func (r *GORMEventRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categoryIDs := tx.Model(&models.EventCategory{}).Select("id").Where("event_id = ?", id)
		if err := tx.Where("event_category_id IN (?)", categoryIDs).Delete(&models.EventVenueArea{}).Error; err != nil {
			return fmt.Errorf("failed to delete allocations: %w", err)
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete cart items: %w", err)
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.EventCategory{}).Error; err != nil {
			return fmt.Errorf("failed to delete categories: %w", err)
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.EventSupportingAct{}).Error; err != nil {
			return fmt.Errorf("failed to delete supporting acts: %w", err)
		}
		res := tx.Delete(&models.Event{}, "id = ?", id)
		if res.Error != nil {
			return translate(res.Error, "failed to delete event")
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("event with ID %s %w", id, ErrNotFound)
		}
		return nil
	})
}

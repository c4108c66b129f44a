package repositories

import (
	"context"

	"eventim/internal/models"
)

// EventCreation describes an event with its supporting acts and categories. Each category
// carries its venue area allocations in VenueAreas.
type EventCreation struct {
	Event            *models.Event
	SupportingActIDs []string
	Categories       []models.EventCategory
}

// EventRepository defines the interface for event data access.
type EventRepository interface {
	Create(ctx context.Context, c EventCreation) error
	GetAll(ctx context.Context, tourID string) ([]models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	ListCategories(ctx context.Context, eventID string) ([]models.EventCategory, error)
	GetCategory(ctx context.Context, id string) (*models.EventCategory, error)
	Delete(ctx context.Context, id string) error
}

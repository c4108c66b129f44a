package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventim/internal/models"
	"eventim/internal/repositories"

	"go.uber.org/zap"
)

type AllocationInput struct {
	VenueAreaID string `json:"venue_area_id" validate:"notblank"`
	Capacity    int    `json:"capacity" validate:"gt=0"`
}

type CategoryInput struct {
	Name                 string            `json:"name" validate:"notblank,max=255"`
	Price                float64           `json:"price" validate:"gte=0"`
	DisabilitySupportFor *string           `json:"disability_support_for" validate:"omitempty,max=10"`
	VenueAreas           []AllocationInput `json:"venue_areas" validate:"min=1,dive"`
}

// EventRequest is the body of POST /events.
type EventRequest struct {
	TourID           string          `json:"tour_id" validate:"notblank"`
	VenueID          string          `json:"venue_id" validate:"notblank"`
	DoorTime         time.Time       `json:"door_time"`
	StartTime        time.Time       `json:"start_time"`
	EndTime          time.Time       `json:"end_time"`
	SupportingActIDs []string        `json:"supporting_act_ids" validate:"dive,notblank"`
	Categories       []CategoryInput `json:"categories" validate:"min=1,dive"`
}

func (r *EventRequest) validate() (repositories.EventCreation, error) {
	var c repositories.EventCreation
	if err := validateStruct(r); err != nil {
		return c, err
	}
	switch {
	case r.DoorTime.IsZero():
		return c, invalid("door_time", "Der Einlass ist erforderlich.")
	case r.StartTime.IsZero():
		return c, invalid("start_time", "Der Beginn ist erforderlich.")
	case r.EndTime.IsZero():
		return c, invalid("end_time", "Das Ende ist erforderlich.")
	case r.DoorTime.After(r.StartTime):
		return c, invalid("door_time", "Der Einlass darf nicht nach dem Beginn liegen.")
	case !r.EndTime.After(r.StartTime):
		return c, invalid("end_time", "Das Ende muss nach dem Beginn liegen.")
	}

	categories := make([]models.EventCategory, 0, len(r.Categories))
	for i, in := range r.Categories {
		cat := models.EventCategory{Name: strings.TrimSpace(in.Name), Price: in.Price}
		if in.DisabilitySupportFor != nil {
			mark := strings.TrimSpace(*in.DisabilitySupportFor)
			if mark == "" {
				return c, invalid(fmt.Sprintf("categories[%d].disability_support_for", i), "Das Merkzeichen darf nicht leer sein.")
			}
			cat.DisabilitySupportFor = &mark
		}
		seen := make(map[string]bool, len(in.VenueAreas))
		for j, a := range in.VenueAreas {
			id := strings.TrimSpace(a.VenueAreaID)
			if seen[id] {
				return c, invalid(fmt.Sprintf("categories[%d].venue_areas[%d].venue_area_id", i, j), "Jeder Bereich darf pro Kategorie nur einmal zugeordnet werden.")
			}
			seen[id] = true
			cat.VenueAreas = append(cat.VenueAreas, models.EventVenueArea{VenueAreaID: id, Capacity: a.Capacity})
		}
		categories = append(categories, cat)
	}

	acts := make([]string, 0, len(r.SupportingActIDs))
	for _, id := range r.SupportingActIDs {
		acts = append(acts, strings.TrimSpace(id))
	}

	c.Event = &models.Event{
		TourID:    strings.TrimSpace(r.TourID),
		VenueID:   strings.TrimSpace(r.VenueID),
		DoorTime:  r.DoorTime,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
	c.SupportingActIDs = acts
	c.Categories = categories
	return c, nil
}

// EventService handles business logic related to events and their categories.
type EventService struct {
	repo   repositories.EventRepository
	events notifier
}

// NewEventService creates a new EventService.
func NewEventService(repo repositories.EventRepository, pub Publisher, log *zap.Logger) *EventService {
	return &EventService{repo: repo, events: newNotifier(pub, log)}
}

// CreateEvent persists the event with supporting acts, categories and venue area
// allocations as one unit.
func (s *EventService) CreateEvent(ctx context.Context, req EventRequest) (*models.Event, error) {
	creation, err := req.validate()
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, creation); err != nil {
		return nil, err
	}

	event := creation.Event
	s.events.publish(EventEventCreated, map[string]interface{}{
		"event_id":   event.ID,
		"tour_id":    event.TourID,
		"venue_id":   event.VenueID,
		"start_time": event.StartTime,
	})
	if created, err := s.repo.GetByID(ctx, event.ID); err == nil {
		return created, nil
	}
	return event, nil
}

func (s *EventService) GetAllEvents(ctx context.Context, tourID string) ([]models.Event, error) {
	return s.repo.GetAll(ctx, strings.TrimSpace(tourID))
}

func (s *EventService) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EventService) ListCategories(ctx context.Context, eventID string) ([]models.EventCategory, error) {
	return s.repo.ListCategories(ctx, eventID)
}

func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

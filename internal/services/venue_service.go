package services

import (
	"context"
	"strings"

	"eventim/internal/models"
	"eventim/internal/repositories"

	"go.uber.org/zap"
)

type VenueAreaInput struct {
	AreaID      string `json:"area_id" validate:"notblank"`
	MaxCapacity int    `json:"max_capacity" validate:"gt=0"`
}

// VenueRequest is the body of POST /venues.
type VenueRequest struct {
	Name   string           `json:"name" validate:"notblank,max=255"`
	Street string           `json:"street" validate:"max=255"`
	CityID string           `json:"city_id" validate:"notblank"`
	Areas  []VenueAreaInput `json:"areas" validate:"min=1,dive"`
}

// VenueService handles business logic related to venues.
type VenueService struct {
	repo   repositories.VenueRepository
	images *ImageService
	events notifier
}

// NewVenueService creates a new VenueService.
func NewVenueService(repo repositories.VenueRepository, images *ImageService, pub Publisher, log *zap.Logger) *VenueService {
	if images == nil {
		images = NewImageService(nil, nil, 0, log)
	}
	return &VenueService{repo: repo, images: images, events: newNotifier(pub, log)}
}

// CreateVenue persists the venue, its areas and the optional image in one transaction.
func (s *VenueService) CreateVenue(ctx context.Context, req VenueRequest, image *Upload) (*models.Venue, error) {
	if err := validateStruct(&req); err != nil {
		return nil, err
	}
	venue := &models.Venue{
		Name:   strings.TrimSpace(req.Name),
		Street: strings.TrimSpace(req.Street),
		CityID: strings.TrimSpace(req.CityID),
	}
	areas := make([]models.VenueArea, 0, len(req.Areas))
	for _, a := range req.Areas {
		areas = append(areas, models.VenueArea{AreaID: strings.TrimSpace(a.AreaID), MaxCapacity: a.MaxCapacity})
	}

	img, release, err := s.images.Prepare(ctx, "image", image)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, repositories.VenueCreation{Venue: venue, Areas: areas, Image: img}); err != nil {
		release()
		return nil, err
	}

	s.events.publish(EventVenueCreated, map[string]interface{}{"venue_id": venue.ID, "name": venue.Name})
	if created, err := s.repo.GetByID(ctx, venue.ID); err == nil {
		return created, nil
	}
	return venue, nil
}

func (s *VenueService) GetAllVenues(ctx context.Context) ([]models.Venue, error) {
	return s.repo.GetAll(ctx)
}

func (s *VenueService) GetVenueByID(ctx context.Context, id string) (*models.Venue, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *VenueService) DeleteVenue(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

package services

import (
	"context"
	"fmt"
	"strings"

	"eventim/internal/models"
	"eventim/internal/repositories"

	"go.uber.org/zap"
)

// GenreBlock selects subgenres of one genre for a tour.
type GenreBlock struct {
	GenreID     string   `json:"genre_id"`
	SubgenreIDs []string `json:"subgenre_ids"`
}

// TourRequest is the body of POST /tours.
type TourRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	StartDate   string       `json:"start_date"`
	EndDate     string       `json:"end_date"`
	ArtistIDs   []string     `json:"artist_ids"`
	Genres      []GenreBlock `json:"genres"`
}

// validate checks the request in a fixed order: scalar fields, the artist array, the
// genre blocks and finally each artist id. It reports the first failure only.
func (r *TourRequest) validate() (repositories.TourCreation, error) {
	var c repositories.TourCreation

	title := strings.TrimSpace(r.Title)
	if title == "" {
		return c, invalid("title", "Der Titel ist erforderlich.")
	}
	start, err := parseDate("start_date", r.StartDate)
	if err != nil {
		return c, err
	}
	end, err := parseDate("end_date", r.EndDate)
	if err != nil {
		return c, err
	}
	if end.Before(start) {
		return c, invalid("end_date", "Das Enddatum darf nicht vor dem Startdatum liegen.")
	}

	if len(r.ArtistIDs) == 0 {
		return c, invalid("artist_ids", "Mindestens ein Künstler ist erforderlich.")
	}

	genres := make([]repositories.GenreSelection, 0, len(r.Genres))
	for i, block := range r.Genres {
		genreID := strings.TrimSpace(block.GenreID)
		if genreID == "" {
			return c, invalid(fmt.Sprintf("genres[%d].genre_id", i), fmt.Sprintf("Genre-Block %d benötigt ein Genre.", i+1))
		}
		if len(block.SubgenreIDs) == 0 {
			return c, invalid(fmt.Sprintf("genres[%d].subgenre_ids", i), fmt.Sprintf("Genre-Block %d benötigt mindestens ein Subgenre.", i+1))
		}
		subgenres := make([]string, 0, len(block.SubgenreIDs))
		for j, id := range block.SubgenreIDs {
			id = strings.TrimSpace(id)
			if id == "" {
				return c, invalid(fmt.Sprintf("genres[%d].subgenre_ids[%d]", i, j), fmt.Sprintf("Genre-Block %d enthält ein leeres Subgenre.", i+1))
			}
			subgenres = append(subgenres, id)
		}
		genres = append(genres, repositories.GenreSelection{GenreID: genreID, SubgenreIDs: subgenres})
	}

	artists := make([]string, 0, len(r.ArtistIDs))
	for i, id := range r.ArtistIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return c, invalid(fmt.Sprintf("artist_ids[%d]", i), fmt.Sprintf("Künstler %d hat keine gültige ID.", i+1))
		}
		artists = append(artists, id)
	}

	c.Tour = &models.Tour{
		Title:       title,
		Description: strings.TrimSpace(r.Description),
		StartDate:   start,
		EndDate:     end,
	}
	c.ArtistIDs = artists
	c.Genres = genres
	return c, nil
}

// TourService handles business logic related to tours.
type TourService struct {
	repo   repositories.TourRepository
	images *ImageService
	events notifier
}

// NewTourService creates a new TourService.
func NewTourService(repo repositories.TourRepository, images *ImageService, pub Publisher, log *zap.Logger) *TourService {
	if images == nil {
		images = NewImageService(nil, nil, 0, log)
	}
	return &TourService{repo: repo, images: images, events: newNotifier(pub, log)}
}

// CreateTour validates req and persists the tour with its image, subgenres and artists
// as one unit. Nothing is written when validation fails.
func (s *TourService) CreateTour(ctx context.Context, req TourRequest, image *Upload) (*models.Tour, error) {
	creation, err := req.validate()
	if err != nil {
		return nil, err
	}
	img, release, err := s.images.Prepare(ctx, "image", image)
	if err != nil {
		return nil, err
	}
	creation.Image = img
	if err := s.repo.Create(ctx, creation); err != nil {
		release()
		return nil, err
	}

	tour := creation.Tour
	s.events.publish(EventTourCreated, map[string]interface{}{"tour_id": tour.ID, "title": tour.Title})
	if created, err := s.repo.GetByID(ctx, tour.ID); err == nil {
		return created, nil
	}
	return tour, nil
}

func (s *TourService) GetAllTours(ctx context.Context) ([]models.Tour, error) {
	return s.repo.GetAll(ctx)
}

func (s *TourService) GetTourByID(ctx context.Context, id string) (*models.Tour, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TourService) DeleteTour(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

package repositories

import (
	"context"

	"eventim/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create inserts the user, its disability marks and the optional disability card
	// image in one transaction.
	Create(ctx context.Context, user *models.User, card *models.Image) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id string) error
	ListDisabilityMarks(ctx context.Context) ([]models.DisabilityMark, error)
}

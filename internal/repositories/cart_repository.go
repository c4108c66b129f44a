package repositories

import (
	"context"

	"eventim/internal/models"
)

// CartRepository defines the interface for cart item data access.
// Implementations must reject a second row for the same (user, event category) with ErrConflict.
type CartRepository interface {
	Create(ctx context.Context, item *models.CartItem) error
	GetByID(ctx context.Context, id string) (*models.CartItem, error)
	GetByUserAndCategory(ctx context.Context, userID, categoryID string) (*models.CartItem, error)
	ListByUser(ctx context.Context, userID string) ([]models.CartItem, error)
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	Delete(ctx context.Context, id string) error
}

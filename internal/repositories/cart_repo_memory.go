package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"eventim/internal/models"

	"github.com/google/uuid"
)

// MemoryCartRepository is an in-memory implementation of CartRepository.
type MemoryCartRepository struct {
	items map[string]models.CartItem
	mu    sync.RWMutex
}

// NewMemoryCartRepository creates a new instance of MemoryCartRepository.
func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{
		items: make(map[string]models.CartItem),
	}
}

// Create adds a new cart item.
func (r *MemoryCartRepository) Create(_ context.Context, item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.UserID == item.UserID && existing.EventCategoryID == item.EventCategoryID {
			return fmt.Errorf("cart item for category %s: %w", item.EventCategoryID, ErrConflict)
		}
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	r.items[item.ID] = *item
	return nil
}

// GetByID returns a cart item by its ID.
func (r *MemoryCartRepository) GetByID(_ context.Context, id string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("cart item with ID %s %w", id, ErrNotFound)
	}
	return &item, nil
}

// GetByUserAndCategory returns the user's row for a category.
func (r *MemoryCartRepository) GetByUserAndCategory(_ context.Context, userID, categoryID string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.UserID == userID && item.EventCategoryID == categoryID {
			item := item
			return &item, nil
		}
	}
	return nil, fmt.Errorf("cart item for category %s %w", categoryID, ErrNotFound)
}

// ListByUser returns all cart items of a user, oldest first.
func (r *MemoryCartRepository) ListByUser(_ context.Context, userID string) ([]models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]models.CartItem, 0)
	for _, item := range r.items {
		if item.UserID == userID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

// UpdateQuantity sets the quantity of a cart item.
func (r *MemoryCartRepository) UpdateQuantity(_ context.Context, id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("cart item with ID %s %w", id, ErrNotFound)
	}
	item.Quantity = quantity
	item.UpdatedAt = time.Now()
	r.items[id] = item
	return nil
}

// Delete removes a cart item.
func (r *MemoryCartRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("cart item with ID %s %w", id, ErrNotFound)
	}
	delete(r.items, id)
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eventim/internal/models"
	"eventim/internal/repositories"
	"eventim/internal/ticketing"

	"go.uber.org/zap"
)

// AddCartItemRequest is the body of POST /cart. Price is what the client displayed; the
// stored price always comes from the category.
type AddCartItemRequest struct {
	EventID         string  `json:"event_id" validate:"notblank"`
	EventCategoryID string  `json:"event_category_id" validate:"notblank"`
	Quantity        int     `json:"quantity" validate:"gte=1"`
	Price           float64 `json:"price" validate:"gte=0"`
}

// UpdateCartItemRequest is the body of PATCH /cart/:id.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=1"`
}

// CartService enforces the per-category booking rules: up to models.MaxRegularTickets
// tickets of a regular category and exactly one ticket of a disability category the
// viewer holds the mark for, in at most one cart row per category.
type CartService struct {
	cartRepo  repositories.CartRepository
	eventRepo repositories.EventRepository
	userRepo  repositories.UserRepository
	events    notifier
	log       *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, eventRepo repositories.EventRepository, userRepo repositories.UserRepository, pub Publisher, log *zap.Logger) *CartService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CartService{
		cartRepo:  cartRepo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
		events:    newNotifier(pub, log),
		log:       log,
	}
}

func (s *CartService) viewer(ctx context.Context, userID string) (ticketing.Viewer, error) {
	if userID == "" {
		return ticketing.Viewer{}, nil
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return ticketing.Viewer{}, err
	}
	return ticketing.ViewerFromUser(user), nil
}

// TicketOptions partitions the event's categories for the viewer and reports which of
// them already sit in the viewer's cart. userID may be empty for anonymous viewers.
func (s *CartService) TicketOptions(ctx context.Context, eventID, userID string) (*ticketing.Options, error) {
	categories, err := s.eventRepo.ListCategories(ctx, eventID)
	if err != nil {
		return nil, err
	}
	v, err := s.viewer(ctx, userID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		// The session outlived its user; show the page as to an anonymous viewer.
		v = ticketing.Viewer{}
	case err != nil:
		return nil, err
	}
	var cart []models.CartItem
	if v.LoggedIn() {
		if cart, err = s.cartRepo.ListByUser(ctx, userID); err != nil {
			return nil, err
		}
	}
	opts := ticketing.BuildOptions(eventID, categories, v, cart)
	return &opts, nil
}

// GetCart returns the user's cart items.
func (s *CartService) GetCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	return s.cartRepo.ListByUser(ctx, userID)
}

// AddItem creates a cart row. A second row for the same category is rejected with
// ErrAlreadyInCart, including when a concurrent request wins the insert.
func (s *CartService) AddItem(ctx context.Context, userID string, req AddCartItemRequest) (*models.CartItem, error) {
	if err := validateStruct(&req); err != nil {
		return nil, err
	}
	eventID := strings.TrimSpace(req.EventID)
	category, err := s.eventRepo.GetCategory(ctx, strings.TrimSpace(req.EventCategoryID))
	if err != nil {
		return nil, err
	}
	if category.EventID != eventID {
		return nil, invalid("event_category_id", "Die Kategorie gehört nicht zu dieser Veranstaltung.")
	}

	v, err := s.viewer(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ticketing.Eligible(*category, v) {
		return nil, ErrNotEligible
	}
	if err := checkQuantity(category, req.Quantity); err != nil {
		return nil, err
	}

	if _, err := s.cartRepo.GetByUserAndCategory(ctx, userID, category.ID); err == nil {
		return nil, ErrAlreadyInCart
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	item := &models.CartItem{
		UserID:          userID,
		EventID:         eventID,
		EventCategoryID: category.ID,
		Quantity:        req.Quantity,
		Price:           category.Price,
	}
	if err := s.cartRepo.Create(ctx, item); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, ErrAlreadyInCart
		}
		return nil, err
	}
	item.EventCategory = category

	s.events.publish(EventCartItemAdded, map[string]interface{}{
		"cart_item_id":      item.ID,
		"user_id":           userID,
		"event_category_id": category.ID,
		"quantity":          item.Quantity,
	})
	return item, nil
}

// UpdateQuantity sets the quantity of one of the user's cart rows. Rows of other users
// are reported as not found. A disability row cannot change.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID string, req UpdateCartItemRequest) (*models.CartItem, error) {
	if err := validateStruct(&req); err != nil {
		return nil, err
	}
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	category := item.EventCategory
	if category == nil {
		if category, err = s.eventRepo.GetCategory(ctx, item.EventCategoryID); err != nil {
			return nil, err
		}
	}
	if category.IsDisabilityCategory() {
		if req.Quantity == item.Quantity {
			return item, nil
		}
		return nil, ErrAlreadyInCart
	}
	if err := checkQuantity(category, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.cartRepo.UpdateQuantity(ctx, item.ID, req.Quantity); err != nil {
		return nil, err
	}
	item.Quantity = req.Quantity

	s.events.publish(EventCartItemUpdated, map[string]interface{}{
		"cart_item_id": item.ID,
		"user_id":      userID,
		"quantity":     item.Quantity,
	})
	return item, nil
}

// RemoveItem deletes one of the user's cart rows.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	return s.cartRepo.Delete(ctx, item.ID)
}

func (s *CartService) ownedItem(ctx context.Context, userID, itemID string) (*models.CartItem, error) {
	item, err := s.cartRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, fmt.Errorf("cart item with ID %s %w", itemID, repositories.ErrNotFound)
	}
	return item, nil
}

func checkQuantity(category *models.EventCategory, quantity int) error {
	if category.IsDisabilityCategory() {
		if quantity != models.DisabilityTickets {
			return invalid("quantity", "Für diese Kategorie kann genau ein Ticket gebucht werden.")
		}
		return nil
	}
	if quantity < 1 || quantity > models.MaxRegularTickets {
		return ErrCartLimitExceeded
	}
	return nil
}

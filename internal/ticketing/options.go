package ticketing

import "eventim/internal/models"

// CartEntry is the viewer's existing cart row for one category.
type CartEntry struct {
	CartItemID string `json:"cart_item_id"`
	Quantity   int    `json:"quantity"`
}

// Options is the payload of GET /events/:id/ticket-options: the partitioned categories of
// an event and which of them already sit in the viewer's cart.
type Options struct {
	EventID              string                 `json:"event_id"`
	DisabilityCategories []models.EventCategory `json:"disability_categories"`
	RegularCategories    []models.EventCategory `json:"regular_categories"`
	InCart               map[string]CartEntry   `json:"in_cart"`
	RegularMaxQuantity   int                    `json:"regular_max_quantity"`
	DisabilityQuantity   int                    `json:"disability_quantity"`
}

// BuildOptions partitions categories for v and indexes the viewer's cart rows that
// belong to them.
func BuildOptions(eventID string, categories []models.EventCategory, v Viewer, cart []models.CartItem) Options {
	disability, regular := Partition(categories, v)
	in := make(map[string]CartEntry)
	for _, item := range cart {
		if item.EventID != eventID {
			continue
		}
		in[item.EventCategoryID] = CartEntry{CartItemID: item.ID, Quantity: item.Quantity}
	}
	return Options{
		EventID:              eventID,
		DisabilityCategories: disability,
		RegularCategories:    regular,
		InCart:               in,
		RegularMaxQuantity:   models.MaxRegularTickets,
		DisabilityQuantity:   models.DisabilityTickets,
	}
}

// Categories returns both sections, disability categories first.
func (o Options) Categories() []models.EventCategory {
	all := make([]models.EventCategory, 0, len(o.DisabilityCategories)+len(o.RegularCategories))
	all = append(all, o.DisabilityCategories...)
	return append(all, o.RegularCategories...)
}

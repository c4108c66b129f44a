package ticketing

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"eventim/internal/models"
)

// Section is one of the two category lists of the ticket view.
type Section int

const (
	SectionRegular Section = iota + 1
	SectionDisability
)

// MessageTTL is how long a success or error message stays visible.
const MessageTTL = 4 * time.Second

// ErrUnknownCategory is returned by Select for a category the viewer cannot choose.
var ErrUnknownCategory = errors.New("ticketing: category not offered to viewer")

// Outcome classifies the result of an add-to-cart attempt.
type Outcome int

const (
	OutcomeAdded Outcome = iota + 1
	OutcomeMerged
	OutcomeAlreadyInCart
	OutcomeLimitExceeded
	OutcomeLoginRequired
	OutcomeNoSelection
	OutcomeFailed
)

// Result describes what AddToCart did. Err is set for OutcomeFailed.
type Result struct {
	Outcome     Outcome
	Message     string
	RedirectURL string
	Remaining   int
	Err         error
}

// Message is the transient feedback shown next to the section last acted on.
type Message struct {
	Section Section
	Text    string
	IsError bool
	Expires time.Time
}

const (
	msgAdded        = "Die Tickets wurden in den Warenkorb gelegt."
	msgMerged       = "Die Anzahl im Warenkorb wurde aktualisiert."
	msgAlreadyIn    = "Diese Kategorie befindet sich bereits im Warenkorb."
	msgFailed       = "Die Tickets konnten nicht in den Warenkorb gelegt werden. Bitte versuchen Sie es erneut."
	msgNoSelection  = "Bitte wählen Sie eine Kategorie aus."
	msgLimitPattern = "Pro Kategorie sind maximal %d Tickets möglich. Sie können noch %d Tickets hinzufügen."
)

// Selection is the state of one ticket view: the offered categories, the selected one,
// both quantity counters and the viewer's cart rows. The in-cart map mirrors server
// state; it is reloaded after every successful mutation and never used to decide a
// conflict on its own.
type Selection struct {
	eventID    string
	viewer     Viewer
	all        []models.EventCategory
	disability []models.EventCategory
	regular    []models.EventCategory
	selectedID string
	regularQty int
	inCart     map[string]CartEntry
	msg        *Message
	now        func() time.Time
}

// NewSelection creates the state for eventID as seen by viewer.
func NewSelection(eventID string, viewer Viewer) *Selection {
	return &Selection{
		eventID:    eventID,
		viewer:     viewer,
		regularQty: 1,
		inCart:     make(map[string]CartEntry),
		now:        time.Now,
	}
}

// Load replaces categories and cart state with a ticket options payload.
func (s *Selection) Load(opts Options) {
	s.SetCategories(opts.Categories())
	s.SetInCart(opts.InCart)
}

// SetCategories replaces the event's category list and re-partitions it.
func (s *Selection) SetCategories(categories []models.EventCategory) {
	s.all = append([]models.EventCategory(nil), categories...)
	s.partition()
}

// SetViewer changes the viewer, for example after login, and re-partitions.
func (s *Selection) SetViewer(v Viewer) {
	s.viewer = v
	s.partition()
}

// SetInCart replaces the in-cart map.
func (s *Selection) SetInCart(in map[string]CartEntry) {
	s.inCart = make(map[string]CartEntry, len(in))
	for k, v := range in {
		s.inCart[k] = v
	}
}

func (s *Selection) partition() {
	s.disability, s.regular = Partition(s.all, s.viewer)
	if _, _, ok := s.Selected(); ok {
		return
	}
	s.selectedID = ""
	if len(s.disability) > 0 {
		s.selectedID = s.disability[0].ID
	} else if len(s.regular) > 0 {
		s.selectedID = s.regular[0].ID
	}
}

func (s *Selection) DisabilityCategories() []models.EventCategory { return s.disability }

func (s *Selection) RegularCategories() []models.EventCategory { return s.regular }

// ShowDisabilitySection reports whether the viewer is offered any disability category.
func (s *Selection) ShowDisabilitySection() bool { return len(s.disability) > 0 }

// Selected returns the selected category and its section.
func (s *Selection) Selected() (models.EventCategory, Section, bool) {
	if s.selectedID == "" {
		return models.EventCategory{}, 0, false
	}
	for _, c := range s.disability {
		if c.ID == s.selectedID {
			return c, SectionDisability, true
		}
	}
	for _, c := range s.regular {
		if c.ID == s.selectedID {
			return c, SectionRegular, true
		}
	}
	return models.EventCategory{}, 0, false
}

// Select makes categoryID the selected category.
func (s *Selection) Select(categoryID string) error {
	prev := s.selectedID
	s.selectedID = categoryID
	if _, _, ok := s.Selected(); !ok {
		s.selectedID = prev
		return ErrUnknownCategory
	}
	return nil
}

// SetRegularQuantity sets the regular counter, clamped to 1..models.MaxRegularTickets,
// and returns the stored value.
func (s *Selection) SetRegularQuantity(n int) int {
	switch {
	case n < 1:
		n = 1
	case n > models.MaxRegularTickets:
		n = models.MaxRegularTickets
	}
	s.regularQty = n
	return n
}

func (s *Selection) RegularQuantity() int { return s.regularQty }

// DisabilityQuantity is fixed: a disability booking is always a single ticket.
func (s *Selection) DisabilityQuantity() int { return models.DisabilityTickets }

// QuantityEnabled reports whether the stepper of section is live.
func (s *Selection) QuantityEnabled(section Section) bool {
	_, active, ok := s.Selected()
	return ok && active == section && section == SectionRegular
}

// Total returns quantity times unit price of the selected category for its section and
// a zero amount for the other one.
func (s *Selection) Total(section Section) string {
	c, active, ok := s.Selected()
	if !ok || active != section {
		return FormatPrice(0)
	}
	qty := s.regularQty
	if section == SectionDisability {
		qty = models.DisabilityTickets
	}
	return FormatPrice(float64(qty) * c.Price)
}

// InCart returns the viewer's cart row for categoryID.
func (s *Selection) InCart(categoryID string) (CartEntry, bool) {
	e, ok := s.inCart[categoryID]
	return e, ok
}

// CanAdd reports whether the add action is enabled. It is disabled without a selection
// and for a disability category that is already in the cart.
func (s *Selection) CanAdd() bool {
	c, section, ok := s.Selected()
	if !ok {
		return false
	}
	if section == SectionDisability {
		_, in := s.inCart[c.ID]
		return !in
	}
	return true
}

// LoginURL is where an anonymous viewer is sent; it returns to the event afterwards.
func (s *Selection) LoginURL() string {
	return "/login?redirect=/events/" + url.PathEscape(s.eventID)
}

// Message returns the current feedback message unless it has expired.
func (s *Selection) Message() (Message, bool) {
	if s.msg == nil {
		return Message{}, false
	}
	if !s.now().Before(s.msg.Expires) {
		s.msg = nil
		return Message{}, false
	}
	return *s.msg, true
}

func (s *Selection) notify(section Section, text string, isErr bool) {
	s.msg = &Message{Section: section, Text: text, IsError: isErr, Expires: s.now().Add(MessageTTL)}
}

// AddToCart adds the selected quantity of the selected category. A new category is
// created with POST, an existing regular one is merged with PATCH as long as the sum
// stays within models.MaxRegularTickets. An existing disability category is never
// touched again.
func (s *Selection) AddToCart(ctx context.Context, api CartAPI) Result {
	if !s.viewer.LoggedIn() {
		return Result{Outcome: OutcomeLoginRequired, RedirectURL: s.LoginURL()}
	}
	c, section, ok := s.Selected()
	if !ok {
		return Result{Outcome: OutcomeNoSelection, Message: msgNoSelection}
	}

	entry, exists := s.inCart[c.ID]
	qty := s.regularQty
	if section == SectionDisability {
		if exists {
			s.notify(section, msgAlreadyIn, true)
			return Result{Outcome: OutcomeAlreadyInCart, Message: msgAlreadyIn}
		}
		qty = models.DisabilityTickets
	}

	if exists {
		merged := entry.Quantity + qty
		if merged > models.MaxRegularTickets {
			remaining := models.MaxRegularTickets - entry.Quantity
			if remaining < 0 {
				remaining = 0
			}
			text := fmt.Sprintf(msgLimitPattern, models.MaxRegularTickets, remaining)
			s.notify(section, text, true)
			return Result{Outcome: OutcomeLimitExceeded, Message: text, Remaining: remaining}
		}
		item, err := api.UpdateCartItem(ctx, entry.CartItemID, merged)
		if err != nil {
			return s.failed(section, err)
		}
		s.inCart[c.ID] = CartEntry{CartItemID: item.ID, Quantity: item.Quantity}
		s.refresh(ctx, api)
		s.notify(section, msgMerged, false)
		return Result{Outcome: OutcomeMerged, Message: msgMerged}
	}

	item, err := api.AddCartItem(ctx, AddRequest{
		EventID:         s.eventID,
		EventCategoryID: c.ID,
		Quantity:        qty,
		Price:           roundCents(c.Price),
	})
	switch {
	case errors.Is(err, ErrConflict):
		s.notify(section, msgAlreadyIn, true)
		return Result{Outcome: OutcomeAlreadyInCart, Message: msgAlreadyIn}
	case errors.Is(err, ErrUnauthenticated):
		return Result{Outcome: OutcomeLoginRequired, RedirectURL: s.LoginURL()}
	case err != nil:
		return s.failed(section, err)
	}
	s.inCart[c.ID] = CartEntry{CartItemID: item.ID, Quantity: item.Quantity}
	s.refresh(ctx, api)
	s.notify(section, msgAdded, false)
	return Result{Outcome: OutcomeAdded, Message: msgAdded}
}

func (s *Selection) failed(section Section, err error) Result {
	s.notify(section, msgFailed, true)
	return Result{Outcome: OutcomeFailed, Message: msgFailed, Err: err}
}

// refresh reloads the in-cart map from the server. On failure the value taken from the
// mutation response stays in place.
func (s *Selection) refresh(ctx context.Context, api CartAPI) {
	opts, err := api.TicketOptions(ctx, s.eventID)
	if err != nil || opts == nil {
		return
	}
	s.SetInCart(opts.InCart)
}

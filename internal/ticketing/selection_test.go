package ticketing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"eventim/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCart is an in-memory CartAPI that mirrors what the server would answer.
type fakeCart struct {
	rows     map[string]*models.CartItem // by category id
	addErr   error
	adds     []AddRequest
	updates  int
	nextID   int
	eventID  string
	optCalls int
}

func newFakeCart(eventID string) *fakeCart {
	return &fakeCart{rows: make(map[string]*models.CartItem), eventID: eventID}
}

func (f *fakeCart) TicketOptions(_ context.Context, eventID string) (*Options, error) {
	f.optCalls++
	in := make(map[string]CartEntry, len(f.rows))
	for catID, row := range f.rows {
		in[catID] = CartEntry{CartItemID: row.ID, Quantity: row.Quantity}
	}
	return &Options{EventID: eventID, InCart: in}, nil
}

func (f *fakeCart) AddCartItem(_ context.Context, req AddRequest) (*models.CartItem, error) {
	f.adds = append(f.adds, req)
	if f.addErr != nil {
		return nil, f.addErr
	}
	if _, ok := f.rows[req.EventCategoryID]; ok {
		return nil, ErrConflict
	}
	f.nextID++
	row := &models.CartItem{
		ID:              fmt.Sprintf("item-%d", f.nextID),
		EventID:         req.EventID,
		EventCategoryID: req.EventCategoryID,
		Quantity:        req.Quantity,
		Price:           req.Price,
	}
	f.rows[req.EventCategoryID] = row
	return row, nil
}

func (f *fakeCart) UpdateCartItem(_ context.Context, id string, quantity int) (*models.CartItem, error) {
	f.updates++
	for _, row := range f.rows {
		if row.ID == id {
			row.Quantity = quantity
			return row, nil
		}
	}
	return nil, errors.New("not found")
}

var eventCategories = []models.EventCategory{
	{ID: "regular", EventID: "e1", Name: "Stehplatz", Price: 37.5},
	{ID: "wheelchair", EventID: "e1", Name: "Rollstuhlplatz", Price: 20, DisabilitySupportFor: strPtr("G")},
	{ID: "companion", EventID: "e1", Name: "Begleitplatz", Price: 15, DisabilitySupportFor: strPtr("B")},
}

var markG = Viewer{UserID: "u1", HasDisability: true, Marks: []string{"G"}}

func newTestSelection(v Viewer) *Selection {
	s := NewSelection("e1", v)
	s.SetCategories(eventCategories)
	return s
}

func TestSelection_DefaultsToDisabilitySection(t *testing.T) {
	s := newTestSelection(markG)
	c, section, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "wheelchair", c.ID)
	assert.Equal(t, SectionDisability, section)
	assert.True(t, s.ShowDisabilitySection())
	assert.Equal(t, []string{"wheelchair"}, ids(s.DisabilityCategories()))

	anon := newTestSelection(Viewer{})
	c, section, ok = anon.Selected()
	require.True(t, ok)
	assert.Equal(t, "regular", c.ID)
	assert.Equal(t, SectionRegular, section)
	assert.False(t, anon.ShowDisabilitySection())
}

func TestSelection_SelectUnknownCategory(t *testing.T) {
	s := newTestSelection(markG)
	assert.ErrorIs(t, s.Select("companion"), ErrUnknownCategory)
	assert.ErrorIs(t, s.Select("nope"), ErrUnknownCategory)

	c, _, _ := s.Selected()
	assert.Equal(t, "wheelchair", c.ID)
}

func TestSelection_SetViewerRepartitions(t *testing.T) {
	s := newTestSelection(markG)
	s.SetViewer(Viewer{UserID: "u2"})
	c, section, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "regular", c.ID)
	assert.Equal(t, SectionRegular, section)
}

func TestSelection_Totals(t *testing.T) {
	s := newTestSelection(markG)

	assert.Equal(t, "20,00", s.Total(SectionDisability))
	assert.Equal(t, "0,00", s.Total(SectionRegular))
	assert.False(t, s.QuantityEnabled(SectionDisability))
	assert.Equal(t, 1, s.DisabilityQuantity())

	require.NoError(t, s.Select("regular"))
	assert.Equal(t, 3, s.SetRegularQuantity(3))
	assert.Equal(t, "112,50", s.Total(SectionRegular))
	assert.Equal(t, "0,00", s.Total(SectionDisability))
	assert.True(t, s.QuantityEnabled(SectionRegular))
}

func TestSelection_SetRegularQuantityClamps(t *testing.T) {
	s := newTestSelection(markG)
	assert.Equal(t, 1, s.SetRegularQuantity(0))
	assert.Equal(t, 8, s.SetRegularQuantity(12))
	assert.Equal(t, 8, s.RegularQuantity())
}

func TestSelection_AddThenExceedLimit(t *testing.T) {
	ctx := context.Background()
	api := newFakeCart("e1")
	s := newTestSelection(markG)
	require.NoError(t, s.Select("regular"))

	s.SetRegularQuantity(3)
	res := s.AddToCart(ctx, api)
	require.Equal(t, OutcomeAdded, res.Outcome)
	entry, ok := s.InCart("regular")
	require.True(t, ok)
	assert.Equal(t, 3, entry.Quantity)
	require.Len(t, api.adds, 1)
	assert.Equal(t, 37.5, api.adds[0].Price)

	s.SetRegularQuantity(6)
	res = s.AddToCart(ctx, api)
	assert.Equal(t, OutcomeLimitExceeded, res.Outcome)
	assert.Equal(t, 5, res.Remaining)
	assert.Equal(t, "Pro Kategorie sind maximal 8 Tickets möglich. Sie können noch 5 Tickets hinzufügen.", res.Message)
	assert.Len(t, api.adds, 1)
	assert.Equal(t, 0, api.updates)
	assert.Equal(t, 3, api.rows["regular"].Quantity)

	msg, ok := s.Message()
	require.True(t, ok)
	assert.True(t, msg.IsError)
	assert.Equal(t, SectionRegular, msg.Section)
}

func TestSelection_MergeWithinLimit(t *testing.T) {
	ctx := context.Background()
	api := newFakeCart("e1")
	s := newTestSelection(Viewer{UserID: "u1"})

	s.SetRegularQuantity(3)
	require.Equal(t, OutcomeAdded, s.AddToCart(ctx, api).Outcome)
	s.SetRegularQuantity(5)
	res := s.AddToCart(ctx, api)
	assert.Equal(t, OutcomeMerged, res.Outcome)
	assert.Equal(t, 1, api.updates)
	assert.Equal(t, 8, api.rows["regular"].Quantity)

	entry, _ := s.InCart("regular")
	assert.Equal(t, 8, entry.Quantity)
}

func TestSelection_DisabilityCategoryOnlyOnce(t *testing.T) {
	ctx := context.Background()
	api := newFakeCart("e1")
	s := newTestSelection(markG)

	assert.True(t, s.CanAdd())
	res := s.AddToCart(ctx, api)
	require.Equal(t, OutcomeAdded, res.Outcome)
	require.Len(t, api.adds, 1)
	assert.Equal(t, 1, api.adds[0].Quantity)
	assert.False(t, s.CanAdd())

	res = s.AddToCart(ctx, api)
	assert.Equal(t, OutcomeAlreadyInCart, res.Outcome)
	assert.Len(t, api.adds, 1)
	assert.Equal(t, 0, api.updates)
}

func TestSelection_ServerConflict(t *testing.T) {
	ctx := context.Background()
	api := newFakeCart("e1")
	api.addErr = ErrConflict
	s := newTestSelection(markG)

	res := s.AddToCart(ctx, api)
	assert.Equal(t, OutcomeAlreadyInCart, res.Outcome)
	_, in := s.InCart("wheelchair")
	assert.False(t, in)
	assert.Equal(t, 0, api.optCalls)
}

func TestSelection_FailedRequest(t *testing.T) {
	api := newFakeCart("e1")
	api.addErr = &StatusError{Code: 500, Message: "boom"}
	s := newTestSelection(markG)

	res := s.AddToCart(context.Background(), api)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	var se *StatusError
	assert.ErrorAs(t, res.Err, &se)
}

func TestSelection_LoginRequired(t *testing.T) {
	api := newFakeCart("e1")
	s := NewSelection("e 1", Viewer{})
	s.SetCategories(eventCategories)

	res := s.AddToCart(context.Background(), api)
	assert.Equal(t, OutcomeLoginRequired, res.Outcome)
	assert.Equal(t, "/login?redirect=/events/e%201", res.RedirectURL)
	assert.Empty(t, api.adds)

	api.addErr = ErrUnauthenticated
	s.SetViewer(Viewer{UserID: "u1"})
	res = s.AddToCart(context.Background(), api)
	assert.Equal(t, OutcomeLoginRequired, res.Outcome)
}

func TestSelection_NoSelection(t *testing.T) {
	s := NewSelection("e1", markG)
	assert.False(t, s.CanAdd())
	res := s.AddToCart(context.Background(), newFakeCart("e1"))
	assert.Equal(t, OutcomeNoSelection, res.Outcome)
}

func TestSelection_MessageExpires(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newTestSelection(markG)
	s.now = func() time.Time { return now }

	require.Equal(t, OutcomeAdded, s.AddToCart(context.Background(), newFakeCart("e1")).Outcome)
	msg, ok := s.Message()
	require.True(t, ok)
	assert.False(t, msg.IsError)
	assert.Equal(t, SectionDisability, msg.Section)

	now = now.Add(MessageTTL - time.Millisecond)
	_, ok = s.Message()
	assert.True(t, ok)

	now = now.Add(time.Millisecond)
	_, ok = s.Message()
	assert.False(t, ok)
}

func TestSelection_Load(t *testing.T) {
	s := NewSelection("e1", markG)
	s.Load(BuildOptions("e1", eventCategories, markG, []models.CartItem{
		{ID: "i1", EventID: "e1", EventCategoryID: "wheelchair", Quantity: 1},
	}))
	c, _, _ := s.Selected()
	assert.Equal(t, "wheelchair", c.ID)
	assert.False(t, s.CanAdd())
}

package ticketing_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"eventim/internal/app"
	"eventim/internal/config"
	"eventim/internal/database"
	"eventim/internal/models"
	"eventim/internal/ticketing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func strPtr(s string) *string { return &s }

// startServer runs the application on a loopback port and returns the API base URL.
func startServer(t *testing.T) (string, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := database.Open("sqlite", dsn, nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	v := viper.New()
	config.SetDefaults(v)
	v.Set("DB_DRIVER", "sqlite")
	v.Set("DATABASE_DSN", dsn)
	v.Set("BCRYPT_COST", bcrypt.MinCost)
	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	a := app.New(cfg, app.Deps{DB: db, DisableAccessLog: true})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = a.Listener(ln) }()
	t.Cleanup(func() {
		_ = a.ShutdownWithTimeout(time.Second)
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return "http://" + ln.Addr().String() + "/api/v1", db
}

// seedEvent stores an event with one regular and one wheelchair category.
func seedEvent(t *testing.T, db *gorm.DB) (eventID string) {
	t.Helper()
	country := models.Country{ID: uuid.NewString(), Name: "Deutschland"}
	city := models.City{ID: uuid.NewString(), Name: "Hamburg", CountryID: country.ID}
	area := models.Area{ID: uuid.NewString(), Name: "Innenraum"}
	venue := models.Venue{ID: uuid.NewString(), Name: "Sporthalle", CityID: city.ID}
	venueArea := models.VenueArea{ID: uuid.NewString(), VenueID: venue.ID, AreaID: area.ID, MaxCapacity: 500}
	tour := models.Tour{
		ID:        uuid.NewString(),
		Title:     "Winter",
		StartDate: time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	start := time.Date(2026, 12, 5, 20, 0, 0, 0, time.UTC)
	event := models.Event{
		ID:        uuid.NewString(),
		TourID:    tour.ID,
		VenueID:   venue.ID,
		DoorTime:  start.Add(-time.Hour),
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
	}
	categories := []models.EventCategory{
		{ID: "regular-" + event.ID, EventID: event.ID, Name: "Stehplatz", Price: 37.5},
		{ID: "wheelchair-" + event.ID, EventID: event.ID, Name: "Rollstuhlplatz", Price: 20, DisabilitySupportFor: strPtr("G")},
	}

	for _, row := range []interface{}{&country, &city, &area, &venue, &venueArea, &tour, &event, &categories} {
		require.NoError(t, db.Omit(clause.Associations).Create(row).Error)
	}
	return event.ID
}

func register(t *testing.T, baseURL, email string, marks ...string) {
	t.Helper()
	code, body, errs := fiber.Post(baseURL + "/auth/register").JSON(map[string]interface{}{
		"first_name":       "Erika",
		"last_name":        "Mustermann",
		"email":            email,
		"password":         "geheim123",
		"has_disability":   len(marks) > 0,
		"disability_marks": marks,
	}).Bytes()
	require.Empty(t, errs)
	require.Equal(t, fiber.StatusCreated, code, string(body))
}

func TestAPIClient_SelectionFlow(t *testing.T) {
	baseURL, db := startServer(t)
	eventID := seedEvent(t, db)
	register(t, baseURL, "erika@example.com", "G")

	ctx := context.Background()
	client := ticketing.NewAPIClient(baseURL)

	anonOpts, err := client.TicketOptions(ctx, eventID)
	require.NoError(t, err)
	assert.Empty(t, anonOpts.DisabilityCategories)
	assert.Len(t, anonOpts.RegularCategories, 1)

	require.NoError(t, client.Login(ctx, "erika@example.com", "geheim123"))
	opts, err := client.TicketOptions(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, opts.DisabilityCategories, 1)

	viewer := ticketing.Viewer{UserID: "erika", HasDisability: true, Marks: []string{"G"}}
	sel := ticketing.NewSelection(eventID, viewer)
	sel.Load(*opts)

	res := sel.AddToCart(ctx, client)
	require.Equal(t, ticketing.OutcomeAdded, res.Outcome, res.Err)
	assert.False(t, sel.CanAdd())

	require.NoError(t, sel.Select("regular-"+eventID))
	sel.SetRegularQuantity(3)
	require.Equal(t, ticketing.OutcomeAdded, sel.AddToCart(ctx, client).Outcome)
	sel.SetRegularQuantity(6)
	res = sel.AddToCart(ctx, client)
	assert.Equal(t, ticketing.OutcomeLimitExceeded, res.Outcome)
	assert.Equal(t, 5, res.Remaining)

	sel.SetRegularQuantity(5)
	require.Equal(t, ticketing.OutcomeMerged, sel.AddToCart(ctx, client).Outcome)

	var rows []models.CartItem
	require.NoError(t, db.Order("quantity").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Quantity)
	assert.Equal(t, 8, rows[1].Quantity)

	// A second view that has not seen the cart yet gets the server's 409.
	stale := ticketing.NewSelection(eventID, viewer)
	stale.SetCategories(opts.Categories())
	res = stale.AddToCart(ctx, client)
	assert.Equal(t, ticketing.OutcomeAlreadyInCart, res.Outcome)
}

func TestAPIClient_Errors(t *testing.T) {
	baseURL, db := startServer(t)
	eventID := seedEvent(t, db)
	ctx := context.Background()

	client := ticketing.NewAPIClient(baseURL)
	_, err := client.AddCartItem(ctx, ticketing.AddRequest{EventID: eventID, EventCategoryID: "regular-" + eventID, Quantity: 1})
	assert.ErrorIs(t, err, ticketing.ErrUnauthenticated)

	err = client.Login(ctx, "nobody@example.com", "geheim123")
	assert.ErrorIs(t, err, ticketing.ErrUnauthenticated)

	_, err = client.TicketOptions(ctx, "does-not-exist")
	var se *ticketing.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, fiber.StatusNotFound, se.Code)
}

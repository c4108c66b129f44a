package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventim/internal/app"
	"eventim/internal/config"
	"eventim/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

// setupApp builds the full application on a private in-memory SQLite database.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())

	db, err := database.Open("sqlite", dsn, nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	v := viper.New()
	config.SetDefaults(v)
	v.Set("DB_DRIVER", "sqlite")
	v.Set("DATABASE_DSN", dsn)
	v.Set("JWT_SECRET", "test_jwt_secret")
	v.Set("BCRYPT_COST", bcrypt.MinCost)
	v.Set("RATE_LIMIT_MAX", 1000)
	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	return app.New(cfg, app.Deps{DB: db, DisableAccessLog: true}), db
}

// apiClient sends requests through app.Test, carrying a session cookie or bearer token.
type apiClient struct {
	t      *testing.T
	app    *fiber.App
	cookie *http.Cookie
	token  string
}

type apiResponse struct {
	Status  int
	Header  http.Header
	Raw     []byte
	Body    map[string]interface{}
	Cookies []*http.Cookie
}

func newClient(t *testing.T, a *fiber.App) *apiClient {
	return &apiClient{t: t, app: a}
}

func (c *apiClient) do(method, path string, body interface{}) apiResponse {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req)
}

// multipart sends data as the JSON "data" field and, when fileField is set, content as file.
func (c *apiClient) multipart(path string, data interface{}, fileField string, content []byte) apiResponse {
	c.t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	payload, err := json.Marshal(data)
	require.NoError(c.t, err)
	require.NoError(c.t, w.WriteField("data", string(payload)))
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, "upload.bin")
		require.NoError(c.t, err)
		_, err = part.Write(content)
		require.NoError(c.t, err)
	}
	require.NoError(c.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(req)
}

func (c *apiClient) send(req *http.Request) apiResponse {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	out := apiResponse{Status: resp.StatusCode, Header: resp.Header, Raw: raw, Cookies: resp.Cookies()}
	if len(raw) > 0 && bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		require.NoError(c.t, json.Unmarshal(raw, &out.Body), string(raw))
	}
	return out
}

// object returns the nested JSON object under key.
func (r apiResponse) object(t *testing.T, key string) map[string]interface{} {
	t.Helper()
	obj, ok := r.Body[key].(map[string]interface{})
	require.True(t, ok, "response has no object %q: %s", key, string(r.Raw))
	return obj
}

// list returns the JSON array under key.
func (r apiResponse) list(t *testing.T, key string) []interface{} {
	t.Helper()
	items, ok := r.Body[key].([]interface{})
	require.True(t, ok, "response has no array %q: %s", key, string(r.Raw))
	return items
}

func (r apiResponse) id(t *testing.T, key string) string {
	t.Helper()
	id, ok := r.object(t, key)["id"].(string)
	require.True(t, ok)
	return id
}

// catalog holds the ids of the seeded master data.
type catalog struct {
	cityID        string
	innenraumID   string // area
	tribueneID    string // area
	venueID       string
	innenraumVA   string // venue area of venueID
	tribueneVA    string // venue area of venueID
	otherVenueID  string
	otherVenueVA  string
	artistIDs     []string
	rockID        string
	rockSubgenres []string
	popSubgenreID string
}

func seedCatalog(t *testing.T, c *apiClient) catalog {
	t.Helper()
	var cat catalog

	res := c.do(http.MethodPost, "/api/v1/countries", map[string]interface{}{"name": "Deutschland"})
	require.Equal(t, fiber.StatusCreated, res.Status, string(res.Raw))
	countryID := res.id(t, "country")

	res = c.do(http.MethodPost, "/api/v1/cities", map[string]interface{}{"name": "Berlin", "country_id": countryID})
	require.Equal(t, fiber.StatusCreated, res.Status, string(res.Raw))
	cat.cityID = res.id(t, "city")

	res = c.do(http.MethodPost, "/api/v1/areas", map[string]interface{}{"name": "Innenraum"})
	require.Equal(t, fiber.StatusCreated, res.Status, string(res.Raw))
	cat.innenraumID = res.id(t, "area")
	res = c.do(http.MethodPost, "/api/v1/areas", map[string]interface{}{"name": "Tribüne"})
	require.Equal(t, fiber.StatusCreated, res.Status, string(res.Raw))
	cat.tribueneID = res.id(t, "area")

	res = c.do(http.MethodPost, "/api/v1/venues", map[string]interface{}{
		"name":    "Arena",
		"city_id": cat.cityID,
		"areas": []map[string]interface{}{
			{"area_id": cat.innenraumID, "max_capacity": 1000},
			{"area_id": cat.tribueneID, "max_capacity": 50},
		},
	})
	require.Equal(t, fiber.StatusCreated, res.Status, string(res.Raw))
	venue := res.object(t, "venue")
	cat.venueID = venue["id"].(string)
	for _, raw := range venue["areas"].([]interface{}) {
		va := raw.(map[string]interface{})
		switch va["area_id"] {
		case cat.innenraumID:
			cat.innenraumVA = va["id"].(string)
		case cat.tribueneID:
			cat.tribueneVA = va["id"].(string)
		}
	}
	require.NotEmpty(t, cat.innenraumVA)
	require.NotEmpty(t, cat.tribueneVA)

	res = c.do(http.MethodPost, "/api/v1/venues", map[string]interface{}{
		"name":    "Halle",
		"city_id": cat.cityID,
		"areas":   []map[string]interface{}{{"area_id": cat.innenraumID, "max_capacity": 200}},
	})
	require.Equal(t, fiber.StatusCreated, res.Status, string(res.Raw))
	other := res.object(t, "venue")
	cat.otherVenueID = other["id"].(string)
	cat.otherVenueVA = other["areas"].([]interface{})[0].(map[string]interface{})["id"].(string)

	for _, name := range []string{"Die Ärzte", "Kraftklub"} {
		res = c.do(http.MethodPost, "/api/v1/artists", map[string]interface{}{"name": name})
		require.Equal(t, fiber.StatusCreated, res.Status, string(res.Raw))
		cat.artistIDs = append(cat.artistIDs, res.id(t, "artist"))
	}

	res = c.do(http.MethodPost, "/api/v1/genres", map[string]interface{}{"name": "Rock"})
	require.Equal(t, fiber.StatusCreated, res.Status, string(res.Raw))
	cat.rockID = res.id(t, "genre")
	for _, name := range []string{"Punk", "Indie"} {
		res = c.do(http.MethodPost, "/api/v1/subgenres", map[string]interface{}{"name": name, "genre_id": cat.rockID})
		require.Equal(t, fiber.StatusCreated, res.Status, string(res.Raw))
		cat.rockSubgenres = append(cat.rockSubgenres, res.id(t, "subgenre"))
	}

	res = c.do(http.MethodPost, "/api/v1/genres", map[string]interface{}{"name": "Pop"})
	require.Equal(t, fiber.StatusCreated, res.Status, string(res.Raw))
	popID := res.id(t, "genre")
	res = c.do(http.MethodPost, "/api/v1/subgenres", map[string]interface{}{"name": "Synthpop", "genre_id": popID})
	require.Equal(t, fiber.StatusCreated, res.Status, string(res.Raw))
	cat.popSubgenreID = res.id(t, "subgenre")

	return cat
}

func tourBody(cat catalog, artistIDs ...string) map[string]interface{} {
	return map[string]interface{}{
		"title":      "Lauter als Bomben",
		"start_date": "2026-11-01",
		"end_date":   "2026-12-15",
		"artist_ids": artistIDs,
		"genres": []map[string]interface{}{
			{"genre_id": cat.rockID, "subgenre_ids": cat.rockSubgenres},
		},
	}
}

func createTour(t *testing.T, c *apiClient, cat catalog) string {
	t.Helper()
	res := c.do(http.MethodPost, "/api/v1/tours", tourBody(cat, cat.artistIDs[0]))
	require.Equal(t, fiber.StatusCreated, res.Status, string(res.Raw))
	return res.id(t, "tour")
}

func eventBody(tourID string, cat catalog) map[string]interface{} {
	start := time.Date(2026, 11, 20, 20, 0, 0, 0, time.UTC)
	return map[string]interface{}{
		"tour_id":            tourID,
		"venue_id":           cat.venueID,
		"door_time":          start.Add(-time.Hour).Format(time.RFC3339),
		"start_time":         start.Format(time.RFC3339),
		"end_time":           start.Add(3 * time.Hour).Format(time.RFC3339),
		"supporting_act_ids": []string{cat.artistIDs[1]},
		"categories": []map[string]interface{}{
			{"name": "Stehplatz", "price": 37.5, "venue_areas": []map[string]interface{}{
				{"venue_area_id": cat.innenraumVA, "capacity": 900},
			}},
			{"name": "Rollstuhlplatz", "price": 20, "disability_support_for": "G", "venue_areas": []map[string]interface{}{
				{"venue_area_id": cat.tribueneVA, "capacity": 10},
			}},
			{"name": "Begleitplatz", "price": 15, "disability_support_for": "B", "venue_areas": []map[string]interface{}{
				{"venue_area_id": cat.tribueneVA, "capacity": 10},
			}},
		},
	}
}

// createEvent creates the standard event and returns its id and category ids by name.
func createEvent(t *testing.T, c *apiClient, tourID string, cat catalog) (string, map[string]string) {
	t.Helper()
	res := c.do(http.MethodPost, "/api/v1/events", eventBody(tourID, cat))
	require.Equal(t, fiber.StatusCreated, res.Status, string(res.Raw))
	event := res.object(t, "event")

	categories := make(map[string]string)
	for _, raw := range event["categories"].([]interface{}) {
		cat := raw.(map[string]interface{})
		categories[cat["name"].(string)] = cat["id"].(string)
	}
	require.Len(t, categories, 3)
	return event["id"].(string), categories
}

// registerAndLogin registers a user holding marks and logs in with a session cookie.
func registerAndLogin(t *testing.T, a *fiber.App, email string, marks ...string) *apiClient {
	t.Helper()
	c := newClient(t, a)
	res := c.do(http.MethodPost, "/api/v1/auth/register", map[string]interface{}{
		"first_name":       "Erika",
		"last_name":        "Mustermann",
		"email":            email,
		"password":         "geheim123",
		"has_disability":   len(marks) > 0,
		"disability_marks": marks,
	})
	require.Equal(t, fiber.StatusCreated, res.Status, string(res.Raw))

	res = c.do(http.MethodPost, "/api/v1/auth/login", map[string]interface{}{"email": email, "password": "geheim123"})
	require.Equal(t, fiber.StatusOK, res.Status, string(res.Raw))
	for _, ck := range res.Cookies {
		if ck.Name == "eventim_session" {
			c.cookie = &http.Cookie{Name: ck.Name, Value: ck.Value}
		}
	}
	require.NotNil(t, c.cookie, "login did not set a session cookie")
	return c
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

package handlers

import (
	"eventim/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CatalogHandler exposes countries, cities, areas, artists, genres and subgenres.
type CatalogHandler struct {
	service *services.CatalogService
	log     *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, log: log}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/countries", h.HandleGetCountries)
	router.Post("/countries", h.HandleCreateCountry)
	router.Get("/cities", h.HandleGetCities)
	router.Post("/cities", h.HandleCreateCity)
	router.Get("/areas", h.HandleGetAreas)
	router.Post("/areas", h.HandleCreateArea)

	artistRoutes := router.Group("/artists")
	artistRoutes.Get("/", h.HandleGetArtists)
	artistRoutes.Get("/:id", h.HandleGetArtistByID)
	artistRoutes.Post("/", h.HandleCreateArtist)
	artistRoutes.Put("/:id", h.HandleUpdateArtist)
	artistRoutes.Delete("/:id", h.HandleDeleteArtist)

	router.Get("/genres", h.HandleGetGenres)
	router.Post("/genres", h.HandleCreateGenre)
	router.Get("/subgenres", h.HandleGetSubgenres)
	router.Post("/subgenres", h.HandleCreateSubgenre)
}

func (h *CatalogHandler) HandleGetCountries(c *fiber.Ctx) error {
	countries, err := h.service.ListCountries(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"countries": countries})
}

func (h *CatalogHandler) HandleCreateCountry(c *fiber.Ctx) error {
	var req services.NameRequest
	if _, err := parseBody(c, &req, ""); err != nil {
		return respondError(c, h.log, err)
	}
	country, err := h.service.CreateCountry(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Land angelegt.", "country": country})
}

// HandleGetCities lists cities, optionally filtered with ?country_id=.
func (h *CatalogHandler) HandleGetCities(c *fiber.Ctx) error {
	cities, err := h.service.ListCities(c.UserContext(), c.Query("country_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"cities": cities})
}

func (h *CatalogHandler) HandleCreateCity(c *fiber.Ctx) error {
	var req services.CityRequest
	if _, err := parseBody(c, &req, ""); err != nil {
		return respondError(c, h.log, err)
	}
	city, err := h.service.CreateCity(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Stadt angelegt.", "city": city})
}

func (h *CatalogHandler) HandleGetAreas(c *fiber.Ctx) error {
	areas, err := h.service.ListAreas(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"areas": areas})
}

func (h *CatalogHandler) HandleCreateArea(c *fiber.Ctx) error {
	var req services.NameRequest
	if _, err := parseBody(c, &req, ""); err != nil {
		return respondError(c, h.log, err)
	}
	area, err := h.service.CreateArea(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Bereich angelegt.", "area": area})
}

func (h *CatalogHandler) HandleGetArtists(c *fiber.Ctx) error {
	artists, err := h.service.ListArtists(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"artists": artists})
}

func (h *CatalogHandler) HandleGetArtistByID(c *fiber.Ctx) error {
	artist, err := h.service.GetArtist(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"artist": artist})
}

// HandleCreateArtist accepts JSON or multipart with an "image" file.
func (h *CatalogHandler) HandleCreateArtist(c *fiber.Ctx) error {
	var req services.ArtistRequest
	image, err := parseBody(c, &req, "image")
	if err != nil {
		return respondError(c, h.log, err)
	}
	artist, err := h.service.CreateArtist(c.UserContext(), req, image)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Künstler angelegt.", "artist": artist})
}

func (h *CatalogHandler) HandleUpdateArtist(c *fiber.Ctx) error {
	var req services.ArtistRequest
	if _, err := parseBody(c, &req, ""); err != nil {
		return respondError(c, h.log, err)
	}
	artist, err := h.service.UpdateArtist(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Künstler aktualisiert.", "artist": artist})
}

func (h *CatalogHandler) HandleDeleteArtist(c *fiber.Ctx) error {
	if err := h.service.DeleteArtist(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Künstler gelöscht."})
}

func (h *CatalogHandler) HandleGetGenres(c *fiber.Ctx) error {
	genres, err := h.service.ListGenres(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"genres": genres})
}

func (h *CatalogHandler) HandleCreateGenre(c *fiber.Ctx) error {
	var req services.NameRequest
	if _, err := parseBody(c, &req, ""); err != nil {
		return respondError(c, h.log, err)
	}
	genre, err := h.service.CreateGenre(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Genre angelegt.", "genre": genre})
}

// HandleGetSubgenres lists subgenres, optionally filtered with ?genre_id=.
func (h *CatalogHandler) HandleGetSubgenres(c *fiber.Ctx) error {
	subgenres, err := h.service.ListSubgenres(c.UserContext(), c.Query("genre_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"subgenres": subgenres})
}

func (h *CatalogHandler) HandleCreateSubgenre(c *fiber.Ctx) error {
	var req services.SubgenreRequest
	if _, err := parseBody(c, &req, ""); err != nil {
		return respondError(c, h.log, err)
	}
	subgenre, err := h.service.CreateSubgenre(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Subgenre angelegt.", "subgenre": subgenre})
}

package handlers

import (
	"eventim/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// VenueHandler handles HTTP requests for venues.
type VenueHandler struct {
	service *services.VenueService
	log     *zap.Logger
}

// NewVenueHandler creates a new VenueHandler.
func NewVenueHandler(service *services.VenueService, log *zap.Logger) *VenueHandler {
	return &VenueHandler{service: service, log: log}
}

// RegisterRoutes registers the venue routes with the Fiber app.
func (h *VenueHandler) RegisterRoutes(router fiber.Router) {
	venueRoutes := router.Group("/venues")
	venueRoutes.Get("/", h.HandleGetVenues)
	venueRoutes.Get("/:id", h.HandleGetVenueByID)
	venueRoutes.Post("/", h.HandleCreateVenue)
	venueRoutes.Delete("/:id", h.HandleDeleteVenue)
}

func (h *VenueHandler) HandleGetVenues(c *fiber.Ctx) error {
	venues, err := h.service.GetAllVenues(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"venues": venues})
}

func (h *VenueHandler) HandleGetVenueByID(c *fiber.Ctx) error {
	venue, err := h.service.GetVenueByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"venue": venue})
}

func (h *VenueHandler) HandleCreateVenue(c *fiber.Ctx) error {
	var req services.VenueRequest
	image, err := parseBody(c, &req, "image")
	if err != nil {
		return respondError(c, h.log, err)
	}
	venue, err := h.service.CreateVenue(c.UserContext(), req, image)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Veranstaltungsort erfolgreich erstellt.", "venue": venue})
}

func (h *VenueHandler) HandleDeleteVenue(c *fiber.Ctx) error {
	if err := h.service.DeleteVenue(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Veranstaltungsort gelöscht."})
}

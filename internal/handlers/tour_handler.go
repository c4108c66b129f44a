package handlers

import (
	"eventim/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TourHandler handles HTTP requests for tours.
type TourHandler struct {
	service *services.TourService
	log     *zap.Logger
}

// NewTourHandler creates a new TourHandler.
func NewTourHandler(service *services.TourService, log *zap.Logger) *TourHandler {
	return &TourHandler{service: service, log: log}
}

// RegisterRoutes registers the tour routes with the Fiber app.
func (h *TourHandler) RegisterRoutes(router fiber.Router) {
	tourRoutes := router.Group("/tours")
	tourRoutes.Get("/", h.HandleGetTours)
	tourRoutes.Get("/:id", h.HandleGetTourByID)
	tourRoutes.Post("/", h.HandleCreateTour)
	tourRoutes.Delete("/:id", h.HandleDeleteTour)
}

func (h *TourHandler) HandleGetTours(c *fiber.Ctx) error {
	tours, err := h.service.GetAllTours(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"tours": tours})
}

func (h *TourHandler) HandleGetTourByID(c *fiber.Ctx) error {
	tour, err := h.service.GetTourByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"tour": tour})
}

// HandleCreateTour creates a tour with its artists, subgenres and optional image.
func (h *TourHandler) HandleCreateTour(c *fiber.Ctx) error {
	var req services.TourRequest
	image, err := parseBody(c, &req, "image")
	if err != nil {
		return respondError(c, h.log, err)
	}
	tour, err := h.service.CreateTour(c.UserContext(), req, image)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Tour erfolgreich erstellt.", "tour": tour})
}

func (h *TourHandler) HandleDeleteTour(c *fiber.Ctx) error {
	if err := h.service.DeleteTour(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Tour gelöscht."})
}

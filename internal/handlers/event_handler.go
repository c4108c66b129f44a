package handlers

import (
	"eventim/internal/middleware"
	"eventim/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// EventHandler handles HTTP requests for events, their categories and ticket options.
type EventHandler struct {
	service *services.EventService
	cart    *services.CartService
	auth    *middleware.Auth
	log     *zap.Logger
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service *services.EventService, cart *services.CartService, auth *middleware.Auth, log *zap.Logger) *EventHandler {
	return &EventHandler{service: service, cart: cart, auth: auth, log: log}
}

// RegisterRoutes registers the event routes with the Fiber app.
func (h *EventHandler) RegisterRoutes(router fiber.Router) {
	eventRoutes := router.Group("/events")
	eventRoutes.Get("/", h.HandleGetEvents)
	eventRoutes.Get("/:id", h.HandleGetEventByID)
	eventRoutes.Get("/:id/categories", h.HandleGetCategories)
	eventRoutes.Get("/:id/ticket-options", h.auth.Optional(), h.HandleGetTicketOptions)
	eventRoutes.Post("/", h.HandleCreateEvent)
	eventRoutes.Delete("/:id", h.HandleDeleteEvent)
}

// HandleGetEvents lists events, optionally filtered with ?tour_id=.
func (h *EventHandler) HandleGetEvents(c *fiber.Ctx) error {
	events, err := h.service.GetAllEvents(c.UserContext(), c.Query("tour_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"events": events})
}

func (h *EventHandler) HandleGetEventByID(c *fiber.Ctx) error {
	event, err := h.service.GetEventByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"event": event})
}

func (h *EventHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// HandleGetTicketOptions returns the categories the viewer may book, split into the
// disability and regular sections, and the viewer's matching cart rows.
func (h *EventHandler) HandleGetTicketOptions(c *fiber.Ctx) error {
	opts, err := h.cart.TicketOptions(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(opts)
}

func (h *EventHandler) HandleCreateEvent(c *fiber.Ctx) error {
	var req services.EventRequest
	if _, err := parseBody(c, &req, ""); err != nil {
		return respondError(c, h.log, err)
	}
	event, err := h.service.CreateEvent(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Veranstaltung erfolgreich erstellt.", "event": event})
}

func (h *EventHandler) HandleDeleteEvent(c *fiber.Ctx) error {
	if err := h.service.DeleteEvent(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Veranstaltung gelöscht."})
}

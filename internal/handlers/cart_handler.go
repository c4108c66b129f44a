package handlers

import (
	"eventim/internal/middleware"
	"eventim/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CartHandler handles HTTP requests for the viewer's cart.
type CartHandler struct {
	service *services.CartService
	auth    *middleware.Auth
	log     *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, auth *middleware.Auth, log *zap.Logger) *CartHandler {
	return &CartHandler{service: service, auth: auth, log: log}
}

// RegisterRoutes registers the cart routes with the Fiber app. All of them require a
// logged-in user.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart", h.auth.Required())
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/", h.HandleAddItem)
	cartRoutes.Patch("/:id", h.HandleUpdateItem)
	cartRoutes.Delete("/:id", h.HandleRemoveItem)
}

func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	items, err := h.service.GetCart(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"cart_items": items})
}

// HandleAddItem creates a cart row; a row that already exists yields 409.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req services.AddCartItemRequest
	if _, err := parseBody(c, &req, ""); err != nil {
		return respondError(c, h.log, err)
	}
	item, err := h.service.AddItem(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Die Tickets wurden in den Warenkorb gelegt.",
		"cart_item": item,
	})
}

func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req services.UpdateCartItemRequest
	if _, err := parseBody(c, &req, ""); err != nil {
		return respondError(c, h.log, err)
	}
	item, err := h.service.UpdateQuantity(c.UserContext(), middleware.UserID(c), c.Params("id"), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"message":   "Der Warenkorb wurde aktualisiert.",
		"cart_item": item,
	})
}

func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	if err := h.service.RemoveItem(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Der Eintrag wurde aus dem Warenkorb entfernt."})
}

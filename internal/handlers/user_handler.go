package handlers

import (
	"eventim/internal/middleware"
	"eventim/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserHandler serves user profiles and the disability mark catalog.
type UserHandler struct {
	authService *services.AuthService
	auth        *middleware.Auth
	log         *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, auth *middleware.Auth, log *zap.Logger) *UserHandler {
	return &UserHandler{authService: authService, auth: auth, log: log}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/disability-marks", h.HandleGetDisabilityMarks)

	userRoutes := router.Group("/users", h.auth.Required())
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Get("/me", h.HandleGetMe)
	userRoutes.Get("/:id", h.HandleGetUserByID)
	userRoutes.Delete("/:id", h.HandleDeleteUser)
}

func (h *UserHandler) HandleGetDisabilityMarks(c *fiber.Ctx) error {
	marks, err := h.authService.ListDisabilityMarks(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"disability_marks": marks})
}

func (h *UserHandler) HandleGetMe(c *fiber.Ctx) error {
	user, err := h.authService.GetUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// HandleGetUsers lists all users. Admins only.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	if err := h.requireSelfOrAdmin(c, ""); err != nil {
		return respondError(c, h.log, err)
	}
	users, err := h.authService.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

func (h *UserHandler) HandleGetUserByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.requireSelfOrAdmin(c, id); err != nil {
		return respondError(c, h.log, err)
	}
	user, err := h.authService.GetUser(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.requireSelfOrAdmin(c, id); err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.authService.DeleteUser(c.UserContext(), id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Benutzer gelöscht."})
}

// requireSelfOrAdmin allows the request when the viewer is targetID or an admin.
func (h *UserHandler) requireSelfOrAdmin(c *fiber.Ctx, targetID string) error {
	viewerID := middleware.UserID(c)
	if targetID != "" && viewerID == targetID {
		return nil
	}
	viewer, err := h.authService.GetUser(c.UserContext(), viewerID)
	if err != nil {
		return err
	}
	if !viewer.IsAdmin {
		return fiber.NewError(fiber.StatusForbidden, "Keine Berechtigung.")
	}
	return nil
}

package handlers

import (
	"errors"

	"eventim/internal/middleware"
	"eventim/internal/repositories"
	"eventim/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	auth        *middleware.Auth
	log         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, auth *middleware.Auth, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, auth: auth, log: log}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/token", h.HandleToken)
	authRoutes.Get("/session", h.auth.Optional(), h.HandleSession)
	authRoutes.Post("/logout", h.HandleLogout)
}

// HandleRegister handles new user registration, optionally with a disability card upload.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterRequest
	card, err := parseBody(c, &req, "disability_card")
	if err != nil {
		return respondError(c, h.log, err)
	}

	user, err := h.authService.Register(c.UserContext(), req, card)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registrierung erfolgreich.",
		"user":    user,
	})
}

// HandleLogin checks the credentials and starts a session.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req credentials
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, h.log, fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body."))
	}

	user, err := h.authService.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.auth.StartSession(c, user.ID); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"message": "Anmeldung erfolgreich.",
		"user":    user,
	})
}

// HandleToken issues a bearer token for API clients.
func (h *AuthHandler) HandleToken(c *fiber.Ctx) error {
	var req credentials
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, h.log, fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body."))
	}

	token, err := h.authService.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"token":      token,
		"token_type": "Bearer",
	})
}

// HandleSession reports whether the request belongs to a logged-in user.
func (h *AuthHandler) HandleSession(c *fiber.Ctx) error {
	id := middleware.UserID(c)
	if id == "" {
		return c.JSON(fiber.Map{"logged_in": false})
	}
	user, err := h.authService.GetUser(c.UserContext(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		return c.JSON(fiber.Map{"logged_in": false})
	}
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"logged_in": true, "user": user})
}

// HandleLogout destroys the session and clears its cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := h.auth.EndSession(c); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Abmeldung erfolgreich."})
}

package middleware

import (
	"errors"
	"strings"

	"eventim/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"
)

// LocalUserID is the fiber.Ctx Locals key holding the authenticated user id.
const LocalUserID = "user_id"

const sessionUserKey = "user_id"

var errBadHeader = errors.New("authorization header format must be 'Bearer <token>'")

// Auth resolves the current user from the session cookie or a bearer token.
type Auth struct {
	sessions    *session.Store
	authService *services.AuthService
	log         *zap.Logger
}

// NewAuth creates a new Auth.
func NewAuth(sessions *session.Store, authService *services.AuthService, log *zap.Logger) *Auth {
	if log == nil {
		log = zap.NewNop()
	}
	return &Auth{sessions: sessions, authService: authService, log: log}
}

// resolve returns the user id of the request, or "" for an anonymous request. A present
// but invalid bearer token is an error.
func (a *Auth) resolve(c *fiber.Ctx) (string, error) {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return "", errBadHeader
		}
		return a.authService.UserIDFromToken(parts[1])
	}

	sess, err := a.sessions.Get(c)
	if err != nil {
		return "", err
	}
	id, _ := sess.Get(sessionUserKey).(string)
	return id, nil
}

// Required rejects anonymous requests with 401.
func (a *Auth) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := a.resolve(c)
		if err != nil {
			a.log.Debug("authentication failed", zap.Error(err))
		}
		if id == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Bitte melden Sie sich an.",
			})
		}
		c.Locals(LocalUserID, id)
		return c.Next()
	}
}

// Optional stores the user id when the request is authenticated and lets anonymous
// requests through.
func (a *Auth) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, err := a.resolve(c); err == nil && id != "" {
			c.Locals(LocalUserID, id)
		}
		return c.Next()
	}
}

// StartSession binds the session to userID under a fresh session id.
func (a *Auth) StartSession(c *fiber.Ctx, userID string) error {
	sess, err := a.sessions.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessionUserKey, userID)
	return sess.Save()
}

// EndSession destroys the session and expires its cookie.
func (a *Auth) EndSession(c *fiber.Ctx) error {
	sess, err := a.sessions.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

// UserID returns the authenticated user id, or "".
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}

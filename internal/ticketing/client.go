package ticketing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventim/internal/models"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrConflict is returned when the server already holds a cart row for the category.
	ErrConflict = errors.New("ticketing: cart item already exists")
	// ErrUnauthenticated is returned when the server rejects the viewer's credentials.
	ErrUnauthenticated = errors.New("ticketing: not logged in")
)

// StatusError is an unexpected HTTP status from the API.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ticketing: unexpected status %d: %s", e.Code, e.Message)
}

// AddRequest is the body of POST /cart.
type AddRequest struct {
	EventID         string  `json:"event_id"`
	EventCategoryID string  `json:"event_category_id"`
	Quantity        int     `json:"quantity"`
	Price           float64 `json:"price"`
}

// CartAPI is the part of the HTTP API the ticket view talks to.
type CartAPI interface {
	TicketOptions(ctx context.Context, eventID string) (*Options, error)
	AddCartItem(ctx context.Context, req AddRequest) (*models.CartItem, error)
	UpdateCartItem(ctx context.Context, id string, quantity int) (*models.CartItem, error)
}

// APIClient implements CartAPI over HTTP. It authenticates with a session cookie or a
// bearer token, whichever is set.
type APIClient struct {
	baseURL    string
	cookieName string
	session    string
	token      string
	timeout    time.Duration
}

// NewAPIClient creates a client for the API mounted at baseURL, e.g.
// "http://localhost:8080/api/v1".
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{baseURL: strings.TrimRight(baseURL, "/"), timeout: 10 * time.Second}
}

// WithSession authenticates requests with the session cookie.
func (c *APIClient) WithSession(cookieName, value string) *APIClient {
	c.cookieName, c.session = cookieName, value
	return c
}

// WithToken authenticates requests with a bearer token.
func (c *APIClient) WithToken(token string) *APIClient {
	c.token = token
	return c
}

// Login exchanges credentials for a bearer token and keeps it for later requests.
func (c *APIClient) Login(ctx context.Context, email, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, fiber.Post(c.baseURL+"/auth/token").JSON(body), &out, fiber.StatusOK); err != nil {
		return err
	}
	c.token = out.Token
	return nil
}

func (c *APIClient) TicketOptions(ctx context.Context, eventID string) (*Options, error) {
	var opts Options
	if err := c.do(ctx, fiber.Get(c.baseURL+"/events/"+eventID+"/ticket-options"), &opts, fiber.StatusOK); err != nil {
		return nil, err
	}
	return &opts, nil
}

func (c *APIClient) AddCartItem(ctx context.Context, req AddRequest) (*models.CartItem, error) {
	var out struct {
		CartItem models.CartItem `json:"cart_item"`
	}
	if err := c.do(ctx, fiber.Post(c.baseURL+"/cart").JSON(req), &out, fiber.StatusCreated); err != nil {
		return nil, err
	}
	return &out.CartItem, nil
}

func (c *APIClient) UpdateCartItem(ctx context.Context, id string, quantity int) (*models.CartItem, error) {
	var out struct {
		CartItem models.CartItem `json:"cart_item"`
	}
	body := map[string]int{"quantity": quantity}
	if err := c.do(ctx, fiber.Patch(c.baseURL+"/cart/"+id).JSON(body), &out, fiber.StatusOK); err != nil {
		return nil, err
	}
	return &out.CartItem, nil
}

func (c *APIClient) do(ctx context.Context, a *fiber.Agent, out interface{}, want int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	a.Timeout(timeout)
	if c.token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	if c.session != "" {
		a.Cookie(c.cookieName, c.session)
	}

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("ticketing: request failed: %w", errors.Join(errs...))
	}
	switch {
	case code == want:
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("ticketing: decode response: %w", err)
		}
		return nil
	case code == fiber.StatusConflict:
		return ErrConflict
	case code == fiber.StatusUnauthorized:
		return ErrUnauthenticated
	default:
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &msg)
		return &StatusError{Code: code, Message: msg.Message}
	}
}

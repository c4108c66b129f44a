package handlers

import (
	"eventim/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ImageHandler streams stored images.
type ImageHandler struct {
	service *services.ImageService
	log     *zap.Logger
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(service *services.ImageService, log *zap.Logger) *ImageHandler {
	return &ImageHandler{service: service, log: log}
}

// RegisterRoutes registers the image routes with the Fiber app.
func (h *ImageHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/images/:id", h.HandleGetImage)
}

// HandleGetImage answers with the raw bytes and the stored MIME type.
func (h *ImageHandler) HandleGetImage(c *fiber.Ctx) error {
	img, data, err := h.service.Open(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, img.MimeType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Send(data)
}

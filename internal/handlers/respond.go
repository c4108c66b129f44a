package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"eventim/internal/repositories"
	"eventim/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const msgInternal = "Es ist ein interner Fehler aufgetreten. Bitte versuchen Sie es später erneut."

// respondError maps service and repository errors onto status codes. Anything
// unexpected is logged and answered with a generic message.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	var verr *services.ValidationError
	var ferr *fiber.Error
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": verr.Message, "field": verr.Field})
	case errors.As(err, &ferr):
		return c.Status(ferr.Code).JSON(fiber.Map{"message": ferr.Message})
	case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrCartLimitExceeded):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": rootMessage(err)})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": services.ErrInvalidCredentials.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Bitte melden Sie sich an."})
	case errors.Is(err, services.ErrNotEligible):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": services.ErrNotEligible.Error()})
	case errors.Is(err, services.ErrAlreadyInCart):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": services.ErrAlreadyInCart.Error()})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Der Eintrag wurde nicht gefunden."})
	case errors.Is(err, repositories.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Der Eintrag steht im Konflikt mit vorhandenen Daten."})
	}

	log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": msgInternal})
}

func rootMessage(err error) string {
	for _, sentinel := range []error{services.ErrEmailTaken, services.ErrCartLimitExceeded} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

// parseBody decodes a JSON body, or for multipart requests the JSON document in the
// "data" field plus the optional file in fileField.
func parseBody(c *fiber.Ctx, dst interface{}, fileField string) (*services.Upload, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if err := c.BodyParser(dst); err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body.")
		}
		return nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Ungültige Formulardaten.")
	}
	data := form.Value["data"]
	if len(data) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Das Feld data fehlt.")
	}
	if err := json.Unmarshal([]byte(data[0]), dst); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Das Feld data enthält kein gültiges JSON.")
	}

	files := form.File[fileField]
	if fileField == "" || len(files) == 0 {
		return nil, nil
	}
	f, err := files[0].Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &services.Upload{Filename: files[0].Filename, Data: content}, nil
}

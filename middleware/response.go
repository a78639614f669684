package middleware

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// APIError is an error that knows how it is rendered to clients
type APIError interface {
	error
	HTTPStatus() int
	ErrorCode() string
	PublicMessage() string
}

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}

// ErrorResponse renders err as {status, code, message}. Errors that are not an APIError
// become a generic 500; server-side failures are only logged.
func ErrorResponse(c *fiber.Ctx, err error) error {
	status, code, message := http.StatusInternalServerError, "INTERNAL", "Something went wrong, please try again"

	var apiErr APIError
	if errors.As(err, &apiErr) {
		status, code, message = apiErr.HTTPStatus(), apiErr.ErrorCode(), apiErr.PublicMessage()
	}
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("Request failed")
	}

	return c.Status(status).JSON(fiber.Map{
		"status":  false,
		"code":    code,
		"message": message,
	})
}

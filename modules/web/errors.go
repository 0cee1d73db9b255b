package web

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/influencer-planner/modules/account"
	"github.com/example/influencer-planner/modules/catalog"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type errorMapping struct {
	target error
	status int
}

// errorMappings translate service sentinels into HTTP statuses. The adapters
// restore the sentinels behind errors that crossed the service bus as text.
var errorMappings = []errorMapping{
	{account.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{account.ErrInvalidToken, fiber.StatusUnauthorized},
	{account.ErrExpiredToken, fiber.StatusUnauthorized},
	{account.ErrForbidden, fiber.StatusForbidden},
	{account.ErrUserNotFound, fiber.StatusNotFound},
	{account.ErrTaskNotFound, fiber.StatusNotFound},
	{account.ErrUserExists, fiber.StatusConflict},
	{catalog.ErrDuplicateName, fiber.StatusConflict},
	{account.ErrInvalidEmail, fiber.StatusBadRequest},
	{account.ErrWeakPassword, fiber.StatusBadRequest},
	{account.ErrPasswordTooLong, fiber.StatusBadRequest},
	{account.ErrNameRequired, fiber.StatusBadRequest},
	{account.ErrInvalidRole, fiber.StatusBadRequest},
	{account.ErrTitleRequired, fiber.StatusBadRequest},
	{account.ErrInvalidStatus, fiber.StatusBadRequest},
	{catalog.ErrNameRequired, fiber.StatusBadRequest},
	{catalog.ErrNoIDs, fiber.StatusBadRequest},
	{catalog.ErrInvalidColor, fiber.StatusBadRequest},
}

// classify returns the HTTP status and a client-safe message for err.
// Unknown errors become a generic 500.
func classify(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.target.Error()
		}
	}
	return fiber.StatusInternalServerError, "An internal error occurred"
}

func errorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "bad_request"
	case fiber.StatusUnauthorized:
		return "unauthorized"
	case fiber.StatusForbidden:
		return "forbidden"
	case fiber.StatusNotFound:
		return "not_found"
	case fiber.StatusConflict:
		return "conflict"
	case fiber.StatusTooManyRequests:
		return "rate_limit_exceeded"
	}
	if status >= fiber.StatusInternalServerError {
		return "internal_error"
	}
	return "error"
}

func isAPI(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/")
}

func jsonError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{
		Error:   errorCode(status),
		Message: message,
	})
}

// errorHandler renders JSON for API paths and an error page otherwise.
// Internal details are logged, never returned.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status, message := classify(err)
	if status >= fiber.StatusInternalServerError {
		s.logger.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}

	if isAPI(c) {
		return jsonError(c, status, message)
	}

	view := "error"
	if status == fiber.StatusForbidden {
		view = "not-authorized"
	}
	c.Status(status)
	if rerr := c.Render(view, s.page(c, "Error", fiber.Map{
		"Status":  status,
		"Message": message,
	})); rerr != nil {
		s.logger.Error("Failed to render error page", "error", rerr)
		return c.Status(status).SendString(message)
	}
	return nil
}

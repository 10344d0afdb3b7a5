package server

import (
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// parsePageLimit extracts pagination query parameters, clamping both to
// sensible minimums. Non-numeric values fall back to the defaults.
func parsePageLimit(c *fiber.Ctx) (page, limit int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("limit", service.DefaultPageLimit)
	if limit < 1 {
		limit = service.DefaultPageLimit
	}
	return page, limit
}

// respondServiceError translates an error from the service layer into the
// matching HTTP status and writes the standard error body.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	status := fiber.StatusInternalServerError
	switch appErr.Code {
	case models.CodeValidation, models.CodeUploadRejected:
		status = fiber.StatusBadRequest
	case models.CodeNotFound:
		status = fiber.StatusNotFound
	case models.CodeNotReady:
		status = fiber.StatusServiceUnavailable
	}
	return models.RespondWithError(c, status, appErr)
}

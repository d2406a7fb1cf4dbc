package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/retail-stock/internal/application/dto"
	"github.com/jhoicas/retail-stock/internal/domain"
)

// ErrorBody maps err to its HTTP status and response body.
func ErrorBody(err error) (int, dto.ErrorResponse) {
	var (
		vErr     *domain.ValidationError
		stockErr *domain.InsufficientStockError
		invErr   *domain.InvariantViolationError
		fErr     *fiber.Error
	)
	switch {
	case errors.As(err, &vErr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error(), Field: vErr.Field}
	case errors.As(err, &stockErr):
		return fiber.StatusConflict, dto.ErrorResponse{
			Code:      "INSUFFICIENT_STOCK",
			Message:   err.Error(),
			Available: &stockErr.Available,
			Requested: &stockErr.Requested,
		}
	case errors.As(err, &invErr):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "INVARIANT_VIOLATION", Message: err.Error(), Field: invErr.Field}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "CONCURRENCY_CONFLICT", Message: "the store is busy, retry the request"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid credentials"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "account inactive or not allowed"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "CANCELLED", Message: "request cancelled"}
	case errors.As(err, &fErr):
		return fErr.Code, dto.ErrorResponse{Code: "HTTP_ERROR", Message: fErr.Message}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "internal error"}
	}
}

// fail writes the error response for err. Server errors are logged with the request path.
func fail(c *fiber.Ctx, err error) error {
	status, body := ErrorBody(err)
	if status >= fiber.StatusInternalServerError && body.Code == "INTERNAL" {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(status).JSON(body)
}

// ErrorHandler is the fiber fallback for errors returned by handlers and middleware.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return fail(c, err)
}

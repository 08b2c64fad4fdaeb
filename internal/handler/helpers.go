package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/placement-portal-api/internal/middleware"
	"github.com/noah-isme/placement-portal-api/internal/placement"
	"github.com/noah-isme/placement-portal-api/internal/service"
	"github.com/noah-isme/placement-portal-api/internal/utils"
)

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	value := strings.TrimSpace(c.Params(key))
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
		if id, ok := v.(int); ok {
			if id < 0 {
				return 0
			}
			return uint(id)
		}
	}
	return 0
}

func userRoleFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_role"); v != nil {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

func actorFromContext(c *fiber.Ctx) service.Actor {
	return service.Actor{
		ID:   userIDFromContext(c),
		Role: userRoleFromContext(c),
	}
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// errorDetail is the structured payload attached to failed responses.
type errorDetail struct {
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// respondError maps service and placement errors onto HTTP responses.
// Unexpected failures are logged and masked behind fallback.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error, fallback string) error {
	var pe *placement.Error
	if errors.As(err, &pe) {
		status := statusForCode(pe.Code)
		if status >= fiber.StatusInternalServerError {
			requestLogger(logger, c).Error().Err(err).Msg(fallback)
			return utils.Fail(c, status, "service temporarily unavailable", errorDetail{Code: string(pe.Code)})
		}
		return utils.Fail(c, status, pe.Message, errorDetail{Code: string(pe.Code), Field: pe.Field})
	}

	switch {
	case isValidationError(err):
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), errorDetail{Code: string(placement.CodeInvalidFormat)})
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrPasswordMismatch):
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUploadTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrUploadTypeNotAllowed):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, service.ErrUploadMissing):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUploadsDisabled):
		return utils.SendError(c, fiber.StatusServiceUnavailable, err.Error())
	}

	requestLogger(logger, c).Error().Err(err).Msg(fallback)
	return utils.SendError(c, fiber.StatusInternalServerError, fallback)
}

func statusForCode(code placement.Code) int {
	switch code {
	case placement.CodeNotFound:
		return fiber.StatusNotFound
	case placement.CodeDuplicateIdentifier, placement.CodeDuplicateEmail:
		return fiber.StatusConflict
	case placement.CodeStoreUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusBadRequest
	}
}

var (
	adminOnly   = middleware.AuthOptions{Role: middleware.AuthRoleAdmin}
	studentOnly = middleware.AuthOptions{Role: middleware.AuthRoleStudent}
	anyUser     = middleware.AuthOptions{Role: middleware.AuthRoleAny, RequireUser: true}
)

// authenticator falls back to a pass-through when no token middleware is configured.
func authenticator(authn fiber.Handler) fiber.Handler {
	if authn == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return authn
}

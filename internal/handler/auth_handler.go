package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/placement-portal-api/internal/dto"
	"github.com/noah-isme/placement-portal-api/internal/middleware"
	"github.com/noah-isme/placement-portal-api/internal/service"
	"github.com/noah-isme/placement-portal-api/internal/utils"
)

// AuthHandler exposes registration, login and account endpoints.
type AuthHandler struct {
	service      service.AuthService
	loginLimiter fiber.Handler
	logger       zerolog.Logger
}

// NewAuthHandler constructs the handler. loginLimiter may be nil.
func NewAuthHandler(service service.AuthService, loginLimiter fiber.Handler, logger zerolog.Logger) *AuthHandler {
	if loginLimiter == nil {
		loginLimiter = func(c *fiber.Ctx) error { return c.Next() }
	}
	return &AuthHandler{
		service:      service,
		loginLimiter: loginLimiter,
		logger:       logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches auth routes to the router group.
func (h *AuthHandler) Register(router fiber.Router, authn fiber.Handler) {
	authn = authenticator(authn)

	router.Post("/register", h.register)
	router.Post("/login", h.loginLimiter, h.login)
	router.Get("/me", authn, middleware.WithAuth(h.me, anyUser))
	router.Put("/change-password", authn, middleware.WithAuth(h.changePassword, anyUser))
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Register(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to register student")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "registration successful", response)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Login(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to log in")
	}

	requestLogger(h.logger, c).Info().Uint("user_id", response.User.ID).Str("role", response.User.Role).Msg("login succeeded")
	return utils.SendSuccess(c, "login successful", response)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	user, err := h.service.Me(c.UserContext(), actorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to load profile")
	}

	return utils.SendSuccess(c, "profile retrieved", user)
}

func (h *AuthHandler) changePassword(c *fiber.Ctx) error {
	var payload dto.ChangePasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.ChangePassword(c.UserContext(), actorFromContext(c), payload); err != nil {
		return respondError(c, h.logger, err, "failed to change password")
	}

	return utils.SendSuccess(c, "password updated", nil)
}

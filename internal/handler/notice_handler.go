package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/placement-portal-api/internal/dto"
	"github.com/noah-isme/placement-portal-api/internal/middleware"
	"github.com/noah-isme/placement-portal-api/internal/service"
	"github.com/noah-isme/placement-portal-api/internal/utils"
)

// NoticeHandler wires notice publishing and discovery endpoints.
type NoticeHandler struct {
	service service.NoticeService
	logger  zerolog.Logger
}

// NewNoticeHandler constructs the handler.
func NewNoticeHandler(service service.NoticeService, logger zerolog.Logger) *NoticeHandler {
	return &NoticeHandler{
		service: service,
		logger:  logger.With().Str("component", "notice_handler").Logger(),
	}
}

// Register attaches notice routes to the router group.
func (h *NoticeHandler) Register(router fiber.Router, authn fiber.Handler) {
	authn = authenticator(authn)

	router.Get("/companies", h.companies)
	router.Post("", authn, middleware.WithAuth(h.create, adminOnly))
	router.Get("/all", authn, middleware.WithAuth(h.listAll, adminOnly))
	router.Get("/student", authn, middleware.WithAuth(h.listForStudent, studentOnly))
	router.Delete("/:id", authn, middleware.WithAuth(h.delete, adminOnly))
}

func (h *NoticeHandler) create(c *fiber.Ctx) error {
	var payload dto.NoticeCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	notice, err := h.service.Create(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to publish notice")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "notice published", notice)
}

func (h *NoticeHandler) listAll(c *fiber.Ctx) error {
	notices, err := h.service.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "failed to list notices")
	}

	return utils.SendSuccess(c, "notices retrieved", notices)
}

func (h *NoticeHandler) listForStudent(c *fiber.Ctx) error {
	notices, err := h.service.ListForStudent(c.UserContext(), actorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to list notices")
	}

	message := "eligible notices retrieved"
	if notices.Placed {
		message = notices.Message
	}
	return utils.SendSuccess(c, message, notices)
}

func (h *NoticeHandler) companies(c *fiber.Ctx) error {
	companies, err := h.service.VisitedCompanies(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "failed to list companies")
	}

	return utils.OK(c, companies, "companies retrieved", fiber.Map{"cache_hit": companies.CacheHit})
}

func (h *NoticeHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid notice id")
	}

	if err := h.service.Delete(c.UserContext(), actorFromContext(c), id); err != nil {
		return respondError(c, h.logger, err, "failed to delete notice")
	}

	return utils.SendSuccess(c, "notice deleted", fiber.Map{"id": id})
}

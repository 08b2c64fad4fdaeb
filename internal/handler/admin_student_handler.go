package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/placement-portal-api/internal/dto"
	"github.com/noah-isme/placement-portal-api/internal/middleware"
	"github.com/noah-isme/placement-portal-api/internal/service"
	"github.com/noah-isme/placement-portal-api/internal/utils"
)

// AdminStudentHandler wires admin student endpoints.
type AdminStudentHandler struct {
	service    service.AdminStudentService
	statistics service.StatisticsService
	logger     zerolog.Logger
}

// NewAdminStudentHandler constructs the handler.
func NewAdminStudentHandler(service service.AdminStudentService, statistics service.StatisticsService, logger zerolog.Logger) *AdminStudentHandler {
	return &AdminStudentHandler{
		service:    service,
		statistics: statistics,
		logger:     logger.With().Str("component", "admin_student_handler").Logger(),
	}
}

// Register attaches student admin routes to the router group.
// Static paths are registered ahead of the :usn parameter.
func (h *AdminStudentHandler) Register(router fiber.Router, authn fiber.Handler) {
	authn = authenticator(authn)

	router.Get("", authn, middleware.WithAuth(h.list, adminOnly))
	router.Get("/statistics", authn, middleware.WithAuth(h.stats, adminOnly))
	router.Get("/:usn", authn, middleware.WithAuth(h.get, adminOnly))
	router.Put("/:usn/placement-status", authn, middleware.WithAuth(h.updatePlacement, adminOnly))
	router.Put("/:usn/update", authn, middleware.WithAuth(h.update, adminOnly))
}

func (h *AdminStudentHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	if page <= 0 {
		page = 1
	}

	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}
	if pageSize <= 0 {
		pageSize = 20
	} else if pageSize > 100 {
		pageSize = 100
	}

	semester, err := parseQueryInt(c, "semester")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid semester")
	}

	req := dto.AdminStudentListRequest{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
		Branch:   c.Query("branch"),
		Semester: semester,
		Status:   c.Query("status"),
	}

	response, err := h.service.List(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err, "failed to list students")
	}

	return utils.OK(c, response.Items, "students retrieved", response.Pagination)
}

func (h *AdminStudentHandler) get(c *fiber.Ctx) error {
	student, err := h.service.Get(c.UserContext(), c.Params("usn"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to fetch student")
	}

	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *AdminStudentHandler) updatePlacement(c *fiber.Ctx) error {
	var payload dto.PlacementStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.UpdatePlacementStatus(c.UserContext(), c.Params("usn"), payload, actorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to update placement status")
	}

	return utils.SendSuccess(c, response.Summary, response.Student)
}

func (h *AdminStudentHandler) update(c *fiber.Ctx) error {
	var payload dto.AdminStudentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.service.Update(c.UserContext(), c.Params("usn"), payload, actorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to update student")
	}

	return utils.SendSuccess(c, "student updated", student)
}

func (h *AdminStudentHandler) stats(c *fiber.Ctx) error {
	if h.statistics == nil {
		return utils.SendError(c, fiber.StatusServiceUnavailable, "statistics unavailable")
	}

	stats, err := h.statistics.Get(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "failed to aggregate statistics")
	}

	return utils.SendSuccess(c, "statistics retrieved", stats)
}

package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/placement-portal-api/internal/dto"
	"github.com/noah-isme/placement-portal-api/internal/middleware"
	"github.com/noah-isme/placement-portal-api/internal/service"
	"github.com/noah-isme/placement-portal-api/internal/utils"
)

// StudentHandler exposes the self-service profile endpoints.
type StudentHandler struct {
	profiles service.StudentProfileService
	resumes  service.ResumeService
	logger   zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(profiles service.StudentProfileService, resumes service.ResumeService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		profiles: profiles,
		resumes:  resumes,
		logger:   logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches profile routes to the router group.
func (h *StudentHandler) Register(router fiber.Router, authn fiber.Handler) {
	authn = authenticator(authn)

	router.Get("/profile", authn, middleware.WithAuth(h.profile, studentOnly))
	router.Put("/profile", authn, middleware.WithAuth(h.updateProfile, studentOnly))
	router.Post("/profile/resume", authn, middleware.WithAuth(h.uploadResume, studentOnly))
}

func (h *StudentHandler) profile(c *fiber.Ctx) error {
	student, err := h.profiles.Get(c.UserContext(), actorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to load profile")
	}

	return utils.SendSuccess(c, "profile retrieved", student)
}

func (h *StudentHandler) updateProfile(c *fiber.Ctx) error {
	var payload dto.StudentProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.profiles.Update(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to update profile")
	}

	return utils.SendSuccess(c, "profile updated", student)
}

func (h *StudentHandler) uploadResume(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	result, err := h.resumes.Upload(c.UserContext(), actorFromContext(c), file)
	if err != nil {
		return respondError(c, h.logger, err, "resume upload failed")
	}

	return utils.SendSuccess(c, "resume uploaded", result)
}

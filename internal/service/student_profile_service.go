package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/placement-portal-api/internal/dto"
	"github.com/noah-isme/placement-portal-api/internal/placement"
	"github.com/noah-isme/placement-portal-api/internal/repository"
)

// StudentProfileService lets a student read and edit their own profile.
type StudentProfileService interface {
	Get(ctx context.Context, actor Actor) (dto.StudentResponse, error)
	Update(ctx context.Context, actor Actor, req dto.StudentProfileUpdateRequest) (dto.StudentResponse, error)
}

type studentProfileService struct {
	repo      repository.StudentRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewStudentProfileService constructs the profile service.
func NewStudentProfileService(repo repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) StudentProfileService {
	return &studentProfileService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "student_profile_service").Logger(),
	}
}

func (s *studentProfileService) Get(ctx context.Context, actor Actor) (dto.StudentResponse, error) {
	student, err := s.repo.GetByID(ctx, actor.ID)
	if err != nil {
		return dto.StudentResponse{}, storeError(err, "student")
	}
	return dto.NewStudentResponse(student), nil
}

func (s *studentProfileService) Update(ctx context.Context, actor Actor, req dto.StudentProfileUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}

	dob, err := parseDate(req.DOB)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	update := placement.ProfileUpdate{
		Name:     req.Name,
		Semester: req.Semester,
		CGPA:     req.CGPA,
		DOB:      dob,
	}
	if err := placement.ValidateProfileUpdate(update); err != nil {
		return dto.StudentResponse{}, err
	}

	updates, fields := profileUpdates(update)
	student, err := s.repo.Update(ctx, actor.ID, updates)
	if err != nil {
		return dto.StudentResponse{}, storeError(err, "student")
	}

	if len(fields) > 0 {
		s.logger.Info().Uint("student_id", actor.ID).Strs("fields", fields).Msg("student profile updated")
	}

	return dto.NewStudentResponse(student), nil
}

// profileUpdates converts a validated update into column updates.
func profileUpdates(update placement.ProfileUpdate) (map[string]interface{}, []string) {
	updates := make(map[string]interface{})
	fields := make([]string, 0)

	if update.Name != nil {
		updates["name"] = strings.TrimSpace(*update.Name)
		fields = append(fields, "name")
	}
	if update.Semester != nil {
		updates["semester"] = *update.Semester
		fields = append(fields, "semester")
	}
	if update.CGPA != nil {
		updates["cgpa"] = *update.CGPA
		fields = append(fields, "cgpa")
	}
	if update.DOB != nil {
		updates["dob"] = *update.DOB
		fields = append(fields, "dob")
	}

	return updates, fields
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/placement-portal-api/internal/dto"
	"github.com/noah-isme/placement-portal-api/internal/models"
	"github.com/noah-isme/placement-portal-api/internal/placement"
	"github.com/noah-isme/placement-portal-api/internal/repository"
)

// CacheInvalidator drops cached aggregates after a write.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// AdminStudentService orchestrates admin student management use cases.
type AdminStudentService interface {
	List(ctx context.Context, req dto.AdminStudentListRequest) (dto.AdminStudentListResponse, error)
	Get(ctx context.Context, usn string) (dto.StudentResponse, error)
	UpdatePlacementStatus(ctx context.Context, usn string, req dto.PlacementStatusRequest, actor Actor) (dto.PlacementStatusResponse, error)
	Update(ctx context.Context, usn string, req dto.AdminStudentUpdateRequest, actor Actor) (dto.StudentResponse, error)
}

type adminStudentService struct {
	repo      repository.AdminStudentRepository
	validator *validator.Validate
	activity  ActivityRecorder
	stats     CacheInvalidator
	logger    zerolog.Logger
}

// NewAdminStudentService constructs the admin student service.
func NewAdminStudentService(repo repository.AdminStudentRepository, validate *validator.Validate, activity ActivityRecorder, stats CacheInvalidator, logger zerolog.Logger) AdminStudentService {
	return &adminStudentService{
		repo:      repo,
		validator: validate,
		activity:  activity,
		stats:     stats,
		logger:    logger.With().Str("component", "admin_student_service").Logger(),
	}
}

func (s *adminStudentService) List(ctx context.Context, req dto.AdminStudentListRequest) (dto.AdminStudentListResponse, error) {
	filter := repository.AdminStudentFilter{
		Search:   strings.TrimSpace(req.Search),
		Semester: req.Semester,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	if raw := strings.TrimSpace(req.Branch); raw != "" {
		branch, ok := placement.ParseBranch(raw)
		if !ok {
			return dto.AdminStudentListResponse{}, &placement.Error{Code: placement.CodeUnknownBranch, Field: "branch", Message: "unknown branch " + raw}
		}
		filter.Branch = string(branch)
	}
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status, ok := placement.ParsePlacementStatus(raw)
		if !ok {
			return dto.AdminStudentListResponse{}, &placement.Error{Code: placement.CodeInvalidFormat, Field: "status", Message: "unknown placement status " + raw}
		}
		filter.Status = string(status)
	}

	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.AdminStudentListResponse{}, storeError(err, "student")
	}

	responses := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, dto.NewStudentResponse(student))
	}

	return dto.AdminStudentListResponse{
		Items:      responses,
		Pagination: paginationMeta(req.Page, req.PageSize, total),
	}, nil
}

func (s *adminStudentService) Get(ctx context.Context, usn string) (dto.StudentResponse, error) {
	student, err := s.repo.GetByUSN(ctx, usn)
	if err != nil {
		return dto.StudentResponse{}, storeError(err, "student")
	}
	return dto.NewStudentResponse(student), nil
}

func (s *adminStudentService) UpdatePlacementStatus(ctx context.Context, usn string, req dto.PlacementStatusRequest, actor Actor) (dto.PlacementStatusResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.PlacementStatusResponse{}, err
	}

	next, err := placement.Transition(req.PlacementStatus, req.PlacedCompany)
	if err != nil {
		return dto.PlacementStatusResponse{}, err
	}

	student, err := s.repo.UpdateByUSN(ctx, usn, placementUpdates(next))
	if err != nil {
		return dto.PlacementStatusResponse{}, storeError(err, "student")
	}

	s.afterMutation(ctx, student, actor, "student.placement_updated", map[string]interface{}{
		"usn":     student.USN,
		"status":  string(next.Status),
		"company": next.CompanyName(),
	})

	return dto.PlacementStatusResponse{
		Summary: placementSummary(student),
		Student: dto.NewStudentResponse(student),
	}, nil
}

func (s *adminStudentService) Update(ctx context.Context, usn string, req dto.AdminStudentUpdateRequest, actor Actor) (dto.StudentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}

	current, err := s.repo.GetByUSN(ctx, usn)
	if err != nil {
		return dto.StudentResponse{}, storeError(err, "student")
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

	switch {
	case req.PlacementStatus != nil:
		update.Placement = &placement.PlacementChange{Status: *req.PlacementStatus, Company: req.PlacedCompany}
	case req.PlacedCompany != nil:
		if current.PlacementStatus != placement.StatusPlaced {
			return dto.StudentResponse{}, &placement.Error{
				Code:    placement.CodeInvalidFormat,
				Field:   "placed_company",
				Message: `placed_company can only change together with placement_status "Placed"`,
			}
		}
		update.Placement = &placement.PlacementChange{Status: string(placement.StatusPlaced), Company: req.PlacedCompany}
	}

	if err := placement.ValidateProfileUpdate(update); err != nil {
		return dto.StudentResponse{}, err
	}

	updates, fields := profileUpdates(update)
	metadata := map[string]interface{}{"usn": current.USN}
	if update.Placement != nil {
		next, _ := placement.Transition(update.Placement.Status, update.Placement.Company)
		for column, value := range placementUpdates(next) {
			updates[column] = value
		}
		fields = append(fields, "placement_status", "placed_company")
		metadata["status"] = string(next.Status)
		metadata["company"] = next.CompanyName()
	}
	metadata["fields"] = fields

	if len(updates) == 0 {
		return dto.NewStudentResponse(current), nil
	}

	student, err := s.repo.UpdateByUSN(ctx, current.USN, updates)
	if err != nil {
		return dto.StudentResponse{}, storeError(err, "student")
	}

	s.afterMutation(ctx, student, actor, "student.updated", metadata)

	return dto.NewStudentResponse(student), nil
}

func (s *adminStudentService) afterMutation(ctx context.Context, student models.Student, actor Actor, action string, metadata map[string]interface{}) {
	id := student.ID
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "student",
		EntityID:   &id,
		Metadata:   metadata,
	})
	if s.stats != nil {
		s.stats.Invalidate(ctx)
	}
	s.logger.Info().Str("usn", student.USN).Str("action", action).Uint("actor_id", actor.ID).Msg("student updated by admin")
}

func placementUpdates(p placement.Placement) map[string]interface{} {
	return map[string]interface{}{
		"placement_status": string(p.Status),
		"placed_company":   p.Company,
	}
}

func placementSummary(student models.Student) string {
	name := strings.TrimSpace(student.Name)
	if name == "" {
		name = student.USN
	}
	if student.PlacementStatus == placement.StatusPlaced && student.PlacedCompany != nil {
		return fmt.Sprintf("Student %s has been marked as %s in %s", name, student.PlacementStatus, *student.PlacedCompany)
	}
	return fmt.Sprintf("Student %s has been marked as %s", name, student.PlacementStatus)
}

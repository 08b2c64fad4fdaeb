package dto

import (
	"time"

	"gorm.io/datatypes"

	"github.com/noah-isme/placement-portal-api/internal/models"
	"github.com/noah-isme/placement-portal-api/internal/placement"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// AdminStudentListRequest defines filters for listing students.
type AdminStudentListRequest struct {
	Page     int
	PageSize int
	Search   string
	Branch   string
	Semester int
	Status   string
}

// AdminStudentListResponse wraps a paginated student response.
type AdminStudentListResponse struct {
	Items      []StudentResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// AdminStudentUpdateRequest captures partial updates an administrator may apply to a student.
type AdminStudentUpdateRequest struct {
	Name            *string  `json:"name" validate:"omitempty,max=255"`
	Semester        *int     `json:"semester"`
	CGPA            *float64 `json:"cgpa"`
	DOB             *string  `json:"dob"`
	PlacementStatus *string  `json:"placement_status"`
	PlacedCompany   *string  `json:"placed_company" validate:"omitempty,max=255"`
}

// PlacementStatusRequest moves a student between placement states.
type PlacementStatusRequest struct {
	PlacementStatus string  `json:"placement_status" validate:"required"`
	PlacedCompany   *string `json:"placed_company" validate:"omitempty,max=255"`
}

// PlacementStatusResponse reports the outcome of a placement transition.
type PlacementStatusResponse struct {
	Summary string          `json:"summary"`
	Student StudentResponse `json:"student"`
}

// CompanyStat is the number of students placed at a company.
type CompanyStat struct {
	Company string `json:"company"`
	Count   int64  `json:"count"`
}

// JobTypeStat is the number of notices of one job type.
type JobTypeStat struct {
	JobType placement.JobType `json:"job_type"`
	Count   int64             `json:"count"`
}

// StatisticsResponse aggregates placement metrics for administrators.
type StatisticsResponse struct {
	TotalStudents       int64         `json:"total_students"`
	PlacedStudents      int64         `json:"placed_students"`
	NotPlacedStudents   int64         `json:"not_placed_students"`
	PlacementPercentage float64       `json:"placement_percentage"`
	CompaniesStats      []CompanyStat `json:"companies_stats"`
	AveragePackage      float64       `json:"average_package"`
	JobTypeStats        []JobTypeStat `json:"job_type_stats"`
	GeneratedAt         time.Time     `json:"generated_at"`
	CacheHit            bool          `json:"cache_hit"`
}

// NewStatisticsResponse converts aggregated statistics into a DTO.
func NewStatisticsResponse(stats placement.Statistics, generatedAt time.Time) StatisticsResponse {
	companies := make([]CompanyStat, 0, len(stats.CompaniesStats))
	for _, c := range stats.CompaniesStats {
		companies = append(companies, CompanyStat{Company: c.Company, Count: c.Count})
	}
	jobTypes := make([]JobTypeStat, 0, len(stats.JobTypeStats))
	for _, j := range stats.JobTypeStats {
		jobTypes = append(jobTypes, JobTypeStat{JobType: j.JobType, Count: j.Count})
	}

	return StatisticsResponse{
		TotalStudents:       stats.TotalStudents,
		PlacedStudents:      stats.PlacedStudents,
		NotPlacedStudents:   stats.NotPlacedStudents,
		PlacementPercentage: stats.PlacementPercentage,
		CompaniesStats:      companies,
		AveragePackage:      stats.AveragePackage,
		JobTypeStats:        jobTypes,
		GeneratedAt:         generatedAt,
	}
}

// AdminActivityListRequest defines filters for retrieving activity logs.
type AdminActivityListRequest struct {
	Page       int
	PageSize   int
	ActorID    uint
	Action     string
	EntityType string
	EntityID   uint
	Since      time.Time
}

// AdminActivityResponse serializes activity log entries.
type AdminActivityResponse struct {
	ID         uint                   `json:"id"`
	ActorID    uint                   `json:"actor_id"`
	ActorRole  string                 `json:"actor_role"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   *uint                  `json:"entity_id"`
	Metadata   map[string]interface{} `json:"metadata"`
	CreatedAt  time.Time              `json:"created_at"`
}

// AdminActivityListResponse wraps paginated activity logs.
type AdminActivityListResponse struct {
	Items      []AdminActivityResponse `json:"items"`
	Pagination PaginationMeta          `json:"pagination"`
}

func metadataFromJSON(data datatypes.JSONMap) map[string]interface{} {
	if data == nil {
		return map[string]interface{}{}
	}
	return map[string]interface{}(data)
}

// NewAdminActivityResponse converts a model into an activity DTO.
func NewAdminActivityResponse(entry models.ActivityLog) AdminActivityResponse {
	return AdminActivityResponse{
		ID:         entry.ID,
		ActorID:    entry.ActorID,
		ActorRole:  entry.ActorRole,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   metadataFromJSON(entry.Metadata),
		CreatedAt:  entry.CreatedAt,
	}
}

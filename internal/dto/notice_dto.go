package dto

import (
	"time"

	"github.com/noah-isme/placement-portal-api/internal/models"
	"github.com/noah-isme/placement-portal-api/internal/placement"
)

// NoticeCreateRequest is the payload used by administrators to publish a notice.
type NoticeCreateRequest struct {
	CompanyName     string   `json:"company_name" validate:"max=255"`
	Description     string   `json:"description"`
	Link            string   `json:"link" validate:"omitempty,url,max=1024"`
	TargetSemesters []int    `json:"target_semesters"`
	TargetBranches  []string `json:"target_branches"`
	TargetYear      int      `json:"target_year" validate:"gte=0"`
	MinCGPA         *float64 `json:"min_cgpa"`
	MaxCGPA         *float64 `json:"max_cgpa"`
	PackageOffered  string   `json:"package_offered" validate:"max=255"`
	JobType         string   `json:"job_type"`
}

// ToInput maps the request onto the notice validator input.
func (r NoticeCreateRequest) ToInput() placement.NoticeInput {
	return placement.NoticeInput{
		CompanyName:     r.CompanyName,
		Description:     r.Description,
		Link:            r.Link,
		PackageOffered:  r.PackageOffered,
		JobType:         r.JobType,
		TargetSemesters: r.TargetSemesters,
		TargetBranches:  r.TargetBranches,
		TargetYear:      r.TargetYear,
		MinCGPA:         r.MinCGPA,
		MaxCGPA:         r.MaxCGPA,
	}
}

// NoticeResponse serializes a notice.
type NoticeResponse struct {
	ID              uint               `json:"id"`
	CompanyName     string             `json:"company_name"`
	Description     string             `json:"description"`
	Link            string             `json:"link"`
	TargetSemesters []int              `json:"target_semesters"`
	TargetBranches  []placement.Branch `json:"target_branches"`
	TargetYear      int                `json:"target_year"`
	MinCGPA         float64            `json:"min_cgpa"`
	MaxCGPA         float64            `json:"max_cgpa"`
	PackageOffered  string             `json:"package_offered"`
	JobType         placement.JobType  `json:"job_type"`
	CreatedAt       time.Time          `json:"created_at"`
}

// NewNoticeResponse converts a notice model into a DTO.
func NewNoticeResponse(notice models.Notice) NoticeResponse {
	semesters := append([]int{}, notice.TargetSemesters...)
	branches := append([]placement.Branch{}, notice.TargetBranches...)
	return NoticeResponse{
		ID:              notice.ID,
		CompanyName:     notice.CompanyName,
		Description:     notice.Description,
		Link:            notice.Link,
		TargetSemesters: semesters,
		TargetBranches:  branches,
		TargetYear:      notice.TargetYear,
		MinCGPA:         notice.MinCGPA,
		MaxCGPA:         notice.MaxCGPA,
		PackageOffered:  notice.PackageOffered,
		JobType:         notice.JobType,
		CreatedAt:       notice.CreatedAt,
	}
}

// Target exposes the notice's eligibility criteria so broadcast events can be matched.
func (n NoticeResponse) Target() placement.Target {
	return placement.Target{
		Semesters: n.TargetSemesters,
		Branches:  n.TargetBranches,
		Year:      n.TargetYear,
		MinCGPA:   n.MinCGPA,
		MaxCGPA:   n.MaxCGPA,
		CreatedAt: n.CreatedAt,
	}
}

// NewNoticeResponses converts a slice of notices.
func NewNoticeResponses(notices []models.Notice) []NoticeResponse {
	responses := make([]NoticeResponse, 0, len(notices))
	for _, notice := range notices {
		responses = append(responses, NewNoticeResponse(notice))
	}
	return responses
}

// NoticeListResponse lists notices for administrators.
type NoticeListResponse struct {
	Items []NoticeResponse `json:"items"`
	Count int              `json:"count"`
}

// StudentNoticesResponse lists the notices a student is eligible for.
type StudentNoticesResponse struct {
	Items   []NoticeResponse `json:"items"`
	Count   int              `json:"count"`
	Placed  bool             `json:"placed"`
	Message string           `json:"message,omitempty"`
}

// VisitedCompaniesResponse lists every company that has published a notice.
type VisitedCompaniesResponse struct {
	Companies []string `json:"companies"`
	Count     int      `json:"count"`
	CacheHit  bool     `json:"cache_hit"`
}

// NoticeEvent is broadcast whenever a notice is published or withdrawn.
type NoticeEvent struct {
	Type   string         `json:"type"`
	Notice NoticeResponse `json:"notice"`
	SentAt time.Time      `json:"sent_at"`
}

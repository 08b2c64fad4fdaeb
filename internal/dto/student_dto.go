package dto

import (
	"time"

	"github.com/noah-isme/placement-portal-api/internal/models"
	"github.com/noah-isme/placement-portal-api/internal/placement"
)

// StudentResponse serializes a student profile. The password hash is never exposed.
type StudentResponse struct {
	ID              uint                      `json:"id"`
	Name            string                    `json:"name"`
	USN             string                    `json:"usn"`
	Email           string                    `json:"email"`
	Semester        int                       `json:"semester"`
	Branch          placement.Branch          `json:"branch"`
	Year            int                       `json:"year"`
	CGPA            float64                   `json:"cgpa"`
	DOB             *time.Time                `json:"dob,omitempty"`
	PlacementStatus placement.PlacementStatus `json:"placement_status"`
	PlacedCompany   *string                   `json:"placed_company"`
	ResumeURL       string                    `json:"resume_url,omitempty"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

// NewStudentResponse converts a student model into a DTO.
func NewStudentResponse(student models.Student) StudentResponse {
	return StudentResponse{
		ID:              student.ID,
		Name:            student.Name,
		USN:             student.USN,
		Email:           student.Email,
		Semester:        student.Semester,
		Branch:          student.Branch,
		Year:            student.EnrollmentYear,
		CGPA:            student.CGPA,
		DOB:             student.DOB,
		PlacementStatus: student.PlacementStatus,
		PlacedCompany:   student.PlacedCompany,
		ResumeURL:       student.ResumeURL,
		CreatedAt:       student.CreatedAt,
		UpdatedAt:       student.UpdatedAt,
	}
}

// StudentProfileUpdateRequest is the partial update a student may apply to their own profile.
type StudentProfileUpdateRequest struct {
	Name     *string  `json:"name" validate:"omitempty,max=255"`
	Semester *int     `json:"semester"`
	CGPA     *float64 `json:"cgpa"`
	DOB      *string  `json:"dob"`
}

// ResumeResponse describes a stored resume upload.
type ResumeResponse struct {
	URL       string `json:"url"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
	Checksum  string `json:"checksum"`
}

package dto

import (
	"time"

	"github.com/noah-isme/placement-portal-api/internal/models"
	"github.com/noah-isme/placement-portal-api/internal/placement"
)

// RegisterRequest is the payload for student self-registration.
// Range and format rules are enforced by the profile validator.
type RegisterRequest struct {
	Name     string   `json:"name" validate:"omitempty,max=255"`
	USN      string   `json:"usn" validate:"required"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6,max=72"`
	Semester int      `json:"semester"`
	Branch   string   `json:"branch"`
	CGPA     *float64 `json:"cgpa"`
	DOB      *string  `json:"dob"`
}

// LoginRequest authenticates either the administrator (by username) or a student (by USN).
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest rotates the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
}

// UserResponse is the authenticated principal. Student fields are omitted for administrators.
type UserResponse struct {
	ID              uint                      `json:"id"`
	Role            string                    `json:"role"`
	Username        string                    `json:"username,omitempty"`
	Name            string                    `json:"name,omitempty"`
	USN             string                    `json:"usn,omitempty"`
	Email           string                    `json:"email"`
	Semester        int                       `json:"semester,omitempty"`
	Branch          placement.Branch          `json:"branch,omitempty"`
	Year            int                       `json:"year,omitempty"`
	CGPA            *float64                  `json:"cgpa,omitempty"`
	DOB             *time.Time                `json:"dob,omitempty"`
	PlacementStatus placement.PlacementStatus `json:"placement_status,omitempty"`
	PlacedCompany   *string                   `json:"placed_company,omitempty"`
}

// AuthResponse carries the issued token with the principal.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// NewStudentUserResponse converts a student into the principal DTO.
func NewStudentUserResponse(student models.Student, role string) UserResponse {
	cgpa := student.CGPA
	return UserResponse{
		ID:              student.ID,
		Role:            role,
		Name:            student.Name,
		USN:             student.USN,
		Email:           student.Email,
		Semester:        student.Semester,
		Branch:          student.Branch,
		Year:            student.EnrollmentYear,
		CGPA:            &cgpa,
		DOB:             student.DOB,
		PlacementStatus: student.PlacementStatus,
		PlacedCompany:   student.PlacedCompany,
	}
}

// NewAdminUserResponse converts an administrator into the principal DTO.
func NewAdminUserResponse(admin models.Admin, role string) UserResponse {
	return UserResponse{
		ID:       admin.ID,
		Role:     role,
		Username: admin.Username,
		Email:    admin.Email,
	}
}

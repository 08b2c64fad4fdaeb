package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/placement-portal-api/internal/placement"
)

// Student is a registered student and their placement state.
type Student struct {
	ID              uint                      `gorm:"primaryKey" json:"id"`
	Name            string                    `gorm:"size:255" json:"name"`
	USN             string                    `gorm:"column:usn;size:10;uniqueIndex;not null" json:"usn"`
	Email           string                    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash    string                    `gorm:"size:255;not null" json:"-"`
	Semester        int                       `gorm:"not null" json:"semester"`
	Branch          placement.Branch          `gorm:"size:64;not null;index" json:"branch"`
	EnrollmentYear  int                       `gorm:"column:enrollment_year;index" json:"year"`
	CGPA            float64                   `gorm:"column:cgpa;not null" json:"cgpa"`
	DOB             *time.Time                `gorm:"column:dob" json:"dob,omitempty"`
	PlacementStatus placement.PlacementStatus `gorm:"size:16;not null;index" json:"placement_status"`
	PlacedCompany   *string                   `gorm:"size:255;index" json:"placed_company"`
	ResumeURL       string                    `gorm:"column:resume_url;size:512" json:"resume_url,omitempty"`
	CreatedAt       time.Time                 `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

// BeforeSave re-derives the enrollment year whenever a USN is written.
// Column-map updates carry no USN and are left alone.
func (s *Student) BeforeSave(tx *gorm.DB) error {
	if s.USN == "" {
		return nil
	}
	id, err := placement.ParseIdentifier(s.USN)
	if err != nil {
		return err
	}
	s.USN = id.Value
	s.EnrollmentYear = id.EnrollmentYear
	if s.PlacementStatus == "" {
		s.PlacementStatus = placement.StatusNotPlaced
	}
	return nil
}

// Placement returns the student's placement state.
func (s Student) Placement() placement.Placement {
	return placement.Placement{Status: s.PlacementStatus, Company: s.PlacedCompany}
}

// Profile returns the fields used for notice matching.
func (s Student) Profile() placement.Profile {
	return placement.Profile{
		Semester:  s.Semester,
		Branch:    s.Branch,
		CGPA:      s.CGPA,
		Placement: s.Placement(),
	}
}

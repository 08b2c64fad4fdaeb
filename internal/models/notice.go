package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/noah-isme/placement-portal-api/internal/placement"
)

// Notice is a job or internship opportunity published by the placement cell.
type Notice struct {
	ID              uint                                  `gorm:"primaryKey" json:"id"`
	CompanyName     string                                `gorm:"size:255;not null;index" json:"company_name"`
	Description     string                                `gorm:"type:text;not null" json:"description"`
	Link            string                                `gorm:"size:1024;not null" json:"link"`
	TargetSemesters datatypes.JSONSlice[int]              `gorm:"not null" json:"target_semesters"`
	TargetBranches  datatypes.JSONSlice[placement.Branch] `gorm:"not null" json:"target_branches"`
	TargetYear      int                                   `json:"target_year"`
	MinCGPA         float64                               `gorm:"column:min_cgpa;not null" json:"min_cgpa"`
	MaxCGPA         float64                               `gorm:"column:max_cgpa;not null" json:"max_cgpa"`
	PackageOffered  string                                `gorm:"size:255;not null" json:"package_offered"`
	JobType         placement.JobType                     `gorm:"size:32;not null;index" json:"job_type"`
	CreatedBy       uint                                  `json:"created_by"`
	CreatedAt       time.Time                             `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time                             `json:"updated_at"`
}

// Target exposes the notice's eligibility criteria.
func (n Notice) Target() placement.Target {
	return placement.Target{
		Semesters: []int(n.TargetSemesters),
		Branches:  []placement.Branch(n.TargetBranches),
		Year:      n.TargetYear,
		MinCGPA:   n.MinCGPA,
		MaxCGPA:   n.MaxCGPA,
		CreatedAt: n.CreatedAt,
	}
}

// Offer exposes the compensation fields used by placement statistics.
func (n Notice) Offer() placement.Offer {
	return placement.Offer{PackageOffered: n.PackageOffered, JobType: n.JobType}
}

// NewNotice builds a notice from a validated draft.
func NewNotice(draft placement.NoticeDraft, createdBy uint) Notice {
	return Notice{
		CompanyName:     draft.CompanyName,
		Description:     draft.Description,
		Link:            draft.Link,
		TargetSemesters: datatypes.NewJSONSlice(draft.TargetSemesters),
		TargetBranches:  datatypes.NewJSONSlice(draft.TargetBranches),
		TargetYear:      draft.TargetYear,
		MinCGPA:         draft.MinCGPA,
		MaxCGPA:         draft.MaxCGPA,
		PackageOffered:  draft.PackageOffered,
		JobType:         draft.JobType,
		CreatedBy:       createdBy,
	}
}

package placement

import "strings"

// Branch is the closed set of academic branches a student can belong to.
type Branch string

const (
	BranchCS    Branch = "Computer Science"
	BranchIT    Branch = "Information Technology"
	BranchECE   Branch = "Electronics and Communication Engineering"
	BranchME    Branch = "Mechanical Engineering"
	BranchEE    Branch = "Electrical Engineering"
	BranchCE    Branch = "Civil Engineering"
	BranchOther Branch = "Other"
)

var branchCodes = map[string]Branch{
	"CS":    BranchCS,
	"IT":    BranchIT,
	"ECE":   BranchECE,
	"ME":    BranchME,
	"EE":    BranchEE,
	"CE":    BranchCE,
	"OTHER": BranchOther,
}

// Branches lists every supported branch in display order.
func Branches() []Branch {
	return []Branch{BranchCS, BranchIT, BranchECE, BranchME, BranchEE, BranchCE, BranchOther}
}

// Valid reports whether b is one of the known branches.
func (b Branch) Valid() bool {
	switch b {
	case BranchCS, BranchIT, BranchECE, BranchME, BranchEE, BranchCE, BranchOther:
		return true
	default:
		return false
	}
}

// ParseBranch resolves a branch from its label ("Computer Science") or short code ("CS").
func ParseBranch(raw string) (Branch, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", false
	}
	if b, ok := branchCodes[strings.ToUpper(value)]; ok {
		return b, true
	}
	for _, b := range Branches() {
		if strings.EqualFold(string(b), value) {
			return b, true
		}
	}
	return "", false
}

// JobType describes the engagement offered by a notice.
type JobType string

const (
	JobTypeFullTime          JobType = "Full Time"
	JobTypeInternship        JobType = "Internship"
	JobTypeInternshipPlusFTE JobType = "Internship + Full Time"
	JobTypeContract          JobType = "Contract"
)

// JobTypes lists every supported job type.
func JobTypes() []JobType {
	return []JobType{JobTypeFullTime, JobTypeInternship, JobTypeInternshipPlusFTE, JobTypeContract}
}

func (j JobType) Valid() bool {
	switch j {
	case JobTypeFullTime, JobTypeInternship, JobTypeInternshipPlusFTE, JobTypeContract:
		return true
	default:
		return false
	}
}

// ParseJobType accepts the label case-insensitively. Empty input yields the default, Full Time.
func ParseJobType(raw string) (JobType, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return JobTypeFullTime, true
	}
	for _, j := range JobTypes() {
		if strings.EqualFold(string(j), value) {
			return j, true
		}
	}
	return "", false
}

// PlacementStatus is the two-state placement lifecycle of a student.
type PlacementStatus string

const (
	StatusNotPlaced PlacementStatus = "Not Placed"
	StatusPlaced    PlacementStatus = "Placed"
)

func (s PlacementStatus) Valid() bool {
	switch s {
	case StatusNotPlaced, StatusPlaced:
		return true
	default:
		return false
	}
}

// ParsePlacementStatus accepts "Placed" and "Not Placed" case-insensitively.
func ParsePlacementStatus(raw string) (PlacementStatus, bool) {
	value := strings.TrimSpace(raw)
	switch {
	case strings.EqualFold(value, string(StatusPlaced)):
		return StatusPlaced, true
	case strings.EqualFold(value, string(StatusNotPlaced)):
		return StatusNotPlaced, true
	default:
		return "", false
	}
}

package placement

import (
	"fmt"
	"sort"
	"strings"
)

// NoticeInput carries the raw fields of a notice submitted by an administrator.
type NoticeInput struct {
	CompanyName     string
	Description     string
	Link            string
	PackageOffered  string
	JobType         string
	TargetSemesters []int
	TargetBranches  []string
	TargetYear      int
	MinCGPA         *float64
	MaxCGPA         *float64
}

// NoticeDraft is a validated notice ready to be stored.
type NoticeDraft struct {
	CompanyName     string
	Description     string
	Link            string
	PackageOffered  string
	JobType         JobType
	TargetSemesters []int
	TargetBranches  []Branch
	TargetYear      int
	MinCGPA         float64
	MaxCGPA         float64
}

// ValidateNotice enforces the notice invariants. Omitted CGPA bounds default
// to the full [0,10] range. TargetYear is kept as supplied.
func ValidateNotice(in NoticeInput) (NoticeDraft, error) {
	required := []struct {
		field string
		value string
	}{
		{"company_name", in.CompanyName},
		{"description", in.Description},
		{"link", in.Link},
		{"package_offered", in.PackageOffered},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return NoticeDraft{}, fieldError(ErrRequiredField, r.field, r.field+" is required")
		}
	}

	if len(in.TargetSemesters) == 0 {
		return NoticeDraft{}, fieldError(ErrEmptyTargetSet, "target_semesters", "target semesters must not be empty")
	}
	if len(in.TargetBranches) == 0 {
		return NoticeDraft{}, fieldError(ErrEmptyTargetSet, "target_branches", "target branches must not be empty")
	}

	semesters := make([]int, 0, len(in.TargetSemesters))
	seenSemester := make(map[int]struct{}, len(in.TargetSemesters))
	for _, semester := range in.TargetSemesters {
		if !semesterInRange(semester) {
			return NoticeDraft{}, fieldError(ErrSemesterOutOfRange, "target_semesters", fmt.Sprintf("target semester %d must be between 1 and 8", semester))
		}
		if _, dup := seenSemester[semester]; dup {
			continue
		}
		seenSemester[semester] = struct{}{}
		semesters = append(semesters, semester)
	}
	sort.Ints(semesters)

	branches := make([]Branch, 0, len(in.TargetBranches))
	seenBranch := make(map[Branch]struct{}, len(in.TargetBranches))
	for _, raw := range in.TargetBranches {
		branch, ok := ParseBranch(raw)
		if !ok {
			return NoticeDraft{}, fieldError(ErrUnknownBranch, "target_branches", "unknown branch "+strings.TrimSpace(raw))
		}
		if _, dup := seenBranch[branch]; dup {
			continue
		}
		seenBranch[branch] = struct{}{}
		branches = append(branches, branch)
	}

	minCGPA, maxCGPA := MinCGPA, MaxCGPA
	if in.MinCGPA != nil {
		minCGPA = *in.MinCGPA
	}
	if in.MaxCGPA != nil {
		maxCGPA = *in.MaxCGPA
	}
	if !cgpaInRange(minCGPA) || !cgpaInRange(maxCGPA) || minCGPA > maxCGPA {
		return NoticeDraft{}, fieldError(ErrCGPARangeInvalid, "min_cgpa", "")
	}

	jobType, ok := ParseJobType(in.JobType)
	if !ok {
		return NoticeDraft{}, fieldError(ErrInvalidFormat, "job_type", "unknown job type "+strings.TrimSpace(in.JobType))
	}

	return NoticeDraft{
		CompanyName:     strings.TrimSpace(in.CompanyName),
		Description:     strings.TrimSpace(in.Description),
		Link:            strings.TrimSpace(in.Link),
		PackageOffered:  strings.TrimSpace(in.PackageOffered),
		JobType:         jobType,
		TargetSemesters: semesters,
		TargetBranches:  branches,
		TargetYear:      in.TargetYear,
		MinCGPA:         minCGPA,
		MaxCGPA:         maxCGPA,
	}, nil
}

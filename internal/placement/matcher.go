package placement

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

// Profile is the subset of a student record the matcher looks at.
type Profile struct {
	Semester  int
	Branch    Branch
	CGPA      float64
	Placement Placement
}

// Target is the eligibility criteria carried by a notice.
type Target struct {
	Semesters []int
	Branches  []Branch
	Year      int
	MinCGPA   float64
	MaxCGPA   float64
	CreatedAt time.Time
}

// Targeted is implemented by anything that exposes notice criteria.
type Targeted interface {
	Target() Target
}

// Eligibility is the outcome of filtering notices for one student.
type Eligibility[N any] struct {
	Notices []N
	Placed  bool
	Reason  string
}

// IsEligible decides whether a student may see a notice. Year is not part of the predicate.
func IsEligible(p Profile, t Target) bool {
	switch p.Placement.Status {
	case StatusNotPlaced:
		return slices.Contains(t.Semesters, p.Semester) &&
			slices.Contains(t.Branches, p.Branch) &&
			p.CGPA >= t.MinCGPA && p.CGPA <= t.MaxCGPA
	case StatusPlaced:
		return false
	default:
		return false
	}
}

// ListEligible returns the notices visible to the student, newest first.
// Placed students receive no notices and a reason naming their company.
func ListEligible[N Targeted](p Profile, notices []N) Eligibility[N] {
	if p.Placement.Status == StatusPlaced {
		return Eligibility[N]{
			Notices: []N{},
			Placed:  true,
			Reason:  fmt.Sprintf("You are already placed in %s. No further applications allowed.", p.Placement.CompanyName()),
		}
	}

	matched := make([]N, 0, len(notices))
	for _, notice := range notices {
		if IsEligible(p, notice.Target()) {
			matched = append(matched, notice)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Target().CreatedAt.After(matched[j].Target().CreatedAt)
	})

	return Eligibility[N]{Notices: matched}
}

// VisitedCompanies returns the distinct company names, sorted.
func VisitedCompanies(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	companies := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		companies = append(companies, trimmed)
	}
	sort.Strings(companies)
	return companies
}

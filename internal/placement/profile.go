package placement

import (
	"context"
	"strings"
	"time"
)

const (
	MinSemester = 1
	MaxSemester = 8
	MinCGPA     = 0.0
	MaxCGPA     = 10.0
)

// RegistrationInput carries the raw fields submitted by a registering student.
type RegistrationInput struct {
	Identifier string
	Email      string
	Semester   int
	Branch     string
	CGPA       *float64
}

// Registration is a validated and normalised registration.
type Registration struct {
	Identifier     string
	Email          string
	Semester       int
	Branch         Branch
	CGPA           float64
	EnrollmentYear int
}

// ValidateRegistration applies the profile invariants to a new student.
// Uniqueness is checked separately through CheckUniqueness.
func ValidateRegistration(in RegistrationInput) (Registration, error) {
	id, err := ParseIdentifier(in.Identifier)
	if err != nil {
		return Registration{}, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !strings.Contains(email, strings.ToLower(id.Value)) {
		return Registration{}, fieldError(ErrEmailMismatch, "email", "")
	}

	if !semesterInRange(in.Semester) {
		return Registration{}, fieldError(ErrSemesterOutOfRange, "semester", "")
	}

	branch, ok := ParseBranch(in.Branch)
	if !ok {
		return Registration{}, fieldError(ErrUnknownBranch, "branch", "unknown branch "+strings.TrimSpace(in.Branch))
	}

	cgpa := 0.0
	if in.CGPA != nil {
		if !cgpaInRange(*in.CGPA) {
			return Registration{}, fieldError(ErrCGPAOutOfRange, "cgpa", "")
		}
		cgpa = *in.CGPA
	}

	return Registration{
		Identifier:     id.Value,
		Email:          email,
		Semester:       in.Semester,
		Branch:         branch,
		CGPA:           cgpa,
		EnrollmentYear: id.EnrollmentYear,
	}, nil
}

// UniquenessChecker answers existence queries against the student store.
type UniquenessChecker interface {
	IdentifierExists(ctx context.Context, identifier string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// CheckUniqueness fails with DuplicateIdentifier or DuplicateEmail when either value is taken.
func CheckUniqueness(ctx context.Context, checker UniquenessChecker, identifier, email string) error {
	exists, err := checker.IdentifierExists(ctx, NormalizeIdentifier(identifier))
	if err != nil {
		return StoreUnavailable(err)
	}
	if exists {
		return fieldError(ErrDuplicateIdentifier, "usn", "")
	}

	exists, err = checker.EmailExists(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return StoreUnavailable(err)
	}
	if exists {
		return fieldError(ErrDuplicateEmail, "email", "")
	}

	return nil
}

// PlacementChange is an admin request to move a student between placement states.
type PlacementChange struct {
	Status  string
	Company *string
}

// ProfileUpdate is a partial update; nil fields are left untouched.
type ProfileUpdate struct {
	Name      *string
	Semester  *int
	CGPA      *float64
	DOB       *time.Time
	Placement *PlacementChange
}

// Empty reports whether the update carries no fields.
func (u ProfileUpdate) Empty() bool {
	return u.Name == nil && u.Semester == nil && u.CGPA == nil && u.DOB == nil && u.Placement == nil
}

// ValidateProfileUpdate checks only the supplied fields.
func ValidateProfileUpdate(u ProfileUpdate) error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return fieldError(ErrRequiredField, "name", "name must not be blank")
	}
	if u.Semester != nil && !semesterInRange(*u.Semester) {
		return fieldError(ErrSemesterOutOfRange, "semester", "")
	}
	if u.CGPA != nil && !cgpaInRange(*u.CGPA) {
		return fieldError(ErrCGPAOutOfRange, "cgpa", "")
	}
	if u.Placement != nil {
		if _, err := Transition(u.Placement.Status, u.Placement.Company); err != nil {
			return err
		}
	}
	return nil
}

func semesterInRange(semester int) bool {
	return semester >= MinSemester && semester <= MaxSemester
}

func cgpaInRange(cgpa float64) bool {
	return cgpa >= MinCGPA && cgpa <= MaxCGPA
}

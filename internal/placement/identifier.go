package placement

import (
	"regexp"
	"strconv"
	"strings"
)

var identifierPattern = regexp.MustCompile(`^[0-9][A-Za-z]{2}[0-9]{2}[A-Za-z]{2}[0-9]{3}$`)

// Identifier is a parsed university seat number such as 1MS22CS154.
type Identifier struct {
	Value          string
	EnrollmentYear int
}

// NormalizeIdentifier trims and upper-cases a USN for storage and lookups.
func NormalizeIdentifier(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ParseIdentifier validates the USN layout and extracts the enrollment year
// from the two digits following the college code.
func ParseIdentifier(raw string) (Identifier, error) {
	value := NormalizeIdentifier(raw)
	if !identifierPattern.MatchString(value) {
		return Identifier{}, fieldError(ErrInvalidFormat, "usn", "invalid USN format, must be like 1MS22CS154")
	}

	code, err := strconv.Atoi(value[3:5])
	if err != nil {
		return Identifier{}, fieldError(ErrInvalidFormat, "usn", "invalid USN year code")
	}

	return Identifier{Value: value, EnrollmentYear: 2000 + code}, nil
}

// EnrollmentYear derives the admission year from a USN.
func EnrollmentYear(identifier string) (int, error) {
	parsed, err := ParseIdentifier(identifier)
	if err != nil {
		return 0, err
	}
	return parsed.EnrollmentYear, nil
}

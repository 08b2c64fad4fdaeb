package placement

import (
	"fmt"
	"strings"
)

// Code classifies validation and lookup failures raised by the placement core.
type Code string

const (
	CodeInvalidFormat       Code = "INVALID_FORMAT"
	CodeEmailMismatch       Code = "EMAIL_MISMATCH"
	CodeSemesterOutOfRange  Code = "SEMESTER_OUT_OF_RANGE"
	CodeCGPAOutOfRange      Code = "CGPA_OUT_OF_RANGE"
	CodeCGPARangeInvalid    Code = "CGPA_RANGE_INVALID"
	CodeEmptyTargetSet      Code = "EMPTY_TARGET_SET"
	CodeUnknownBranch       Code = "UNKNOWN_BRANCH"
	CodeDuplicateIdentifier Code = "DUPLICATE_IDENTIFIER"
	CodeDuplicateEmail      Code = "DUPLICATE_EMAIL"
	CodeCompanyRequired     Code = "COMPANY_REQUIRED"
	CodeNotFound            Code = "NOT_FOUND"
	CodeStoreUnavailable    Code = "STORE_UNAVAILABLE"
	CodeRequiredField       Code = "REQUIRED_FIELD"
)

// Error is the typed failure returned by validators and services.
// Two errors match under errors.Is when their codes are equal.
type Error struct {
	Code    Code
	Field   string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Is reports whether target carries the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *Error) Unwrap() error {
	return e.cause
}

var (
	ErrInvalidFormat       = &Error{Code: CodeInvalidFormat, Message: "invalid format"}
	ErrEmailMismatch       = &Error{Code: CodeEmailMismatch, Message: "email must include your USN"}
	ErrSemesterOutOfRange  = &Error{Code: CodeSemesterOutOfRange, Message: "semester must be between 1 and 8"}
	ErrCGPAOutOfRange      = &Error{Code: CodeCGPAOutOfRange, Message: "CGPA must be between 0 and 10"}
	ErrCGPARangeInvalid    = &Error{Code: CodeCGPARangeInvalid, Message: "CGPA range must lie within 0 and 10 with min not above max"}
	ErrEmptyTargetSet      = &Error{Code: CodeEmptyTargetSet, Message: "target set must not be empty"}
	ErrUnknownBranch       = &Error{Code: CodeUnknownBranch, Message: "unknown branch"}
	ErrDuplicateIdentifier = &Error{Code: CodeDuplicateIdentifier, Message: "student with this USN already exists"}
	ErrDuplicateEmail      = &Error{Code: CodeDuplicateEmail, Message: "email is already in use"}
	ErrCompanyRequired     = &Error{Code: CodeCompanyRequired, Message: "company name is required when marking a student as placed"}
	ErrNotFound            = &Error{Code: CodeNotFound, Message: "record not found"}
	ErrStoreUnavailable    = &Error{Code: CodeStoreUnavailable, Message: "store unavailable"}
	ErrRequiredField       = &Error{Code: CodeRequiredField, Message: "required field missing"}
)

func fieldError(base *Error, field, message string) *Error {
	if message == "" {
		message = base.Message
	}
	return &Error{Code: base.Code, Field: field, Message: message}
}

// Conflict returns the duplicate error for a unique student field. Fields
// other than email report the identifier.
func Conflict(field string) error {
	if strings.EqualFold(strings.TrimSpace(field), "email") {
		return fieldError(ErrDuplicateEmail, "email", "")
	}
	return fieldError(ErrDuplicateIdentifier, "usn", "")
}

// NotFound returns a NotFound error naming the missing entity.
func NotFound(entity string) error {
	return &Error{Code: CodeNotFound, Field: entity, Message: entity + " not found"}
}

// StoreUnavailable wraps a persistence failure. The original error stays reachable via errors.Unwrap.
func StoreUnavailable(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: CodeStoreUnavailable, Message: ErrStoreUnavailable.Message, cause: err}
}

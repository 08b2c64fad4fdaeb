package service

import (
	"errors"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/placement-portal-api/internal/dto"
	"github.com/noah-isme/placement-portal-api/internal/placement"
)

// Roles carried in issued tokens.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// Actor is the authenticated caller of a service operation, resolved per request.
type Actor struct {
	ID   uint
	Role string
}

// IsAdmin reports whether the actor is an administrator.
func (a Actor) IsAdmin() bool {
	return strings.EqualFold(a.Role, RoleAdmin)
}

// storeError translates repository failures into placement errors.
func storeError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return placement.NotFound(entity)
	}
	var pe *placement.Error
	if errors.As(err, &pe) {
		return err
	}
	return placement.StoreUnavailable(err)
}

// parseDate accepts YYYY-MM-DD or RFC3339.
func parseDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			utc := parsed.UTC()
			return &utc, nil
		}
	}
	return nil, &placement.Error{Code: placement.CodeInvalidFormat, Field: "dob", Message: "dob must be a date like 2003-04-21"}
}

func paginationMeta(page, pageSize int, total int64) dto.PaginationMeta {
	meta := dto.PaginationMeta{
		Page:       maxInt(page, 1),
		PageSize:   pageSize,
		TotalItems: total,
	}
	if pageSize > 0 {
		meta.TotalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	} else {
		meta.TotalPages = 1
	}
	return meta
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// maskEmailAddress keeps the first and last character of the local part for logs.
func maskEmailAddress(email string) string {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return ""
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return "***"
	}
	if len(local) <= 2 {
		return local[:1] + "***@" + domain
	}
	return local[:1] + "***" + local[len(local)-1:] + "@" + domain
}

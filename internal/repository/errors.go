package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/noah-isme/placement-portal-api/internal/placement"
)

const (
	pgUniqueViolation   = "23505"
	sqliteUniqueFailed  = "UNIQUE constraint failed: "
	studentIndexPrefix  = "idx_students_"
	studentColumnPrefix = "students."
)

// studentConflict maps a unique index violation on students to the matching
// duplicate error. Other errors are returned unchanged.
func studentConflict(err error) error {
	column, ok := uniqueViolation(err)
	if !ok {
		return err
	}
	return placement.Conflict(column)
}

// uniqueViolation reports whether err is a unique constraint failure and,
// when the driver names it, the offending column.
func uniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return strings.TrimPrefix(pgErr.ConstraintName, studentIndexPrefix), true
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}

	// sqlite: "UNIQUE constraint failed: students.email"
	message := err.Error()
	if idx := strings.Index(message, sqliteUniqueFailed); idx >= 0 {
		column := message[idx+len(sqliteUniqueFailed):]
		if comma := strings.Index(column, ","); comma >= 0 {
			column = column[:comma]
		}
		return strings.TrimPrefix(strings.TrimSpace(column), studentColumnPrefix), true
	}

	return "", false
}

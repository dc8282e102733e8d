// Package pgerr classifies PostgreSQL errors returned through GORM.
package pgerr

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// uniqueViolation is the SQLSTATE of a unique constraint or index violation.
const uniqueViolation pq.ErrorCode = "23505"

// IsUniqueViolation reports whether err was caused by a unique index.
// The lib/pq error is checked directly since GORM only translates pgx errors.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

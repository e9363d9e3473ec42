package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolationError checks if the error is a unique violation error
func IsUniqueViolationError(err error) bool {
	return pgErrorCode(err) == "23505"
}

// IsForeignKeyViolationError checks if the error is a foreign key violation error
func IsForeignKeyViolationError(err error) bool {
	return pgErrorCode(err) == "23503"
}

// IsTransientDBError reports whether retrying the same transaction may succeed:
// serialization failures, deadlocks, and connection-class errors.
func IsTransientDBError(err error) bool {
	code := pgErrorCode(err)
	switch {
	case code == "40001", code == "40P01":
		return true
	case len(code) == 5 && code[:2] == "08":
		return true
	}
	return false
}

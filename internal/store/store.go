package store

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a requested entity does not exist or is
	// not owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateURL is returned when the owner already saved the URL.
	ErrDuplicateURL = errors.New("link already saved")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("user already exists")
)

// Sort orders accepted by list queries.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
)

// SessionFilterNone restricts a link listing to links without a session.
const SessionFilterNone = "none"

// ListParams drives paginated, filtered list queries.
type ListParams struct {
	Page   int
	Limit  int
	Search string
	Sort   string
}

func (p ListParams) offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

func (p ListParams) orderBy(column string) string {
	if p.Sort == SortOldest {
		return column + " ASC"
	}
	return column + " DESC"
}

// searchPattern returns a lowercase LIKE pattern. Matching LOWER(col) against
// it gives case-insensitive substring search on every supported dialect.
func searchPattern(q string) string {
	return "%" + strings.ToLower(q) + "%"
}

// TotalPages returns ceil(total/limit), or 0 when nothing matched.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// isUniqueConstraintError checks whether err indicates a unique constraint violation.
// Works across SQLite, PostgreSQL, and MySQL.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // SQLite & PostgreSQL
		strings.Contains(msg, "duplicate key") || // PostgreSQL
		strings.Contains(msg, "duplicate entry") // MySQL
}

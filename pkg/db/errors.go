package db

import "strings"

// IsUniqueViolation reports whether err looks like a Postgres unique
// constraint failure. With a constraint name the check is scoped to that
// index, so callers can tell a duplicate SKU from a duplicate order number
// inside the same transaction.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	text := err.Error()
	if constraintName != "" {
		return strings.Contains(text, constraintName)
	}
	return strings.Contains(text, "duplicate key value")
}

package db

import "strings"

// IsUniqueViolation reports whether the error is a unique-constraint
// violation from either supported driver (postgres in production, sqlite in
// tests). When constraintName is given, the violation must also reference
// that constraint or index.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") && !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return true
}

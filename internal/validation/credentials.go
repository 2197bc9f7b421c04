// Package validation provides input validation utilities.
package validation

import (
	"strings"

	"eduforums/internal/models"
)

const (
	maxNameLength     = 64
	maxPasswordLength = 128
)

// ValidateCredentials checks a signup name/password pair. Names are free-form
// display strings, so only emptiness and length are enforced.
func ValidateCredentials(name, password string) error {
	if strings.TrimSpace(name) == "" {
		return models.NewValidationError("Name required")
	}
	if len(name) > maxNameLength {
		return models.NewValidationError("Name too long")
	}
	if password == "" {
		return models.NewValidationError("Password required")
	}
	if len(password) > maxPasswordLength {
		return models.NewValidationError("Password too long")
	}
	return nil
}

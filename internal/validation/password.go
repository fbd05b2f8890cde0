package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is the base of every validation failure, so callers can map the
// whole family onto one response class.
var ErrInvalid = errors.New("invalid input")

// ValidatePassword validates password strength
// Enforces NIST recommendations: minimum 12 characters, blocks common patterns
func ValidatePassword(password string) error {
	if len(password) < 12 {
		return fmt.Errorf("%w: password must be at least 12 characters", ErrInvalid)
	}

	// bcrypt silently truncates beyond 72 bytes
	if len(password) > 72 {
		return fmt.Errorf("%w: password must not exceed 72 characters", ErrInvalid)
	}

	lower := strings.ToLower(password)
	commonPatterns := []string{
		"password", "123456", "qwerty", "admin", "letmein",
		"welcome", "monkey", "dragon", "master", "sunshine",
	}

	for _, pattern := range commonPatterns {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("%w: password is too common, please choose a stronger one", ErrInvalid)
		}
	}

	return nil
}

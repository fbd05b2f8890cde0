package validation

import (
	"fmt"
	"net/mail"
)

// ValidateEmail validates email format and length
// Uses Go's built-in net/mail parser which follows RFC 5322
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email address is required", ErrInvalid)
	}

	// RFC 5321: local part max 64, domain max 255, total max 254 with @
	if len(email) > 254 {
		return fmt.Errorf("%w: email address is too long (max 254 characters)", ErrInvalid)
	}

	_, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("%w: invalid email address format", ErrInvalid)
	}

	return nil
}

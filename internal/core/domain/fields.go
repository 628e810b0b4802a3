package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	minNameLen     = 2
	maxNameLen     = 100
	minPasswordLen = 8
)

// validate backs the syntactic email check. Variable-level rules only; shape
// construction works on untyped payloads, not tagged structs.
var validate = validator.New()

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// Idempotent; always applied before the format check so validation sees the
// canonical form.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// CheckEmailFormat validates the syntax of an already-normalized address.
func CheckEmailFormat(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return FieldError{
			Field:   "email",
			Kind:    KindInvalidFormat,
			Message: "must be a valid email address",
		}
	}
	return nil
}

// CheckNameLength enforces the 2–100 character bound on display names.
// Length is counted in Unicode code points.
func CheckNameLength(raw string) error {
	if n := utf8.RuneCountInString(raw); n < minNameLen || n > maxNameLen {
		return FieldError{
			Field:   "full_name",
			Kind:    KindInvalidLength,
			Message: fmt.Sprintf("must be between %d and %d characters", minNameLen, maxNameLen),
		}
	}
	return nil
}

// CheckPasswordStrength enforces the plaintext password policy: at least one
// ASCII decimal digit and at least one ASCII uppercase letter. Lowercase is
// not required. Both conditions are evaluated and every miss is reported.
// The minimum-length rule is checked separately, before this runs.
func CheckPasswordStrength(raw string) error {
	var hasDigit, hasUpper bool
	for _, c := range raw {
		switch {
		case c >= '0' && c <= '9':
			hasDigit = true
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		}
	}

	var missing []string
	if !hasDigit {
		missing = append(missing, "a digit")
	}
	if !hasUpper {
		missing = append(missing, "an uppercase letter")
	}
	if len(missing) > 0 {
		return FieldError{
			Field:   "password",
			Kind:    KindWeakPassword,
			Message: "must contain at least " + strings.Join(missing, " and "),
		}
	}
	return nil
}

func checkPasswordLength(raw string) error {
	if len(raw) < minPasswordLen {
		return FieldError{
			Field:   "password",
			Kind:    KindInvalidLength,
			Message: fmt.Sprintf("must be at least %d characters", minPasswordLen),
		}
	}
	return nil
}

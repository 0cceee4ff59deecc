package password

import "strings"

// specialChars is the fixed punctuation set accepted as "special characters".
const specialChars = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

const minLength = 8

// ValidateStrength checks a candidate password against the account policy and
// returns the violated rules as human-readable descriptions. An empty slice
// means the password is acceptable.
func ValidateStrength(candidate string) []string {
	var errors []string

	if len(candidate) < minLength {
		errors = append(errors, "At least 8 characters")
	}
	if !strings.ContainsFunc(candidate, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		errors = append(errors, "At least 1 uppercase letter")
	}
	if !strings.ContainsFunc(candidate, func(r rune) bool { return r >= '0' && r <= '9' }) {
		errors = append(errors, "At least 1 number")
	}
	if !strings.ContainsAny(candidate, specialChars) {
		errors = append(errors, "At least 1 special character")
	}

	return errors
}

// StrengthError formats violated rules as a single "field: message" string,
// matching the shape validation errors take elsewhere in the API.
func StrengthError(field string, violations []string) string {
	if len(violations) == 0 {
		return ""
	}
	if len(violations) == 1 {
		return field + ": Must contain " + strings.ToLower(violations[0])
	}
	return field + ": Must contain " + strings.ToLower(strings.Join(violations, ", "))
}

// Match is the strict equality comparison used for confirmation fields.
func Match(a, b string) bool {
	return a == b
}

package auth

import "unicode"

// PasswordMinLen is the minimum accepted password length.
const PasswordMinLen = 8

// PasswordViolations checks a candidate password against the strength
// rules: minimum length plus upper-case, lower-case, digit, and symbol
// character classes. It returns every violated rule, not just the first,
// so callers can report the complete list.
func PasswordViolations(password string) []string {
	var violations []string

	if len(password) < PasswordMinLen {
		violations = append(violations, "must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if !hasUpper {
		violations = append(violations, "must contain an upper-case letter")
	}
	if !hasLower {
		violations = append(violations, "must contain a lower-case letter")
	}
	if !hasDigit {
		violations = append(violations, "must contain a digit")
	}
	if !hasSymbol {
		violations = append(violations, "must contain a symbol")
	}

	return violations
}

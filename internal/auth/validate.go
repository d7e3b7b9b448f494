package auth

import (
	"strings"
	"unicode"

	pkgerrors "github.com/devshop-kr/devshop-backend/pkg/errors"
)

const (
	passwordMinLen = 10
	passwordMaxLen = 64

	displayNameMinLen = 2
	displayNameMaxLen = 30
)

// ValidateDisplayName enforces the public profile name bounds.
func ValidateDisplayName(name string) *pkgerrors.Error {
	trimmed := strings.TrimSpace(name)
	if len([]rune(trimmed)) < displayNameMinLen || len([]rune(trimmed)) > displayNameMaxLen {
		return pkgerrors.New(pkgerrors.CodeValidation, "display name must be 2-30 characters").
			WithDetails(map[string]string{"display_name": "must be 2-30 characters"})
	}
	return nil
}

// ValidatePassword enforces the credential policy: length bounds, all four
// character classes, and no reuse of obvious personal tokens (the email's
// local part, the display name, or the word "password").
func ValidatePassword(password, email, displayName string) *pkgerrors.Error {
	if len(password) < passwordMinLen || len(password) > passwordMaxLen {
		return passwordError("must be 10-64 characters")
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
	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return passwordError("must contain upper and lower case letters, a digit, and a symbol")
	}

	lowered := strings.ToLower(password)
	for _, banned := range disallowedTokens(email, displayName) {
		if banned != "" && strings.Contains(lowered, banned) {
			return passwordError("must not contain your email or name")
		}
	}
	return nil
}

func disallowedTokens(email, displayName string) []string {
	tokens := []string{"password"}
	if at := strings.IndexByte(email, '@'); at > 0 {
		if local := strings.ToLower(strings.TrimSpace(email[:at])); len(local) >= 3 {
			tokens = append(tokens, local)
		}
	}
	if name := strings.ToLower(strings.TrimSpace(displayName)); len(name) >= 3 {
		tokens = append(tokens, name)
	}
	return tokens
}

func passwordError(reason string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, "password "+reason).
		WithDetails(map[string]string{"password": reason})
}

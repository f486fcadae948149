package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "12345678": {}, "123456789": {}, "qwertyui": {},
	"qwerty123": {}, "iloveyou": {}, "sunshine": {}, "football": {}, "11111111": {},
}

// ValidatePassword applies the account password rules: minimum length, not
// purely numeric, not a common password and not derived from the username.
func ValidatePassword(password, username string) error {
	fail := func(rule string) error {
		return apperrors.NewValidationError("password rejected", map[string]any{"password": rule})
	}
	if len([]rune(password)) < MinPasswordLength {
		return fail("min=8")
	}
	if strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		return fail("numeric")
	}
	lower := strings.ToLower(password)
	if _, ok := commonPasswords[lower]; ok {
		return fail("common")
	}
	if name := strings.ToLower(strings.TrimSpace(username)); len(name) >= 3 && strings.Contains(lower, name) {
		return fail("similar_to_username")
	}
	return nil
}

// HashPassword hashes a plaintext password with the configured cost; an
// out of range cost falls back to bcrypt's default.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

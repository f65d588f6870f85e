package validators

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

var customerFlags = map[string]bool{
	"":       true,
	"red":    true,
	"yellow": true,
	"green":  true,
}

func IsValidFlag(flag string) bool {
	return customerFlags[flag]
}

// Slugify lowercases name and collapses every run of non alphanumeric
// characters into a single dash.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// RegistrationCode returns a new 6 character upper-case code.
func RegistrationCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

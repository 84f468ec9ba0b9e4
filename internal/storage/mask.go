package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// MaskEmail keeps the first character of the local part: "jsmith@example.com"
// becomes "j***@example.com". Values without "@" are returned unchanged.
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if email == "" || !ok {
		return email
	}
	if local == "" {
		return "***@" + domain
	}
	first := []rune(local)[0]
	return string(first) + "***@" + domain
}

// MaskPhone keeps only the digits and hides all but the last four of them.
func MaskPhone(phone string) string {
	if phone == "" {
		return phone
	}

	var digits []rune
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}

	if len(digits) <= 4 {
		return strings.Repeat("*", len(digits))
	}
	return strings.Repeat("*", len(digits)-4) + string(digits[len(digits)-4:])
}

// HashEmail returns the hex SHA-256 of the trimmed lower-cased email, or nil
// when there is no email.
func HashEmail(email string) *string {
	norm := strings.ToLower(strings.TrimSpace(email))
	if norm == "" {
		return nil
	}
	sum := sha256.Sum256([]byte(norm))
	hashed := hex.EncodeToString(sum[:])
	return &hashed
}

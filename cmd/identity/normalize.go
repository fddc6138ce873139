package identity

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	// MaxNameLength bounds first and last names, in runes.
	MaxNameLength = 64
	// MaxEmailLength is the practical limit for an address.
	MaxEmailLength = 254
)

// NormalizeEmail performs case-insensitive canonicalization.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeName trims surrounding whitespace.
func NormalizeName(s string) string {
	return strings.TrimSpace(s)
}

// ValidateEmail checks a normalized address.
func ValidateEmail(email string) error {
	const op = "identity.ValidateEmail"

	if email == "" {
		return invalid(op, "email is required")
	}
	if len(email) > MaxEmailLength {
		return invalid(op, "email is too long")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid(op, "email is not a valid address")
	}
	return nil
}

// ValidateName checks a normalized name; field is used in the message.
func ValidateName(field, name string) error {
	const op = "identity.ValidateName"

	if name == "" {
		return invalid(op, field+" is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return invalid(op, field+" is too long")
	}
	if !utf8.ValidString(name) {
		return invalid(op, field+" is not valid UTF-8")
	}
	return nil
}

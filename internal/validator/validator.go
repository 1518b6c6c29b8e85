// Package validator validates and sanitizes external input before it reaches
// the repositories.
package validator

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation errors
var (
	ErrInvalidPhoneNumber = errors.New("invalid phone number format")
	ErrInputTooLong       = errors.New("input exceeds maximum length")
	ErrEmptyInput         = errors.New("input cannot be empty")
)

// phoneRegex accepts an optional leading +, digits, and common separator
// characters. Validation is deliberately permissive: the canonicalizer, not
// the validator, decides identity.
var phoneRegex = regexp.MustCompile(`^\+?[0-9()./ -]+$`)

// MaxPhraseLength bounds blocked-phrase entries.
const MaxPhraseLength = 255

// ValidatePhoneNumber checks that input looks like a phone number and
// contains at least one digit.
func ValidatePhoneNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return ErrEmptyInput
	}
	if utf8.RuneCountInString(number) > 64 {
		return ErrInputTooLong
	}
	if !phoneRegex.MatchString(number) {
		return ErrInvalidPhoneNumber
	}
	if !strings.ContainsAny(number, "0123456789") {
		return ErrInvalidPhoneNumber
	}
	return nil
}

// ValidatePhrase checks a blocked-phrase entry.
func ValidatePhrase(phrase string) error {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return ErrEmptyInput
	}
	if utf8.RuneCountInString(phrase) > MaxPhraseLength {
		return ErrInputTooLong
	}
	return nil
}

// SanitizeName trims and bounds a contact display name.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > 255 {
		runes := []rune(name)
		name = string(runes[:255])
	}
	return name
}

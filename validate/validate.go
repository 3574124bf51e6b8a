package validate

import (
	"net/mail"
	"unicode"
	"unicode/utf8"

	"github.com/fitroom/fitroom/apperr"
)

// Required ensures a non-empty string.
func Required(field, value string) error {
	if value == "" {
		return apperr.New(apperr.CodeValidation, 400, field+" is required", nil)
	}
	return nil
}

// MinLen ensures a minimum string length.
func MinLen(field, value string, min int) error {
	if utf8.RuneCountInString(value) < min {
		return apperr.New(apperr.CodeValidation, 400, field+" is too short", nil)
	}
	return nil
}

// MaxLen ensures a maximum string length.
func MaxLen(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return apperr.New(apperr.CodeValidation, 400, field+" is too long", nil)
	}
	return nil
}

// Email validates an email address.
func Email(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := mail.ParseAddress(value); err != nil {
		return apperr.New(apperr.CodeValidation, 400, field+" must be a valid email", err)
	}
	return nil
}

// OneOf ensures the value is one of the allowed choices.
func OneOf(field, value string, allowed ...string) error {
	for _, candidate := range allowed {
		if value == candidate {
			return nil
		}
	}
	return apperr.New(apperr.CodeValidation, 400, field+" has an unsupported value", nil)
}

// Digits ensures the value is made of decimal digits only, as the password
// reset OTP is.
func Digits(field, value string) error {
	for _, r := range value {
		if !unicode.IsDigit(r) {
			return apperr.New(apperr.CodeValidation, 400, field+" must contain only digits", nil)
		}
	}
	return nil
}

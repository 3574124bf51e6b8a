package validate

import (
	"testing"

	"github.com/fitroom/fitroom/apperr"
)

func assertValidationError(t *testing.T, err error, wantMessage string) {
	t.Helper()
	appErr := apperr.As(err)
	if appErr == nil {
		t.Fatalf("err = %v, want apperr", err)
	}
	if appErr.Code != apperr.CodeValidation {
		t.Fatalf("code = %q, want %q", appErr.Code, apperr.CodeValidation)
	}
	if appErr.Message != wantMessage {
		t.Fatalf("message = %q, want %q", appErr.Message, wantMessage)
	}
}

func TestRequired(t *testing.T) {
	if err := Required("username", "ada"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertValidationError(t, Required("username", ""), "username is required")
}

func TestMinLen(t *testing.T) {
	if err := MinLen("password", "hunter22", 6); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertValidationError(t, MinLen("password", "abc", 6), "password is too short")
}

func TestMaxLen(t *testing.T) {
	if err := MaxLen("name", "ada", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertValidationError(t, MaxLen("name", "averyverylongname", 10), "name is too long")
}

func TestEmail(t *testing.T) {
	if err := Email("email", "ada@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Email("email", ""); err != nil {
		t.Fatalf("empty email should pass: %v", err)
	}
	assertValidationError(t, Email("email", "not-an-email"), "email must be a valid email")
}

func TestOneOf(t *testing.T) {
	if err := OneOf("gender", "female", "male", "female", "other"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertValidationError(t, OneOf("gender", "robot", "male", "female", "other"),
		"gender has an unsupported value")
}

func TestDigits(t *testing.T) {
	if err := Digits("OTP", "123456"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertValidationError(t, Digits("OTP", "12a456"), "OTP must contain only digits")
}

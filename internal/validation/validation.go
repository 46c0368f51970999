package validation

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUsernameRequired is returned when the username is empty after trim.
var ErrUsernameRequired = errors.New("Username is required")

// ErrEmailInvalid is returned when the email lacks an "@" or a ".".
var ErrEmailInvalid = errors.New("Please enter a valid email")

// ErrPasswordTooShort is returned when a registration password is under the minimum length.
var ErrPasswordTooShort = errors.New("Password must be at least 6 characters")

// ErrPasswordRequired is returned when a login password is empty.
var ErrPasswordRequired = errors.New("Password is required")

// ErrLabelRequired is returned when a favorite label is empty after trim.
var ErrLabelRequired = errors.New("Label is required")

// ErrCityRequired is returned when a favorite city is empty after trim.
var ErrCityRequired = errors.New("City is required")

// ErrCoordinateInvalid is returned when lat or lon cannot be coerced to a number.
var ErrCoordinateInvalid = errors.New("Latitude and longitude must be numbers")

// MinPasswordLength is the registration password policy enforced client-side.
// The error texts above double as the user-facing messages, so they stay
// sentence-cased.
const MinPasswordLength = 6

// ValidateUsername trims the input and requires it to be non-empty.
// Returns the trimmed username.
func ValidateUsername(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ErrUsernameRequired
	}
	return s, nil
}

// ValidateEmail trims the input and applies the convenience check the backend
// also enforces authoritatively: the address must contain both "@" and ".".
// Returns the trimmed email.
func ValidateEmail(input string) (string, error) {
	s := strings.TrimSpace(input)
	if !strings.Contains(s, "@") || !strings.Contains(s, ".") {
		return "", ErrEmailInvalid
	}
	return s, nil
}

// ValidateRegistrationPassword enforces the minimum-length policy. The
// password is never trimmed; whitespace is significant.
func ValidateRegistrationPassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// ValidateLoginPassword requires a non-empty password. Length policy is only
// applied at registration.
func ValidateLoginPassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// ValidateLabel trims the input and requires it to be non-empty.
func ValidateLabel(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ErrLabelRequired
	}
	return s, nil
}

// ValidateCity trims the input and requires it to be non-empty.
func ValidateCity(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ErrCityRequired
	}
	return s, nil
}

// CoerceCoordinate parses a latitude or longitude string into a float64.
// Numeric coercion only; no range check, the backend is the source of truth
// for which coordinates it accepts.
func CoerceCoordinate(input string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		return 0, ErrCoordinateInvalid
	}
	return v, nil
}

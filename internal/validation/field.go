package validation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

var (
	ErrRequired   = errors.New("is required")
	ErrTooLong    = errors.New("is too long")
	ErrInvalidURL = errors.New("must be an http or https URL")
)

// FieldError names the form field a validation failure belongs to.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Required trims value and checks it is present and at most max runes.
func Required(field, value string, max int) (string, error) {
	trimmed := strings.TrimSpace(value)

	if trimmed == "" {
		return "", &FieldError{Field: field, Err: ErrRequired}
	}

	if utf8.RuneCountInString(trimmed) > max {
		return "", &FieldError{Field: field, Err: ErrTooLong}
	}

	return trimmed, nil
}

// Optional trims value; blank becomes nil so it is stored as NULL.
func Optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// URL requires an absolute http(s) URL.
func URL(field, value string) (string, error) {
	trimmed, err := Required(field, value, 2048)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(trimmed)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", &FieldError{Field: field, Err: ErrInvalidURL}
	}

	return trimmed, nil
}

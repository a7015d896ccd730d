package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmailAlreadyInUse    = errors.New("email already in use")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
	ErrRefreshTokenStale    = errors.New("refresh token already rotated")
	ErrUserNotFound         = errors.New("user not found")
	ErrMissingSigningSecret = errors.New("missing token signing secret")
)

// ValidationError carries field-level detail for policy violations so the
// transport can report which input was rejected.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = message
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

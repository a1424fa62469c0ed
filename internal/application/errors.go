package application

import (
	"errors"
	"sort"
	"strings"

	"github.com/oksasatya/go-appointment-scheduler/pkg/validation"
)

var (
	ErrInvalidProvider    = errors.New("you can only create appointments with providers")
	ErrPastDate           = errors.New("past dates are not permitted")
	ErrSlotUnavailable    = errors.New("appointment date is not available")
	ErrDuplicateUser      = errors.New("user already exists")
	ErrNotProvider        = errors.New("you are not a provider")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// ValidationError reports malformed or missing input, keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation fails"
	}
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, f+" "+msg)
	}
	sort.Strings(parts)
	return "validation fails: " + strings.Join(parts, "; ")
}

func invalid(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// validate runs the binding tags of v and wraps failures in a ValidationError.
func validate(v any) error {
	if err := validation.Struct(v); err != nil {
		return &ValidationError{Fields: validation.ToDetails(err)}
	}
	return nil
}

// Identity is the authenticated caller, resolved by the auth middleware.
type Identity struct {
	UserID int64
}

func (id Identity) valid() bool { return id.UserID > 0 }

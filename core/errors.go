package core

import "github.com/pkg/errors"

var (
	// ErrNotFound is matched by every domain "not found" error so the API can map them to 404.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned by services when the acting user lacks the required role.
	ErrForbidden = errors.New("permission denied")
)

// NotFoundError names the missing resource.
type NotFoundError struct {
	Resource string
}

func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}

func (err NotFoundError) Error() string {
	return err.Resource + " not found"
}

// Is makes errors.Is(err, ErrNotFound) hold for every NotFoundError.
func (err NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IsNotFound reports whether the cause of err is a NotFoundError.
func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

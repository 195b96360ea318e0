package enumfields

import (
	"errors"
	"fmt"
)

var (
	ErrBadConfig    = errors.New("bad config")
	ErrBadReference = errors.New("invalid enum reference")
	ErrInvalidValue = errors.New("invalid enum value")
	ErrNotExist     = errors.New("not exist")
	ErrNotValid     = errors.New("invalid")
	ErrUnexpected   = errors.New("unexpected")
)

// An InvalidValueError reports a value that cannot be coerced into a member of Type.
type InvalidValueError struct {
	Value any
	Type  *Type
}

func (e *InvalidValueError) Error() string {
	var path string
	if e.Type != nil {
		path = e.Type.Path()
	}

	return fmt.Sprintf("%s: %v is not a valid value for enum %s", ErrInvalidValue, e.Value, path)
}

// Unwrap allows errors.Is(err, ErrInvalidValue).
func (e *InvalidValueError) Unwrap() error { return ErrInvalidValue }

var (
	ErrBadFormat      = errors.New("bad format")
	ErrExists         = errors.New("exists")
	ErrNotImplemented = errors.New("not implemented")
	ErrMissingData    = errors.New("missing data")
	ErrNotFound       = errors.New("not found")
	ErrUnaddressable  = errors.New("unaddressable value")
)

package enumfields

import (
	"fmt"
	"math"
)

// A Kind is the column type backing a Field.
type Kind string

const (
	KindString               Kind = "string"
	KindInteger              Kind = "integer"
	KindSmallInteger         Kind = "small-integer"
	KindPositiveInteger      Kind = "positive-integer"
	KindPositiveSmallInteger Kind = "positive-small-integer"
)

// String stringifies the Kind.
//
// String implements fmt.Stringer.
func (k Kind) String() string { return string(k) }

// Valid asserts the Kind is one of the declared constants.
func (k Kind) Valid() error {
	switch k {
	case KindString, KindInteger, KindSmallInteger, KindPositiveInteger, KindPositiveSmallInteger:
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrNotValid, string(k))
	}
}

// IsInteger asserts whether the Kind stores integers.
func (k Kind) IsInteger() bool { return k != KindString }

// bounds returns the inclusive range a column of Kind k can hold.
func (k Kind) bounds() (min, max int64) {
	switch k {
	case KindSmallInteger:
		return math.MinInt16, math.MaxInt16
	case KindPositiveSmallInteger:
		return 0, math.MaxInt16
	case KindPositiveInteger:
		return 0, math.MaxInt32
	default:
		return math.MinInt32, math.MaxInt32
	}
}

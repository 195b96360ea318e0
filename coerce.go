package enumfields

import (
	"database/sql/driver"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// A MemberHolder exposes the Member it wraps, e.g. an Attr.
type MemberHolder interface {
	EnumMember() *Member
}

// Coerce resolves v into one of t's Members.
//
// Coerce returns a nil Member for nil, empty strings and empty byte slices.
// Otherwise, it tries, in order:
//   - identity with a Member of t
//   - equality with a Member: a Member value, or a *Member of a Type with the same path
//   - equality between v and a Member's stored value
//   - equality between the string forms of v and a Member's stored value
//   - equality between the string forms of v and the Member itself, e.g. "Color.RED"
//
// When nothing matches, Coerce returns an *InvalidValueError.
func (t *Type) Coerce(v any) (*Member, error) {
	if holder, ok := v.(MemberHolder); ok {
		m := holder.EnumMember()
		if m == nil {
			return nil, nil
		}

		v = m
	} else if valuer, ok := v.(driver.Valuer); ok {
		dv, err := valuer.Value()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnexpected, err)
		}

		v = dv
	}

	if isEmpty(v) {
		return nil, nil
	}

	if m, ok := v.(*Member); ok && t.Contains(m) {
		return m, nil
	}

	if m := t.equalMember(v); m != nil {
		return m, nil
	}

	if raw, _, ok := normalize(v); ok {
		for _, m := range t.members {
			if raw == m.Value {
				return m, nil
			}
		}
	}

	s := stringForm(v)
	for _, m := range t.members {
		if s == fmt.Sprint(m.Value) {
			return m, nil
		}
	}

	for _, m := range t.members {
		if s == m.String() {
			return m, nil
		}
	}

	return nil, &InvalidValueError{Value: v, Type: t}
}

// MustCoerce is like Coerce but panics on error.
func (t *Type) MustCoerce(v any) *Member {
	m, err := t.Coerce(v)
	if err != nil {
		panic(err)
	}

	return m
}

// equalMember matches Member values and Members of an equivalent Type,
// for instance one registered in a separate Registry.
func (t *Type) equalMember(v any) *Member {
	var other *Member
	switch m := v.(type) {
	case Member:
		other = &m
	case *Member:
		other = m
	default:
		return nil
	}

	if other.typ != nil && other.typ.Path() != t.Path() {
		return nil
	}

	m, ok := t.byName[other.Name]
	if !ok {
		return nil
	}

	if val, _, ok := normalize(other.Value); !ok || m.Value != val {
		return nil
	}

	return m
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []byte:
		return len(x) == 0
	case *Member:
		return x == nil
	}

	return false
}

// normalize converts v into the representation Members store:
// an int64 for any integer kind, a string for strings and byte slices.
func normalize(v any) (val any, isInt bool, ok bool) {
	switch x := v.(type) {
	case string:
		return x, false, true
	case []byte:
		return string(x), false, true
	case int64:
		return x, true, true
	case int:
		return int64(x), true, true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true, true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, false, false
		}

		return int64(u), true, true

	case reflect.String:
		return rv.String(), false, true

	default:
		return nil, false, false
	}
}

func stringForm(v any) string {
	if b, ok := v.([]byte); ok {
		return string(b)
	}

	return fmt.Sprint(v)
}

// toInt64 converts v into an int64 without consulting any Type.
func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n, err == nil

	case []byte:
		n, err := strconv.ParseInt(strings.TrimSpace(string(x)), 10, 64)
		return n, err == nil

	case float32:
		return floatToInt64(float64(x))

	case float64:
		return floatToInt64(x)
	}

	if val, isInt, ok := normalize(v); ok && isInt {
		return val.(int64), true
	}

	return 0, false
}

func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}

	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}

	return int64(f), true
}

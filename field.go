package enumfields

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"unicode/utf8"
)

const defaultMaxLength = 10

// A Field describes a model attribute holding Members of one Type:
// which Kind of column backs it, which Members it offers as choices,
// and its default.
//
// A Field is built once, when declaring the model, and never changes afterwards.
type Field struct {
	kind       Kind
	enum       *Type
	include    []string
	exclude    []string
	def        any
	hasDefault bool
	blank      bool
	null       bool
	maxLength  int
	registry   *Registry
}

// NewField constructs a Field of kind for enum.
//
// enum may be a *Type, a dotted path string, or a module and qualified name
// as a []string or [2]string;
// references are resolved against the DefaultRegistry unless WithRegistry is used.
func NewField(kind Kind, enum any, opts ...FieldOptFn) (*Field, error) {
	if err := kind.Valid(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadConfig, err)
	}

	f := &Field{kind: kind, registry: DefaultRegistry}
	for _, opt := range opts {
		opt(f)
	}

	t, err := f.registry.resolveRef(enum)
	if err != nil {
		return nil, err
	}
	f.enum = t

	if kind.IsInteger() && !t.IsInteger() {
		return nil, fmt.Errorf("%w: %s field cannot store string enum %s", ErrBadConfig, kind, t.Path())
	}

	if kind == KindString && f.maxLength <= 0 {
		f.maxLength = defaultMaxLength
	}

	for _, name := range append(append([]string{}, f.include...), f.exclude...) {
		if _, ok := t.Lookup(name); !ok {
			return nil, fmt.Errorf("%w: %s has no member %q", ErrBadConfig, t.Path(), name)
		}
	}

	if _, err := f.Default(); err != nil {
		return nil, fmt.Errorf("%w: default: %s", ErrBadConfig, err)
	}

	return f, nil
}

// NewStringField constructs a Field backed by a varchar column.
func NewStringField(enum any, opts ...FieldOptFn) (*Field, error) {
	return NewField(KindString, enum, opts...)
}

// NewIntegerField constructs a Field backed by an integer column.
func NewIntegerField(enum any, opts ...FieldOptFn) (*Field, error) {
	return NewField(KindInteger, enum, opts...)
}

// NewSmallIntegerField constructs a Field backed by a smallint column.
func NewSmallIntegerField(enum any, opts ...FieldOptFn) (*Field, error) {
	return NewField(KindSmallInteger, enum, opts...)
}

// NewPositiveIntegerField constructs a Field backed by a non-negative integer column.
func NewPositiveIntegerField(enum any, opts ...FieldOptFn) (*Field, error) {
	return NewField(KindPositiveInteger, enum, opts...)
}

// NewPositiveSmallIntegerField constructs a Field backed by a non-negative smallint column.
func NewPositiveSmallIntegerField(enum any, opts ...FieldOptFn) (*Field, error) {
	return NewField(KindPositiveSmallInteger, enum, opts...)
}

// MustField panics if err is not nil and otherwise returns f.
//
//	var colorField = enumfields.MustField(enumfields.NewIntegerField(Color))
func MustField(f *Field, err error) *Field {
	if err != nil {
		panic(err)
	}

	return f
}

func (f *Field) Kind() Kind        { return f.kind }
func (f *Field) Enum() *Type       { return f.enum }
func (f *Field) Blank() bool       { return f.blank }
func (f *Field) Null() bool        { return f.null }
func (f *Field) MaxLength() int    { return f.maxLength }
func (f *Field) HasDefault() bool  { return f.hasDefault }
func (f *Field) Include() []string { return append([]string(nil), f.include...) }
func (f *Field) Exclude() []string { return append([]string(nil), f.exclude...) }

// ToMember coerces v into a Member of the Field's Type.
// Review [*Type.Coerce] for the rules applied.
func (f *Field) ToMember(v any) (*Member, error) { return f.enum.Coerce(v) }

// FromDB converts a value read from the Field's column into a Member.
func (f *Field) FromDB(v any) (*Member, error) { return f.ToMember(v) }

// Prep converts v into the value written to the Field's column.
//
// nil stays nil and Members of the Field's Type yield their stored value.
// Integer Kinds write anything already convertible to an integer as is,
// without checking it against the Type;
// everything else is coerced first.
func (f *Field) Prep(v any) (driver.Value, error) {
	if v == nil {
		return nil, nil
	}

	if m, ok := v.(*Member); ok && m != nil && f.enum.Contains(m) {
		return f.project(m), nil
	}

	if f.kind.IsInteger() {
		if _, isMember := v.(*Member); !isMember {
			if n, ok := toInt64(v); ok {
				return n, nil
			}
		}
	}

	m, err := f.ToMember(v)
	if err != nil {
		return nil, err
	}

	if m == nil {
		return nil, nil
	}

	return f.project(m), nil
}

// project returns the driver.Value stored for m.
func (f *Field) project(m *Member) driver.Value {
	if n, ok := m.Value.(int64); ok && f.kind == KindString {
		return strconv.FormatInt(n, 10)
	}

	return m.Value
}

// ValueToString returns the serializable form of m: its stored value, or nil.
// Integers are left as integers so serializers can emit them natively.
func (f *Field) ValueToString(m *Member) any {
	if m == nil {
		return nil
	}

	return m.Value
}

// Default resolves the Field's default into a Member.
//
// A Field without a default, or with a nil default, returns nil.
// A default of type func() any is called first.
func (f *Field) Default() (*Member, error) {
	if !f.hasDefault {
		return nil, nil
	}

	def := f.def
	if fn, ok := def.(func() any); ok {
		def = fn()
	}

	if def == nil {
		return nil, nil
	}

	return f.ToMember(def)
}

// Validate asserts v is an acceptable value for the Field.
//
// v is coerced first.
// A nil result is accepted only when the Field allows both null and blank values.
// Otherwise, the Member must be one of the Field's choices and fit its column.
func (f *Field) Validate(v any) error {
	m, err := f.ToMember(v)
	if err != nil {
		return err
	}

	if m == nil {
		if !f.null {
			return fmt.Errorf("%w: %s field cannot be null", ErrNotValid, f.enum.Path())
		}

		if !f.blank {
			return fmt.Errorf("%w: %s field cannot be blank", ErrNotValid, f.enum.Path())
		}

		return nil
	}

	if !f.offers(m) {
		return fmt.Errorf("%w: %s is not an available choice", ErrNotValid, m)
	}

	switch val := f.project(m).(type) {
	case int64:
		min, max := f.kind.bounds()
		if val < min || val > max {
			return fmt.Errorf("%w: %s value %d out of range [%d, %d] for %s", ErrNotValid, m, val, min, max, f.kind)
		}

	case string:
		if n := utf8.RuneCountInString(val); n > f.maxLength {
			return fmt.Errorf("%w: %s value has %d characters, at most %d allowed", ErrNotValid, m, n, f.maxLength)
		}
	}

	return nil
}

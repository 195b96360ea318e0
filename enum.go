package enumfields

import (
	"fmt"
	"strings"
)

// Enumerable is the interface implemented by types that can only be represented by enumerable, constant values.
//
// Implementing a new Enumerable or adding a new constant value ought to include updating the database with the same
// types and values.
type Enumerable interface {
	String() string
	Valid() error
}

// A Member is one named constant of a Type.
//
// Value is what is persisted in place of the Member;
// it is either a string or an int64 and all Members of a Type share the same one.
type Member struct {
	Name  string
	Value any
	Label string

	typ *Type
}

// String stringifies the Member as the last segment of its Type's qualified name
// joined to its Name, e.g. "Color.RED".
//
// String implements fmt.Stringer.
func (m *Member) String() string {
	if m == nil {
		return ""
	}

	if m.typ == nil {
		return m.Name
	}

	return m.typ.shortName() + "." + m.Name
}

// Valid asserts the Member was defined by a Type.
func (m *Member) Valid() error {
	if m == nil || m.typ == nil {
		return fmt.Errorf("%w: member is not bound to an enum", ErrNotValid)
	}

	return nil
}

// Display returns the Label of the Member, falling back to its Name.
func (m *Member) Display() string {
	if m.Label != "" {
		return m.Label
	}

	return m.Name
}

// Type returns the Type the Member belongs to.
func (m *Member) Type() *Type { return m.typ }

// EnumMember returns m, allowing a *Member to be compared with wrappers holding one.
func (m *Member) EnumMember() *Member { return m }

// A Type is a closed, ordered set of Members.
//
// A Type is identified by the Module defining it and its QualName within that Module.
// Once constructed, a Type is never mutated.
type Type struct {
	Module   string
	QualName string

	members []*Member
	byName  map[string]*Member
	integer bool
}

// NewType constructs a Type from members, in order.
//
// Every member needs a unique Name and a unique Value.
// Values must all be strings or all be integers;
// integers of any width are stored as int64.
func NewType(module, qualName string, members ...Member) (*Type, error) {
	if module == "" || qualName == "" {
		return nil, fmt.Errorf("%w: module and qualified name are required", ErrBadConfig)
	}

	if len(members) == 0 {
		return nil, fmt.Errorf("%w: %s.%s has no members", ErrBadConfig, module, qualName)
	}

	t := &Type{
		Module:   module,
		QualName: qualName,
		members:  make([]*Member, 0, len(members)),
		byName:   make(map[string]*Member, len(members)),
	}

	seenVals := make(map[any]string, len(members))
	for i, m := range members {
		if m.Name == "" {
			return nil, fmt.Errorf("%w: %s member %d has no name", ErrBadConfig, t.Path(), i)
		}

		if _, ok := t.byName[m.Name]; ok {
			return nil, fmt.Errorf("%w: %s member %q declared twice", ErrBadConfig, t.Path(), m.Name)
		}

		val, isInt, ok := normalize(m.Value)
		if !ok {
			return nil, fmt.Errorf("%w: %s member %q has unsupported value %T", ErrBadConfig, t.Path(), m.Name, m.Value)
		}

		if i == 0 {
			t.integer = isInt
		}

		if isInt != t.integer {
			return nil, fmt.Errorf("%w: %s mixes string and integer values", ErrBadConfig, t.Path())
		}

		if other, ok := seenVals[val]; ok {
			return nil, fmt.Errorf("%w: %s members %q and %q share value %v", ErrBadConfig, t.Path(), other, m.Name, val)
		}
		seenVals[val] = m.Name

		member := &Member{Name: m.Name, Value: val, Label: m.Label, typ: t}
		t.members = append(t.members, member)
		t.byName[m.Name] = member
	}

	return t, nil
}

// MustType is like NewType but panics on error.
// MustType is meant for package-level declarations.
func MustType(module, qualName string, members ...Member) *Type {
	t, err := NewType(module, qualName, members...)
	if err != nil {
		panic(err)
	}

	return t
}

// Path joins Module and QualName with a dot, e.g. "app.colors.Color".
func (t *Type) Path() string { return t.Module + "." + t.QualName }

// String implements fmt.Stringer.
func (t *Type) String() string { return t.Path() }

// IsInteger asserts whether the Members of t store integers.
func (t *Type) IsInteger() bool { return t.integer }

// Members returns the Members of t in declaration order.
func (t *Type) Members() []*Member {
	out := make([]*Member, len(t.members))
	copy(out, t.members)
	return out
}

// Len returns the number of Members in t.
func (t *Type) Len() int { return len(t.members) }

// Lookup retrieves the Member named name.
func (t *Type) Lookup(name string) (*Member, bool) {
	m, ok := t.byName[name]
	return m, ok
}

// MustLookup is like Lookup but panics when no Member is named name.
func (t *Type) MustLookup(name string) *Member {
	m, ok := t.byName[name]
	if !ok {
		panic(fmt.Sprintf("enumfields: %s has no member %q", t.Path(), name))
	}

	return m
}

// Contains asserts whether m is one of t's Members.
func (t *Type) Contains(m *Member) bool {
	return m != nil && m.typ == t
}

func (t *Type) shortName() string {
	if i := strings.LastIndexByte(t.QualName, '.'); i >= 0 {
		return t.QualName[i+1:]
	}

	return t.QualName
}

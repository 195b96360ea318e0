package enumfields

import (
	"fmt"
	"reflect"
)

// A Deconstruction is the serializable description of a Field,
// as recorded in migration metadata.
//
// Enum holds the module and qualified name of the Type rather than the Type itself
// and Default holds a stored value rather than a Member.
// Choices are never recorded; they are derived from Enum, Include and Exclude.
type Deconstruction struct {
	Kind      Kind      `json:"kind" yaml:"kind"`
	Enum      [2]string `json:"enum" yaml:"enum,flow"`
	Default   any       `json:"default,omitempty" yaml:"default,omitempty"`
	Include   []string  `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude   []string  `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	Blank     bool      `json:"blank,omitempty" yaml:"blank,omitempty"`
	Null      bool      `json:"null,omitempty" yaml:"null,omitempty"`
	MaxLength int       `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
}

// Deconstruct describes f as a Deconstruction.
func (f *Field) Deconstruct() Deconstruction {
	d := Deconstruction{
		Kind:      f.kind,
		Enum:      [2]string{f.enum.Module, f.enum.QualName},
		Include:   f.Include(),
		Exclude:   f.Exclude(),
		Blank:     f.blank,
		Null:      f.null,
		MaxLength: f.maxLength,
	}

	if def, err := f.Default(); err == nil && def != nil {
		d.Default = def.Value
	}

	return d
}

// Reconstruct builds a Field equivalent to the one d was deconstructed from,
// resolving d.Enum against reg.
func Reconstruct(reg *Registry, d Deconstruction) (*Field, error) {
	if reg == nil {
		reg = DefaultRegistry
	}

	opts := []FieldOptFn{WithRegistry(reg)}
	if len(d.Include) > 0 {
		opts = append(opts, WithInclude(d.Include...))
	}

	if len(d.Exclude) > 0 {
		opts = append(opts, WithExclude(d.Exclude...))
	}

	if d.Default != nil {
		opts = append(opts, WithDefault(d.Default))
	}

	if d.Blank {
		opts = append(opts, WithBlank())
	}

	if d.Null {
		opts = append(opts, WithNull())
	}

	if d.Kind == KindString && d.MaxLength > 0 {
		opts = append(opts, WithMaxLength(d.MaxLength))
	}

	f, err := NewField(d.Kind, d.Enum, opts...)
	if err != nil {
		return nil, fmt.Errorf("reconstructing %s.%s: %w", d.Enum[0], d.Enum[1], err)
	}

	return f, nil
}

// Equal asserts whether d and other describe the same Field.
// Defaults compare by their string form, so a default decoded from JSON as a float64
// equals the int64 it was encoded from.
func (d Deconstruction) Equal(other Deconstruction) bool {
	if (d.Default == nil) != (other.Default == nil) || fmt.Sprint(d.Default) != fmt.Sprint(other.Default) {
		return false
	}

	d.Default, other.Default = nil, nil

	return reflect.DeepEqual(d.normalizeLists(), other.normalizeLists())
}

func (d Deconstruction) normalizeLists() Deconstruction {
	if len(d.Include) == 0 {
		d.Include = nil
	}

	if len(d.Exclude) == 0 {
		d.Exclude = nil
	}

	return d
}

package enumfields

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

var (
	_ sql.Scanner      = (*Attr)(nil)
	_ driver.Valuer    = Attr{}
	_ json.Marshaler   = Attr{}
	_ json.Unmarshaler = (*Attr)(nil)
	_ Enumerable       = Attr{}
	_ MemberHolder     = Attr{}
)

// A Reloader fetches the persisted value of an attribute that was never loaded,
// for instance a column left out of a SELECT.
// Reload is expected to Set the attribute named name.
type Reloader interface {
	Reload(ctx context.Context, name string) error
}

// The ReloaderFunc type is an adapter to allow the use of ordinary functions as Reloaders.
type ReloaderFunc func(ctx context.Context, name string) error

// Reload calls fn(ctx, name).
func (fn ReloaderFunc) Reload(ctx context.Context, name string) error { return fn(ctx, name) }

// An Attr is the in-memory value of a model attribute governed by a Field.
//
// An Attr holds either nothing or a Member of the Field's Type:
// every assignment, including scanning a database row, goes through [*Field.ToMember],
// so a raw stored value is never kept.
type Attr struct {
	field    *Field
	name     string
	member   *Member
	loaded   bool
	reloader Reloader
}

// Bind constructs an unloaded Attr named name governed by f.
// reloader may be nil, in which case reading an unloaded Attr fails.
func (f *Field) Bind(name string, reloader Reloader) Attr {
	return Attr{field: f, name: name, reloader: reloader}
}

// Field returns the Field governing a.
func (a Attr) Field() *Field { return a.field }

// Name returns the attribute name a was bound with.
func (a Attr) Name() string { return a.name }

// IsLoaded asserts whether a value was assigned to a.
func (a Attr) IsLoaded() bool { return a.loaded }

// EnumMember returns the Member held by a without reloading.
func (a Attr) EnumMember() *Member { return a.member }

// Get returns the Member held by a.
// If a was never assigned, Get asks the Reloader to load it first.
func (a *Attr) Get(ctx context.Context) (*Member, error) {
	if a.loaded {
		return a.member, nil
	}

	if a.reloader == nil {
		return nil, fmt.Errorf("%w: attribute %q is not loaded", ErrNotExist, a.name)
	}

	if err := a.reloader.Reload(ctx, a.name); err != nil {
		return nil, fmt.Errorf("reloading %q: %w", a.name, err)
	}

	if !a.loaded {
		return nil, fmt.Errorf("%w: reloading did not set attribute %q", ErrUnexpected, a.name)
	}

	return a.member, nil
}

// Set coerces v into a Member and assigns it.
// On error, a keeps its previous value.
func (a *Attr) Set(v any) error {
	if a.field == nil {
		return fmt.Errorf("%w: attribute %q is not bound to a field", ErrBadConfig, a.name)
	}

	m, err := a.field.ToMember(v)
	if err != nil {
		return err
	}

	a.member = m
	a.loaded = true

	return nil
}

// Unload forgets the value held by a, so the next Get reloads it.
func (a *Attr) Unload() {
	a.member = nil
	a.loaded = false
}

// Is asserts whether a holds m.
func (a Attr) Is(m *Member) bool { return a.loaded && a.member == m }

// Scan assigns a value read from the database.
//
// Scan implements sql.Scanner.
func (a *Attr) Scan(src any) error { return a.Set(src) }

// Value returns the value written to the database.
//
// Value implements driver.Valuer.
func (a Attr) Value() (driver.Value, error) {
	if a.member == nil {
		return nil, nil
	}

	if a.field == nil {
		return a.member.Value, nil
	}

	return a.field.Prep(a.member)
}

// String stringifies the held Member, or returns an empty string.
func (a Attr) String() string { return a.member.String() }

// Valid asserts the held value is acceptable for the Field.
func (a Attr) Valid() error {
	if a.field == nil {
		return fmt.Errorf("%w: attribute %q is not bound to a field", ErrNotValid, a.name)
	}

	return a.field.Validate(a.member)
}

// MarshalJSON encodes the stored value of the held Member, or null.
func (a Attr) MarshalJSON() ([]byte, error) {
	if a.member == nil {
		return []byte("null"), nil
	}

	return json.Marshal(a.member.Value)
}

// UnmarshalJSON decodes a stored value, a string form or null and assigns it.
func (a *Attr) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}

	return a.Set(v)
}

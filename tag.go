package enumfields

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// TagName is the struct tag declaring the Field of an Attr.
const TagName = "enum"

// ParseTag builds a Field from the value of an enum struct tag, for example:
//
//	`enum:"app.colors.Color,kind=small-integer,include=RED|GREEN,default=1,null,blank"`
//
// The first element references the Type, either as a dotted path
// or as a module and qualified name separated by a colon, e.g. "app.colors:Palette.Color".
// The remaining elements are options:
//   - kind=<Kind>: defaults to integer for integer Types and string otherwise
//   - include=<names>, exclude=<names>: Member names separated by "|"
//   - default=<value>: coerced like any other value
//   - size=<n>: column width of a string Field
//   - null, blank
func (r *Registry) ParseTag(tag string) (*Field, error) {
	parts := strings.Split(tag, ",")
	ref := strings.TrimSpace(parts[0])
	if ref == "" {
		return nil, fmt.Errorf("%w: tag %q names no enum", ErrBadReference, tag)
	}

	var t *Type
	var err error
	if mod, qual, ok := strings.Cut(ref, ":"); ok {
		t, err = r.Resolve(mod, qual)
	} else {
		t, err = r.Resolve(ref)
	}
	if err != nil {
		return nil, err
	}

	kind := KindString
	if t.IsInteger() {
		kind = KindInteger
	}

	opts := []FieldOptFn{WithRegistry(r)}
	for _, part := range parts[1:] {
		key, val, _ := strings.Cut(strings.TrimSpace(part), "=")
		switch key {
		case "":
			continue
		case "kind":
			kind = Kind(val)
		case "include":
			opts = append(opts, WithInclude(strings.Split(val, "|")...))
		case "exclude":
			opts = append(opts, WithExclude(strings.Split(val, "|")...))
		case "default":
			opts = append(opts, WithDefault(val))
		case "size":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("%w: size %q is not a number", ErrBadConfig, val)
			}
			opts = append(opts, WithMaxLength(n))
		case "null":
			opts = append(opts, WithNull())
		case "blank":
			opts = append(opts, WithBlank())
		default:
			return nil, fmt.Errorf("%w: unknown enum tag option %q", ErrBadConfig, key)
		}
	}

	return NewField(kind, t, opts...)
}

// ParseTag builds a Field from tag using the DefaultRegistry.
func ParseTag(tag string) (*Field, error) { return DefaultRegistry.ParseTag(tag) }

var attrType = reflect.TypeOf(Attr{})

// BindStruct binds every Attr field of the struct ptr points to
// according to its enum tag.
//
// Each Attr is named after the field's "db" tag, or the field name when there is none,
// and shares reloader.
// Attrs already bound are left untouched.
func (r *Registry) BindStruct(ptr any, reloader Reloader) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T must be a non-nil pointer to a struct", ErrUnaddressable, ptr)
	}

	rv = rv.Elem()
	for _, sf := range reflect.VisibleFields(rv.Type()) {
		if sf.Type != attrType || !sf.IsExported() {
			continue
		}

		tag, ok := sf.Tag.Lookup(TagName)
		if !ok {
			return fmt.Errorf("%w: field %q has no %s tag", ErrBadConfig, sf.Name, TagName)
		}

		fv := rv.FieldByIndex(sf.Index)
		if fv.Interface().(Attr).field != nil {
			continue
		}

		f, err := r.ParseTag(tag)
		if err != nil {
			return fmt.Errorf("field %q: %w", sf.Name, err)
		}

		name := sf.Name
		if db, ok := sf.Tag.Lookup("db"); ok && db != "" && db != "-" {
			name = db
		}

		fv.Set(reflect.ValueOf(f.Bind(name, reloader)))
	}

	return nil
}

// BindStruct binds the Attr fields of ptr using the DefaultRegistry.
func BindStruct(ptr any, reloader Reloader) error { return DefaultRegistry.BindStruct(ptr, reloader) }

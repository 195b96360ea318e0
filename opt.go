package enumfields

import "log/slog"

// A RegistryOptFn is a functional option configuring a Registry when constructing a new one.
type RegistryOptFn func(*Registry)

// WithLogger sets the *slog.Logger a Registry reports to,
// typically one built by logger.New with [AppLogKind].
// Without it, the Registry reports to slog.Default().
func WithLogger(l *slog.Logger) RegistryOptFn {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// A FieldOptFn is a functional option configuring a Field when constructing a new one.
type FieldOptFn func(*Field)

// WithBlank allows empty values in forms for the Field.
func WithBlank() FieldOptFn {
	return func(f *Field) {
		f.blank = true
	}
}

// WithDefault sets the default for the Field.
// def can be a *Member, a stored value, or nil.
func WithDefault(def any) FieldOptFn {
	return func(f *Field) {
		f.def = def
		f.hasDefault = true
	}
}

// WithExclude hides the named Members from the Field's choices.
func WithExclude(names ...string) FieldOptFn {
	return func(f *Field) {
		f.exclude = append(f.exclude, names...)
	}
}

// WithInclude limits the Field's choices to the named Members, in the order given.
func WithInclude(names ...string) FieldOptFn {
	return func(f *Field) {
		f.include = append(f.include, names...)
	}
}

// WithMaxLength sets the column width of a KindString Field.
func WithMaxLength(n int) FieldOptFn {
	return func(f *Field) {
		f.maxLength = n
	}
}

// WithNull allows NULL in the Field's column.
func WithNull() FieldOptFn {
	return func(f *Field) {
		f.null = true
	}
}

// WithRegistry sets the Registry string references are resolved against.
// A nil Registry is ignored.
func WithRegistry(r *Registry) FieldOptFn {
	return func(f *Field) {
		if r != nil {
			f.registry = r
		}
	}
}

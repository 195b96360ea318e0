package forms

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/gorilla/schema"
	"github.com/xy-planning-network/enumfields"
)

var (
	attrType   = reflect.TypeOf(enumfields.Attr{})
	memberType = reflect.TypeOf((*enumfields.Member)(nil))
)

// A Decoder decodes form values into a pointer to a struct.
//
// Fields of type enumfields.Attr or *enumfields.Member are declared with an enum tag
// and receive the Member their value coerces into;
// every other field is decoded by a [github.com/gorilla/schema.Decoder].
type Decoder struct {
	registry *enumfields.Registry
	schema   *schema.Decoder
}

// NewDecoder constructs a Decoder resolving enum tags against reg.
func NewDecoder(reg *enumfields.Registry) *Decoder {
	if reg == nil {
		reg = enumfields.DefaultRegistry
	}

	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)

	return &Decoder{registry: reg, schema: dec}
}

// Decode decodes values into structPtr.
//
// Unbound Attrs of structPtr are bound first.
// Values not matching their field return ValidationErrors.
func (d *Decoder) Decode(structPtr any, values url.Values) error {
	if err := d.registry.BindStruct(structPtr, nil); err != nil {
		return err
	}

	rest := make(url.Values, len(values))
	for k, v := range values {
		rest[k] = v
	}

	var validErrs ValidationErrors
	rv := reflect.ValueOf(structPtr).Elem()
	for _, sf := range reflect.VisibleFields(rv.Type()) {
		if !sf.IsExported() || (sf.Type != attrType && sf.Type != memberType) {
			continue
		}

		key := alias(sf)
		if key == "-" {
			continue
		}

		vals, ok := values[key]
		delete(rest, key)
		if !ok {
			continue
		}

		var raw string
		if len(vals) > 0 {
			raw = vals[len(vals)-1]
		}

		fv, err := rv.FieldByIndexErr(sf.Index)
		if err != nil {
			return fmt.Errorf("%w: %s", enumfields.ErrUnaddressable, err)
		}

		err = d.set(sf, fv, raw)
		switch {
		case err == nil:
		case errors.Is(err, enumfields.ErrInvalidValue):
			validErrs = append(validErrs, ValidationError{Field: key, Got: raw, Rule: "enum; " + sf.Type.String()})
		default:
			return err
		}
	}

	if err := d.schema.Decode(structPtr, rest); err != nil {
		translated := translateDecoderError(err)

		var more ValidationErrors
		if !errors.As(translated, &more) {
			return translated
		}

		validErrs = append(validErrs, more...)
	}

	if len(validErrs) > 0 {
		return validErrs
	}

	return nil
}

// set assigns raw to fv, the enum field sf.
func (d *Decoder) set(sf reflect.StructField, fv reflect.Value, raw string) error {
	if sf.Type == attrType {
		return fv.Addr().Interface().(*enumfields.Attr).Set(raw)
	}

	f, err := d.registry.ParseTag(sf.Tag.Get(enumfields.TagName))
	if err != nil {
		return fmt.Errorf("field %q: %w", sf.Name, err)
	}

	m, err := f.ToMember(raw)
	if err != nil {
		return err
	}

	fv.Set(reflect.ValueOf(m))

	return nil
}

// alias is the form key of sf, as gorilla/schema names it.
func alias(sf reflect.StructField) string {
	if name, _, _ := strings.Cut(sf.Tag.Get("schema"), ","); name != "" {
		return name
	}

	return sf.Name
}

// translateDecoderError converts an error returned by *schema.Decoder into standardized errors.
// Some *schema.Decoder errors are issues with calling code;
// some errors are unexpected issues;
// still some are issues with mismatches between form values and the expected shape.
func translateDecoderError(err error) error {
	var pkgErrs schema.MultiError
	if !errors.As(err, &pkgErrs) {
		return fmt.Errorf("%w: %s", enumfields.ErrBadFormat, err)
	}

	var validErrs ValidationErrors
	for _, pkgErr := range pkgErrs {
		switch err := pkgErr.(type) {
		case schema.ConversionError:
			ve := ValidationError{
				Field: err.Key,
				// NOTE: for non-slice values, err.Index is -1.
				Got:  fmt.Sprintf("bad value at index %d", max(0, err.Index)),
				Rule: "must be " + err.Type.String(),
			}

			validErrs = append(validErrs, ve)

		case schema.EmptyFieldError:
			return fmt.Errorf(`%w: use validate pkg to set "required" fields, not schema`, enumfields.ErrNotImplemented)

		case schema.UnknownKeyError:
			ve := ValidationError{
				Field: err.Key,
				Got:   "value is set",
				Rule:  "unexpected key should not be set",
			}

			validErrs = append(validErrs, ve)

		default:
			// A field requiring a converter that is not registered
			// only errors once a value is set for it.
			if strings.Contains(err.Error(), "schema: converter not found for") {
				return fmt.Errorf("%w: cannot convert values into unsupported type", enumfields.ErrNotImplemented)
			}

			return fmt.Errorf("%w: %s", enumfields.ErrUnexpected, err)
		}
	}

	return validErrs
}

package forms

import (
	"errors"
	"reflect"
	"strings"

	v10 "github.com/go-playground/validator/v10"
	"github.com/xy-planning-network/enumfields"
)

type validator struct {
	valid *v10.Validate
}

// newValidator constructs a validator, which applies default configuration.
//
// Attrs and Members are validated as their stored value,
// so rules like required apply to what would be persisted;
// the enum rule checks the Attr or Member itself.
func newValidator() validator {
	v := v10.New()
	v.RegisterValidation("enum", validateEnumerable)
	v.RegisterCustomTypeFunc(storedValue, enumfields.Attr{}, enumfields.Member{})
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			name = ""
		}

		if name == "" {
			name = strings.SplitN(field.Tag.Get("schema"), ",", 2)[0]
		}

		if name == "-" {
			name = ""
		}

		return name
	})

	return validator{v}
}

// validate checks the fields on structPtr match the rules set by "validate" struct tags.
// On success, validate returns no error.
// On failure, validate translates each issue to a ValidationError,
// returning them all as ValidationErrors.
func (v validator) validate(structPtr any) error {
	err := v.valid.Struct(structPtr)
	if err == nil {
		return nil
	}

	var errs v10.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	var validateErrs ValidationErrors
	for _, ve := range errs {
		field := ve.Namespace()

		ns := strings.SplitN(field, ".", 2)
		if len(ns) == 2 {
			field = ns[1]
		}

		rule := ve.Tag()
		if ve.Param() != "" {
			rule += "=" + ve.Param()
		}

		if t := ve.Type(); t != nil {
			rule += "; " + t.String()
		}

		validateErrs = append(validateErrs, ValidationError{
			Field: field,
			Got:   ve.Value(),
			Rule:  rule,
		})
	}

	return validateErrs
}

// storedValue converts an Attr or Member into its stored value, nil when empty.
func storedValue(v reflect.Value) any {
	switch e := v.Interface().(type) {
	case enumfields.Attr:
		val, err := e.Value()
		if err != nil {
			return nil
		}

		return val

	case enumfields.Member:
		return e.Value

	default:
		return nil
	}
}

// validateEnumerable validates whether field is a valid Enumerable or slice of valid Enumerable.
func validateEnumerable(fl v10.FieldLevel) bool {
	if orig, ok := original(fl); ok {
		return checkEnums(orig)
	}

	field := fl.Field()
	if field.Kind() == reflect.Slice {
		vals := []reflect.Value{}
		for i := 0; i < field.Len(); i++ {
			vals = append(vals, field.Index(i))
		}

		return checkEnums(vals...)
	}

	return checkEnums(field)
}

// original recovers the Attr or *Member storedValue replaced.
func original(fl v10.FieldLevel) (reflect.Value, bool) {
	parent := fl.Parent()
	for parent.Kind() == reflect.Pointer {
		parent = parent.Elem()
	}

	if parent.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}

	orig := parent.FieldByName(fl.StructFieldName())
	if !orig.IsValid() || (orig.Type() != attrType && orig.Type() != memberType) {
		return reflect.Value{}, false
	}

	return orig, true
}

// checkEnums asserts each [reflect.Value] is an Enumerable and valid.
func checkEnums(items ...reflect.Value) bool {
	if len(items) == 0 {
		return false
	}

	for _, item := range items {
		if !item.IsValid() || !item.CanInterface() {
			return false
		}

		enum, ok := item.Interface().(enumfields.Enumerable)
		if !ok {
			return false
		}

		if err := enum.Valid(); err != nil {
			return false
		}
	}

	return true
}

package enumfields_test

import (
	"database/sql/driver"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/enumfields"
)

func TestNewField(t *testing.T) {
	r := newRegistry(t)

	for _, tc := range []struct {
		name string
		ref  any
	}{
		{"Type", Color},
		{"Dotted-Path", "app.colors.Color"},
		{"Slice", []string{"app.colors", "Color"}},
		{"Array", [2]string{"app.colors", "Color"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f, err := enumfields.NewIntegerField(tc.ref, enumfields.WithRegistry(r))
			require.Nil(t, err)
			require.Same(t, Color, f.Enum())
			require.Equal(t, enumfields.KindInteger, f.Kind())
			require.Zero(t, f.MaxLength())
		})
	}

	f, err := enumfields.NewStringField([]string{"app.paint", "Palette.Shade"}, enumfields.WithRegistry(r))
	require.Nil(t, err)
	require.Same(t, Shade, f.Enum())
	require.Equal(t, 10, f.MaxLength())
}

func TestNewFieldErrors(t *testing.T) {
	r := newRegistry(t)

	for _, tc := range []struct {
		name string
		kind enumfields.Kind
		ref  any
		opts []enumfields.FieldOptFn
		err  error
	}{
		{"Unknown-Kind", enumfields.Kind("float"), Color, nil, enumfields.ErrBadConfig},
		{"Integer-Kind-String-Enum", enumfields.KindSmallInteger, Size, nil, enumfields.ErrBadConfig},
		{"Unknown-Include", enumfields.KindInteger, Color, []enumfields.FieldOptFn{enumfields.WithInclude("PURPLE")}, enumfields.ErrBadConfig},
		{"Unknown-Exclude", enumfields.KindInteger, Color, []enumfields.FieldOptFn{enumfields.WithExclude("PURPLE")}, enumfields.ErrBadConfig},
		{"Invalid-Default", enumfields.KindInteger, Color, []enumfields.FieldOptFn{enumfields.WithDefault(9)}, enumfields.ErrBadConfig},
		{"Unresolvable", enumfields.KindInteger, "app.colors.Colour", nil, enumfields.ErrNotExist},
		{"Bad-Reference", enumfields.KindInteger, 42, nil, enumfields.ErrBadReference},
		{"Nil-Type", enumfields.KindInteger, (*enumfields.Type)(nil), nil, enumfields.ErrBadReference},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f, err := enumfields.NewField(tc.kind, tc.ref, append(tc.opts, enumfields.WithRegistry(r))...)
			require.Nil(t, f)
			require.ErrorIs(t, err, tc.err)
		})
	}

	require.Panics(t, func() { enumfields.MustField(enumfields.NewIntegerField("app.colors.Colour", enumfields.WithRegistry(r))) })

	// A nil Registry keeps the DefaultRegistry.
	f, err := enumfields.NewIntegerField("app.nowhere.Color", enumfields.WithRegistry(nil))
	require.Nil(t, f)
	require.ErrorIs(t, err, enumfields.ErrNotExist)

	f, err = enumfields.NewIntegerField(Color, enumfields.WithRegistry(nil))
	require.Nil(t, err)
	require.Same(t, Color, f.Enum())
}

func TestPrep(t *testing.T) {
	intField := enumfields.MustField(enumfields.NewIntegerField(Color))
	strField := enumfields.MustField(enumfields.NewStringField(Size))
	intAsStr := enumfields.MustField(enumfields.NewStringField(Color))

	for _, tc := range []struct {
		name     string
		field    *enumfields.Field
		input    any
		expected driver.Value
	}{
		{"Nil", intField, nil, nil},
		{"Member", intField, Red, int64(1)},
		{"Raw-Member-Value", intField, 2, int64(2)},
		{"Unknown-Integer-Passes-Through", intField, 7, int64(7)},
		{"Integral-String", intField, "7", int64(7)},
		{"Integral-Float", intField, 3.0, int64(3)},
		{"String-Form", intField, "Color.BLUE", int64(3)},
		{"Attr", intField, intField.Bind("color", nil), nil},
		{"String-Member", strField, XL, "xl"},
		{"String-Raw", strField, "m", "m"},
		{"Empty-String", strField, "", nil},
		{"Integer-Enum-In-Varchar", intAsStr, Green, "2"},
		{"Integer-Enum-In-Varchar-Raw", intAsStr, 3, "3"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := tc.field.Prep(tc.input)
			require.Nil(t, err)
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestPrepInvalid(t *testing.T) {
	intField := enumfields.MustField(enumfields.NewIntegerField(Color))
	strField := enumfields.MustField(enumfields.NewStringField(Size))

	for _, tc := range []struct {
		name  string
		field *enumfields.Field
		input any
	}{
		{"Member-Of-Other-Type", intField, Small},
		{"Not-A-Number", intField, "RED"},
		{"Unknown-String", strField, "xxl"},
		{"Integer-For-String", strField, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := tc.field.Prep(tc.input)
			require.Nil(t, actual)
			require.ErrorIs(t, err, enumfields.ErrInvalidValue)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name  string
		field *enumfields.Field
	}{
		{"Integer", enumfields.MustField(enumfields.NewIntegerField(Color))},
		{"Small-Integer", enumfields.MustField(enumfields.NewSmallIntegerField(Color))},
		{"Positive-Integer", enumfields.MustField(enumfields.NewPositiveIntegerField(Color))},
		{"Positive-Small-Integer", enumfields.MustField(enumfields.NewPositiveSmallIntegerField(Color))},
		{"String-Of-Integers", enumfields.MustField(enumfields.NewStringField(Color))},
		{"String", enumfields.MustField(enumfields.NewStringField(Size))},
		{"Nested", enumfields.MustField(enumfields.NewStringField(Shade))},
	} {
		t.Run(tc.name, func(t *testing.T) {
			for _, m := range tc.field.Enum().Members() {
				actual, err := tc.field.Enum().Coerce(m)
				require.Nil(t, err)
				require.Same(t, m, actual)

				stored, err := tc.field.Prep(m)
				require.Nil(t, err)

				actual, err = tc.field.ToMember(stored)
				require.Nil(t, err)
				require.Same(t, m, actual, "%s stored as %#v", m, stored)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	calls := 0
	for _, tc := range []struct {
		name     string
		opts     []enumfields.FieldOptFn
		expected *enumfields.Member
	}{
		{"None", nil, nil},
		{"Nil", []enumfields.FieldOptFn{enumfields.WithDefault(nil)}, nil},
		{"Member", []enumfields.FieldOptFn{enumfields.WithDefault(Blue)}, Blue},
		{"Stored-Value", []enumfields.FieldOptFn{enumfields.WithDefault(2)}, Green},
		{"String-Form", []enumfields.FieldOptFn{enumfields.WithDefault("Color.RED")}, Red},
		{"Func", []enumfields.FieldOptFn{enumfields.WithDefault(func() any { calls++; return 3 })}, Blue},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f, err := enumfields.NewIntegerField(Color, tc.opts...)
			require.Nil(t, err)

			actual, err := f.Default()
			require.Nil(t, err)
			require.Same(t, tc.expected, actual)
			require.Equal(t, len(tc.opts) > 0, f.HasDefault())
		})
	}

	// Once validating in NewField, once in the test.
	require.Equal(t, 2, calls)
}

func TestValidate(t *testing.T) {
	wide := enumfields.MustType("app.codes", "Code",
		enumfields.Member{Name: "NEGATIVE", Value: -1},
		enumfields.Member{Name: "SMALL", Value: 200},
		enumfields.Member{Name: "LARGE", Value: 40000},
		enumfields.Member{Name: "HUGE", Value: int64(3_000_000_000)},
	)

	restricted := enumfields.MustField(enumfields.NewSmallIntegerField(Color, enumfields.WithExclude("BLUE")))
	nullable := enumfields.MustField(enumfields.NewIntegerField(Color, enumfields.WithNull(), enumfields.WithBlank()))
	nullOnly := enumfields.MustField(enumfields.NewIntegerField(Color, enumfields.WithNull()))
	included := enumfields.MustField(enumfields.NewIntegerField(Color, enumfields.WithInclude("GREEN")))
	narrow := enumfields.MustField(enumfields.NewStringField(Size, enumfields.WithMaxLength(1)))

	for _, tc := range []struct {
		name  string
		field *enumfields.Field
		input any
		err   error
	}{
		{"Valid", restricted, Red, nil},
		{"Valid-Raw", restricted, "2", nil},
		{"Excluded", restricted, Blue, enumfields.ErrNotValid},
		{"Not-Included", included, Red, enumfields.ErrNotValid},
		{"Included", included, Green, nil},
		{"Invalid", restricted, 9, enumfields.ErrInvalidValue},
		{"Null-Disallowed", restricted, nil, enumfields.ErrNotValid},
		{"Null-Without-Blank", nullOnly, nil, enumfields.ErrNotValid},
		{"Null-Allowed", nullable, "", nil},
		{"Name-Is-Not-A-Value", enumfields.MustField(enumfields.NewSmallIntegerField(wide)), "SMALL", enumfields.ErrInvalidValue},
		{"Small-Integer", enumfields.MustField(enumfields.NewSmallIntegerField(wide)), 200, nil},
		{"Small-Integer-Overflow", enumfields.MustField(enumfields.NewSmallIntegerField(wide)), 40000, enumfields.ErrNotValid},
		{"Integer", enumfields.MustField(enumfields.NewIntegerField(wide)), 40000, nil},
		{"Integer-Overflow", enumfields.MustField(enumfields.NewIntegerField(wide)), int64(3_000_000_000), enumfields.ErrNotValid},
		{"Positive", enumfields.MustField(enumfields.NewPositiveIntegerField(wide)), -1, enumfields.ErrNotValid},
		{"Positive-Small", enumfields.MustField(enumfields.NewPositiveSmallIntegerField(wide)), 200, nil},
		{"Max-Length", narrow, Small, nil},
		{"Max-Length-Exceeded", narrow, XL, enumfields.ErrNotValid},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.field.Validate(tc.input)
			if tc.err == nil {
				require.Nil(t, err)
				return
			}

			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestValueToString(t *testing.T) {
	f := enumfields.MustField(enumfields.NewStringField(Color))
	require.Equal(t, int64(1), f.ValueToString(Red))
	require.Nil(t, f.ValueToString(nil))
}

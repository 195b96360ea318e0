package forms_test

import (
	"bytes"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/enumfields"
	"github.com/xy-planning-network/enumfields/forms"
)

type shirtForm struct {
	Color  enumfields.Attr    `json:"color" schema:"color" enum:"app.colors.Color,exclude=BLUE" validate:"enum"`
	Size   *enumfields.Member `json:"size" schema:"size" enum:"app.sizes.Size" validate:"omitempty,enum"`
	Name   string             `json:"name" schema:"name" validate:"required"`
	Amount int                `json:"amount" schema:"amount" validate:"gte=0"`
}

func TestDecoderDecode(t *testing.T) {
	// Arrange
	dec := forms.NewDecoder(registry)
	var actual shirtForm
	values := url.Values{
		"color":   {"3", "2"},
		"size":    {"l"},
		"name":    {"Tee"},
		"amount":  {"4"},
		"unknown": {"ignored"},
	}

	// Act
	err := dec.Decode(&actual, values)

	// Assert
	require.Nil(t, err)
	require.True(t, actual.Color.Is(Green))
	require.Equal(t, "Color", actual.Color.Name())
	require.Same(t, Large, actual.Size)
	require.Equal(t, "Tee", actual.Name)
	require.Equal(t, 4, actual.Amount)
}

func TestDecoderDecodeErrors(t *testing.T) {
	// Arrange
	dec := forms.NewDecoder(registry)
	var actual shirtForm
	values := url.Values{
		"color":  {"9"},
		"size":   {"xl"},
		"amount": {"many"},
	}

	// Act
	err := dec.Decode(&actual, values)

	// Assert
	require.ErrorIs(t, err, enumfields.ErrNotValid)

	var errs forms.ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.ElementsMatch(t, forms.ValidationErrors{
		{Field: "color", Got: "9", Rule: "enum; enumfields.Attr"},
		{Field: "size", Got: "xl", Rule: "enum; *enumfields.Member"},
		{Field: "amount", Got: "bad value at index 0", Rule: "must be int"},
	}, errs)

	// Act
	err = dec.Decode(actual, values)

	// Assert
	require.ErrorIs(t, err, enumfields.ErrUnaddressable)
}

func TestParserParseForm(t *testing.T) {
	// Arrange
	p := forms.NewParser(registry)
	var actual shirtForm

	// Act
	err := p.ParseForm(url.Values{"color": {"Color.RED"}, "name": {"Tee"}}, &actual)

	// Assert
	require.Nil(t, err)
	require.True(t, actual.Color.Is(Red))
	require.Nil(t, actual.Size)

	// Arrange
	actual = shirtForm{}

	// Act
	err = p.ParseForm(url.Values{"name": {"Tee"}, "amount": {"-1"}}, &actual)

	// Assert
	require.ErrorIs(t, err, enumfields.ErrNotValid)

	var errs forms.ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 2)
	require.Equal(t, "color", errs[0].Field)
	require.Equal(t, "enum", errs[0].Rule)
	require.Equal(t, "amount", errs[1].Field)
	require.Equal(t, "gte=0; int", errs[1].Rule)
}

func TestParserParseBody(t *testing.T) {
	// Arrange
	p := forms.NewParser(registry)
	var actual shirtForm

	// Act
	err := p.ParseBody(bytes.NewBufferString(`{"color": 2, "name": "Tee"}`), &actual)

	// Assert
	require.Nil(t, err)
	require.True(t, actual.Color.Is(Green))

	// Arrange
	actual = shirtForm{}

	// Act
	err = p.ParseBody(bytes.NewBufferString(`{"color": 3, "name": "Tee"}`), &actual)

	// Assert
	require.ErrorIs(t, err, enumfields.ErrNotValid)

	var errs forms.ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Equal(t, forms.ValidationErrors{{Field: "color", Got: int64(3), Rule: "enum; int64"}}, errs)

	// Arrange
	actual = shirtForm{}

	// Act
	err = p.ParseBody(bytes.NewBufferString(`{"color": 7}`), &actual)

	// Assert
	require.ErrorIs(t, err, enumfields.ErrNotValid)

	// Act
	err = p.ParseBody(bytes.NewBufferString(`{"color"`), &actual)

	// Assert
	require.ErrorIs(t, err, enumfields.ErrBadFormat)

	// Act
	err = p.ParseBody(bytes.NewBufferString(`{}`), shirtForm{})

	// Assert
	require.ErrorIs(t, err, enumfields.ErrUnaddressable)
}

func TestValidationErrors(t *testing.T) {
	errs := forms.ValidationErrors{{Field: "color", Got: 9, Rule: "enum"}}

	require.EqualError(t, errs, `field="color" rule="enum" got="9"`)

	b, err := errs.MarshalJSON()
	require.Nil(t, err)
	require.JSONEq(t, `{"validationErrors":[{"field":"color","got":9,"rule":"enum"}]}`, string(b))
}

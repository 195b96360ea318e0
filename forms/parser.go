package forms

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/xy-planning-network/enumfields"
)

// A Parser decodes and then validates submitted data into a pointer to a struct.
type Parser struct {
	decoder  *Decoder
	registry *enumfields.Registry
	validator
}

// NewParser constructs a Parser resolving enum tags against reg,
// or the DefaultRegistry when reg is nil.
func NewParser(reg *enumfields.Registry) *Parser {
	if reg == nil {
		reg = enumfields.DefaultRegistry
	}

	return &Parser{
		decoder:   NewDecoder(reg),
		registry:  reg,
		validator: newValidator(),
	}
}

// ParseBody decodes into a pointer to a struct the JSON data in body.
// If successful, ParseBody runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
//
// Unbound Attrs of structPtr are bound before decoding,
// so their JSON values are coerced like any other assignment.
func (p *Parser) ParseBody(body io.Reader, structPtr any) error {
	if err := p.registry.BindStruct(structPtr, nil); err != nil {
		return err
	}

	err := json.NewDecoder(body).Decode(structPtr)
	var invalid *enumfields.InvalidValueError
	switch {
	case err == nil:
	case errors.As(err, &invalid):
		return ValidationErrors{{Got: invalid.Value, Rule: "enum; " + invalid.Type.Path()}}
	default:
		return fmt.Errorf("%w: failed decoding body: %s", enumfields.ErrBadFormat, err)
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("%T failed validation: %w", structPtr, err)
	}

	return nil
}

// ParseForm decodes into a pointer to a struct the form values.
// If successful, ParseForm runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
func (p *Parser) ParseForm(values url.Values, structPtr any) error {
	if err := p.decoder.Decode(structPtr, values); err != nil {
		return fmt.Errorf("failed decoding form values: %w", err)
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("%T failed validation: %w", structPtr, err)
	}

	return nil
}

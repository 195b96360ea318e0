package forms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xy-planning-network/enumfields"
)

// A Widget is the HTML control rendering a ChoiceField.
type Widget string

const (
	WidgetSelect Widget = "select"
	WidgetRadio  Widget = "radio"
)

// A ChoiceField is the form counterpart of an enumfields.Field:
// it lists the Field's choices for rendering and cleans submitted values into Members.
type ChoiceField struct {
	field    *enumfields.Field
	name     string
	label    string
	widget   Widget
	required bool
	blank    []enumfields.Choice
}

// NewChoiceField constructs a ChoiceField for f.
//
// By default, the ChoiceField renders as a select
// and a value is required unless f allows blank values.
func NewChoiceField(f *enumfields.Field, opts ...ChoiceOptFn) *ChoiceField {
	c := &ChoiceField{
		field:    f,
		widget:   WidgetSelect,
		required: !f.Blank(),
		blank:    enumfields.BlankChoiceDash,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *ChoiceField) Field() *enumfields.Field { return c.field }
func (c *ChoiceField) Name() string             { return c.name }
func (c *ChoiceField) Label() string            { return c.label }
func (c *ChoiceField) Required() bool           { return c.required }
func (c *ChoiceField) Widget() Widget           { return c.widget }

// Choices lists the choices offered by the ChoiceField.
// The blank choice comes first when the Field allows blank values or has no default.
func (c *ChoiceField) Choices() []enumfields.Choice {
	includeBlank := c.field.Blank() || !c.field.HasDefault()
	return c.field.Choices(includeBlank, c.blank...)
}

// Initial returns the Member selected before anything is submitted: the Field's default.
func (c *ChoiceField) Initial() *enumfields.Member {
	m, err := c.field.Default()
	if err != nil {
		return nil
	}

	return m
}

// Clean converts a submitted value into a Member.
//
// An empty value is rejected when the ChoiceField is required and yields nil otherwise.
// Values that are not a Member, or not one of the choices, return ValidationErrors.
func (c *ChoiceField) Clean(raw string) (*enumfields.Member, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if c.required {
			return nil, ValidationErrors{{Field: c.name, Got: raw, Rule: "required"}}
		}

		return nil, nil
	}

	m, err := c.field.ToMember(raw)
	if errors.Is(err, enumfields.ErrInvalidValue) {
		return nil, ValidationErrors{{Field: c.name, Got: raw, Rule: "enum=" + c.field.Enum().Path()}}
	}

	if err != nil {
		return nil, err
	}

	if err := c.field.Validate(m); err != nil {
		return nil, ValidationErrors{{Field: c.name, Got: raw, Rule: "oneof=" + c.names()}}
	}

	return m, nil
}

func (c *ChoiceField) names() string {
	members := c.field.Members()
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}

	return strings.Join(names, " ")
}

// An Option is one choice of a ChoiceField ready to be rendered.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Options lists the choices as Options, marking the one holding selected.
// When selected is nil, the blank choice is marked, if there is one.
func (c *ChoiceField) Options(selected *enumfields.Member) []Option {
	want := ""
	if selected != nil {
		if val, err := c.field.Prep(selected); err == nil {
			want = fmt.Sprint(val)
		}
	}

	choices := c.Choices()
	opts := make([]Option, len(choices))
	for i, choice := range choices {
		val := ""
		if choice.Value != nil {
			val = fmt.Sprint(choice.Value)
		}

		opts[i] = Option{Value: val, Label: choice.Label, Selected: val == want}
	}

	return opts
}

package forms

import "github.com/xy-planning-network/enumfields"

// A ChoiceOptFn is a functional option configuring a ChoiceField when constructing a new one.
type ChoiceOptFn func(*ChoiceField)

// WithBlankChoice replaces the label of the blank choice.
func WithBlankChoice(label string) ChoiceOptFn {
	return func(c *ChoiceField) {
		c.blank = []enumfields.Choice{{Value: "", Label: label}}
	}
}

// WithLabel sets the label rendered alongside the ChoiceField.
func WithLabel(label string) ChoiceOptFn {
	return func(c *ChoiceField) {
		c.label = label
	}
}

// WithName sets the form key of the ChoiceField, also used in ValidationErrors.
func WithName(name string) ChoiceOptFn {
	return func(c *ChoiceField) {
		c.name = name
	}
}

// WithRadio renders the ChoiceField as radio buttons.
func WithRadio() ChoiceOptFn {
	return func(c *ChoiceField) {
		c.widget = WidgetRadio
	}
}

// WithRequired overrides whether the ChoiceField requires a value.
func WithRequired(required bool) ChoiceOptFn {
	return func(c *ChoiceField) {
		c.required = required
	}
}

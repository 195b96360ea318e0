/*
Package forms handles enum values submitted through HTML forms or JSON payloads.

A [ChoiceField] presents an [enumfields.Field] as a select or a set of radio buttons
and cleans the submitted string back into a Member.

A [Parser] decodes payloads into a pointer to a struct and validates them.
Fields of type enumfields.Attr or *enumfields.Member declare their enum with an enum struct tag;
the "enum" validation rule asserts they hold an acceptable Member:

	type ShirtForm struct {
		Color enumfields.Attr `schema:"color" enum:"app.colors.Color" validate:"enum"`
		Name  string          `schema:"name" validate:"required"`
	}
*/
package forms

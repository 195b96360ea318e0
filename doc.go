/*
Package enumfields stores enumerated values in ordinary database columns
while exposing them to application code as typed Members.

A [Type] is a closed, ordered set of [Member]s, each with a Name, a stored Value and a Label:

	var Color = enumfields.MustRegister(enumfields.MustType("app.colors", "Color",
		enumfields.Member{Name: "RED", Value: 1, Label: "Red"},
		enumfields.Member{Name: "GREEN", Value: 2, Label: "Green"},
	))

A [Field] describes a model attribute holding Members of one Type
and the column backing it: a varchar, an integer, a smallint, or their non-negative variants.

	var colorField = enumfields.MustField(enumfields.NewSmallIntegerField(Color, enumfields.WithDefault(1)))

Any value assigned to an [Attr] bound to a Field, including values scanned from the database,
is coerced into a Member first; see [*Type.Coerce].
Writing an Attr stores the Member's value; see [*Field.Prep].

Types are registered in a [Registry] so Fields can reference them by path,
for instance in struct tags or in migration metadata produced by [*Field.Deconstruct].
*/
package enumfields

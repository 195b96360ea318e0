/*
Package postgres stores enumfields attributes in PostgreSQL through GORM.

Model fields of type [enumfields.Attr] or *[enumfields.Member] are declared with the enum serializer
and an enum tag naming the Field:

	type Shirt struct {
		ID    uint
		Color enumfields.Attr `gorm:"serializer:enum" enum:"app.colors.Color,kind=small-integer"`
	}

Reading a row coerces the stored value into a Member and writing one stores the Member's value,
so an invalid value surfaces as [enumfields.ErrInvalidValue] from the query.

As part of the connection process, we also ensure that all migrations have been run.
[FieldState] records what each enum column looked like when it was last migrated,
and [*DB.PlanFieldMigrations] derives the migrations needed to catch up with the Fields declared in code.
*/
package postgres

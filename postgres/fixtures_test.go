package postgres_test

import (
	"github.com/xy-planning-network/enumfields"
)

var (
	Color = enumfields.MustRegister(enumfields.MustType("shop.colors", "Color",
		enumfields.Member{Name: "RED", Value: 1, Label: "Red"},
		enumfields.Member{Name: "GREEN", Value: 2, Label: "Green"},
		enumfields.Member{Name: "BLUE", Value: 3, Label: "Blue"},
	))
	Red   = Color.MustLookup("RED")
	Green = Color.MustLookup("GREEN")
	Blue  = Color.MustLookup("BLUE")

	Size = enumfields.MustRegister(enumfields.MustType("shop.sizes", "Size",
		enumfields.Member{Name: "S", Value: "s"},
		enumfields.Member{Name: "M", Value: "m"},
		enumfields.Member{Name: "L", Value: "l"},
	))
	Small  = Size.MustLookup("S")
	Medium = Size.MustLookup("M")

	colorField = enumfields.MustField(enumfields.NewSmallIntegerField(Color, enumfields.WithDefault(Red)))
	sizeField  = enumfields.MustField(enumfields.NewStringField(Size, enumfields.WithNull(), enumfields.WithBlank()))
)

type Shirt struct {
	ID    uint
	Color enumfields.Attr    `gorm:"serializer:enum" enum:"shop.colors.Color,kind=small-integer,default=1"`
	Size  *enumfields.Member `gorm:"serializer:enum" enum:"shop.sizes.Size,null,blank"`
}

type Untagged struct {
	ID    uint
	Color enumfields.Attr `gorm:"serializer:enum"`
}

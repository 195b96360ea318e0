package enumfields_test

import (
	"testing"

	"github.com/xy-planning-network/enumfields"
)

type code int8

var (
	Color = enumfields.MustType("app.colors", "Color",
		enumfields.Member{Name: "RED", Value: 1, Label: "Red"},
		enumfields.Member{Name: "GREEN", Value: 2},
		enumfields.Member{Name: "BLUE", Value: code(3), Label: "Blue"},
	)
	Red   = Color.MustLookup("RED")
	Green = Color.MustLookup("GREEN")
	Blue  = Color.MustLookup("BLUE")

	Shade = enumfields.MustType("app.paint", "Palette.Shade",
		enumfields.Member{Name: "LIGHT", Value: "light"},
		enumfields.Member{Name: "DARK", Value: "dark"},
	)

	Size = enumfields.MustType("app.sizes", "Size",
		enumfields.Member{Name: "S", Value: "s", Label: "Small"},
		enumfields.Member{Name: "M", Value: "m"},
		enumfields.Member{Name: "XL", Value: "xl"},
	)
	Small = Size.MustLookup("S")
	XL    = Size.MustLookup("XL")
)

func newRegistry(t *testing.T) *enumfields.Registry {
	t.Helper()
	r := enumfields.NewRegistry()
	r.MustRegister(Color)
	r.MustRegister(Shade)
	r.MustRegister(Size)

	return r
}

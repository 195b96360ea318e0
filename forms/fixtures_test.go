package forms_test

import "github.com/xy-planning-network/enumfields"

var (
	registry = enumfields.NewRegistry()

	Color = registry.MustRegister(enumfields.MustType("app.colors", "Color",
		enumfields.Member{Name: "RED", Value: 1, Label: "Red"},
		enumfields.Member{Name: "GREEN", Value: 2, Label: "Green"},
		enumfields.Member{Name: "BLUE", Value: 3, Label: "Blue"},
	))
	Red   = Color.MustLookup("RED")
	Green = Color.MustLookup("GREEN")
	Blue  = Color.MustLookup("BLUE")

	Size = registry.MustRegister(enumfields.MustType("app.sizes", "Size",
		enumfields.Member{Name: "S", Value: "s", Label: "Small"},
		enumfields.Member{Name: "L", Value: "l", Label: "Large"},
	))
	Small = Size.MustLookup("S")
	Large = Size.MustLookup("L")
)

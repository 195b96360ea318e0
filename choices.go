package enumfields

// A Choice is a stored value paired with the label presented for it.
type Choice struct {
	Value any    `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// BlankChoiceDash is the blank choice prepended by default when a blank choice is requested.
var BlankChoiceDash = []Choice{{Value: "", Label: "---------"}}

// Members returns the Members the Field offers as choices.
//
// Without an include list, every Member of the Type is a candidate, in declaration order.
// With one, only the included Members are candidates, in the order given.
// Excluded Members are then removed from the candidates.
func (f *Field) Members() []*Member {
	candidates := f.enum.members
	if len(f.include) > 0 {
		candidates = make([]*Member, 0, len(f.include))
		for _, name := range f.include {
			candidates = append(candidates, f.enum.byName[name])
		}
	}

	out := make([]*Member, 0, len(candidates))
	for _, m := range candidates {
		if !f.excludes(m) {
			out = append(out, m)
		}
	}

	return out
}

// Choices lists the (stored value, label) pairs the Field offers.
// Labels default to the Member's Name.
//
// When includeBlank is true, blank is prepended; without blank, BlankChoiceDash is.
func (f *Field) Choices(includeBlank bool, blank ...Choice) []Choice {
	members := f.Members()
	out := make([]Choice, 0, len(members)+1)
	if includeBlank {
		if len(blank) == 0 {
			blank = BlankChoiceDash
		}

		out = append(out, blank...)
	}

	for _, m := range members {
		out = append(out, Choice{Value: f.project(m), Label: m.Display()})
	}

	return out
}

// offers asserts whether m is among the Field's choices.
func (f *Field) offers(m *Member) bool {
	if !f.enum.Contains(m) || f.excludes(m) {
		return false
	}

	if len(f.include) == 0 {
		return true
	}

	for _, name := range f.include {
		if name == m.Name {
			return true
		}
	}

	return false
}

func (f *Field) excludes(m *Member) bool {
	for _, name := range f.exclude {
		if name == m.Name {
			return true
		}
	}

	return false
}

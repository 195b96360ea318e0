package enumfields

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// A Definition declares a Type in YAML:
//
//	- module: app.colors
//	  name: Color
//	  members:
//	    - {name: RED, value: 1, label: Red}
//	    - {name: GREEN, value: 2}
type Definition struct {
	Module  string             `yaml:"module"`
	Name    string             `yaml:"name"`
	Members []MemberDefinition `yaml:"members"`
}

// A MemberDefinition declares one Member of a Definition.
type MemberDefinition struct {
	Name  string `yaml:"name"`
	Value any    `yaml:"value"`
	Label string `yaml:"label,omitempty"`
}

// LoadYAML defines the Types declared in b, a YAML sequence of Definitions,
// and registers them.
// Nothing is registered if any Definition is invalid.
func (r *Registry) LoadYAML(b []byte) ([]*Type, error) {
	var defs []Definition
	if err := yaml.Unmarshal(b, &defs); err != nil {
		return nil, fmt.Errorf("%w: decoding enum definitions: %s", ErrBadConfig, err)
	}

	types := make([]*Type, 0, len(defs))
	for _, def := range defs {
		members := make([]Member, len(def.Members))
		for i, md := range def.Members {
			members[i] = Member{Name: md.Name, Value: md.Value, Label: md.Label}
		}

		t, err := NewType(def.Module, def.Name, members...)
		if err != nil {
			return nil, err
		}

		types = append(types, t)
	}

	if err := r.RegisterAll(types...); err != nil {
		return nil, err
	}

	return types, nil
}

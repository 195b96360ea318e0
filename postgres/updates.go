package postgres

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/xy-planning-network/enumfields"
	"gorm.io/datatypes"
)

// An Updates is a map of key-value pairs where key is the database column and the value is the data.
//
// Values may be *enumfields.Member or enumfields.Attr; their stored values are written.
type Updates map[string]any

func (u Updates) valid() error {
	if len(u) == 0 {
		return fmt.Errorf("%w: no columns set", enumfields.ErrMissingData)
	}

	return nil
}

// unwrap copies u, replacing Members and Attrs with their stored values.
func (u Updates) unwrap() (map[string]any, error) {
	out := make(map[string]any, len(u))
	for k, v := range u {
		vals, err := unwrap(v)
		if err != nil && v != nil {
			return nil, fmt.Errorf("column %q: %w", k, err)
		}

		out[k] = vals[0]
	}

	return out, nil
}

// StripNils removes all entries from the map where the value resolves to nil, i.e. NULL,
// or where an enumfields.Enumerable is not valid.
func (u Updates) StripNils() {
	for k, v := range u {
		switch t := v.(type) {
		case nil:
			delete(u, k)

		case *enumfields.Member:
			if t == nil {
				delete(u, k)
			}

		case datatypes.JSON:
			if t == nil || bytes.Equal([]byte(t), []byte(datatypes.JSON(json.RawMessage(`null`)))) {
				delete(u, k)
			}

		case enumfields.Enumerable:
			if err := t.Valid(); err != nil {
				delete(u, k)
				continue
			}

			if valuer, ok := t.(driver.Valuer); ok {
				if val, err := valuer.Value(); err != nil || val == nil {
					delete(u, k)
				}
			}

		case driver.Valuer:
			val, err := t.Value()
			if err != nil || val == nil {
				delete(u, k)
			}
		}
	}
}

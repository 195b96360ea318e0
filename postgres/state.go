package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lib/pq"
	"github.com/xy-planning-network/enumfields"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// A FieldState records the Deconstruction of the enum Field backing a column
// as of the last time it was migrated.
// Comparing FieldStates against the Fields declared in code reveals columns needing a migration.
type FieldState struct {
	ID         uint           `gorm:"primaryKey"`
	ModelTable string         `gorm:"uniqueIndex:idx_enum_field_states_column;not null"`
	ColumnName string         `gorm:"uniqueIndex:idx_enum_field_states_column;not null"`
	Enum       pq.StringArray `gorm:"type:text[];not null"`
	State      datatypes.JSON `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (FieldState) TableName() string { return "enum_field_states" }

// CreateFieldStates is the Migration creating the table FieldStates are stored in.
var CreateFieldStates = Migration{
	Key: "create-enum-field-states",
	Executor: func(db *gorm.DB) error {
		return db.AutoMigrate(&FieldState{})
	},
}

// A Column identifies a column backed by an enum Field.
type Column struct {
	Table string
	Name  string
}

func (c Column) String() string { return c.Table + "." + c.Name }

// NewFieldState records the current Deconstruction of f for col.
func NewFieldState(col Column, f *enumfields.Field) (FieldState, error) {
	d := f.Deconstruct()
	b, err := json.Marshal(d)
	if err != nil {
		return FieldState{}, fmt.Errorf("%w: %s", enumfields.ErrUnexpected, err)
	}

	return FieldState{
		ModelTable: col.Table,
		ColumnName: col.Name,
		Enum:       pq.StringArray{d.Enum[0], d.Enum[1]},
		State:      datatypes.JSON(b),
	}, nil
}

// Column returns the column fs describes.
func (fs FieldState) Column() Column { return Column{Table: fs.ModelTable, Name: fs.ColumnName} }

// Deconstruction decodes the recorded Deconstruction.
func (fs FieldState) Deconstruction() (enumfields.Deconstruction, error) {
	var d enumfields.Deconstruction
	if err := json.Unmarshal(fs.State, &d); err != nil {
		return d, fmt.Errorf("%w: decoding state of %s: %s", enumfields.ErrNotValid, fs.Column(), err)
	}

	return d, nil
}

// A FieldChange is a column whose Field differs from its recorded FieldState.
// Old is nil for columns never recorded.
type FieldChange struct {
	Column Column
	Old    *enumfields.Deconstruction
	New    enumfields.Deconstruction
}

// DiffFieldStates compares the recorded states against the Fields declared in code,
// returning the changed columns ordered by table and name.
func DiffFieldStates(recorded []FieldState, declared map[Column]*enumfields.Field) ([]FieldChange, error) {
	byCol := make(map[Column]FieldState, len(recorded))
	for _, fs := range recorded {
		byCol[fs.Column()] = fs
	}

	var changes []FieldChange
	for col, f := range declared {
		d := f.Deconstruct()
		fs, ok := byCol[col]
		if !ok {
			changes = append(changes, FieldChange{Column: col, New: d})
			continue
		}

		old, err := fs.Deconstruction()
		if err != nil {
			return nil, err
		}

		if !old.Equal(d) {
			changes = append(changes, FieldChange{Column: col, Old: &old, New: d})
		}
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Column.String() < changes[j].Column.String() })

	return changes, nil
}

// FieldStates retrieves every recorded FieldState.
func (db *DB) FieldStates() ([]FieldState, error) {
	var states []FieldState
	err := db.Model(new(FieldState)).Order("model_table, column_name").Find(&states)
	if err != nil && !errors.Is(err, enumfields.ErrNotFound) {
		return nil, err
	}

	return states, nil
}

// SaveFieldStates records the Deconstruction of each declared Field, replacing previous records.
func (db *DB) SaveFieldStates(declared map[Column]*enumfields.Field) error {
	if len(declared) == 0 {
		return nil
	}

	states := make([]FieldState, 0, len(declared))
	for col, f := range declared {
		fs, err := NewFieldState(col, f)
		if err != nil {
			return err
		}

		states = append(states, fs)
	}

	err := db.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "model_table"}, {Name: "column_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"enum", "state", "updated_at"}),
	}).Create(&states).Error
	if err != nil {
		return fmt.Errorf("%w: saving enum field states: %s", enumfields.ErrUnexpected, err)
	}

	return nil
}

// PlanFieldMigrations compares the recorded FieldStates with declared
// and returns the Migrations bringing each changed column up to date.
// A column with no recorded state is added, or rewritten when the table already has it.
func (db *DB) PlanFieldMigrations(declared map[Column]*enumfields.Field) ([]Migration, error) {
	recorded, err := db.FieldStates()
	if err != nil {
		return nil, err
	}

	changes, err := DiffFieldStates(recorded, declared)
	if err != nil {
		return nil, err
	}

	migrations := make([]Migration, 0, len(changes))
	for _, c := range changes {
		f := declared[c.Column]
		if c.Old == nil {
			// A column created before its state was recorded is rewritten to match f.
			if db.db.Migrator().HasColumn(c.Column.Table, c.Column.Name) {
				migrations = append(migrations, AlterEnumColumn(c.Column.Table, c.Column.Name, enumfields.Deconstruction{}, f))
				continue
			}

			migrations = append(migrations, AddEnumColumn(c.Column.Table, c.Column.Name, f))
			continue
		}

		migrations = append(migrations, AlterEnumColumn(c.Column.Table, c.Column.Name, *c.Old, f))
	}

	return migrations, nil
}

package postgres

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/xy-planning-network/enumfields"
	"gorm.io/gorm"
)

// EnumColumnType returns the PostgreSQL type of a column storing d.
func EnumColumnType(d enumfields.Deconstruction) string {
	switch d.Kind {
	case enumfields.KindSmallInteger, enumfields.KindPositiveSmallInteger:
		return "smallint"
	case enumfields.KindInteger, enumfields.KindPositiveInteger:
		return "integer"
	default:
		n := d.MaxLength
		if n <= 0 {
			n = 10
		}

		return fmt.Sprintf("varchar(%d)", n)
	}
}

// ColumnDefinition renders the definition of column for d,
// as used in CREATE TABLE and ALTER TABLE ... ADD COLUMN, e.g.:
//
//	"color" smallint NOT NULL DEFAULT 1 CHECK ("color" >= 0)
func ColumnDefinition(column string, d enumfields.Deconstruction) string {
	quoted := pq.QuoteIdentifier(column)
	parts := []string{quoted, EnumColumnType(d)}
	if !d.Null {
		parts = append(parts, "NOT NULL")
	}

	if d.Default != nil {
		parts = append(parts, "DEFAULT "+literal(d.Default))
	}

	switch d.Kind {
	case enumfields.KindPositiveInteger, enumfields.KindPositiveSmallInteger:
		parts = append(parts, fmt.Sprintf("CHECK (%s >= 0)", quoted))
	}

	return strings.Join(parts, " ")
}

// literal renders v as an SQL literal.
// Integers are written bare; everything else is quoted as a string.
func literal(v any) string {
	switch n := v.(type) {
	case int64:
		return strconv.FormatInt(n, 10)
	case int:
		return strconv.Itoa(n)
	case float64:
		if n == float64(int64(n)) {
			return strconv.FormatInt(int64(n), 10)
		}
	}

	return pq.QuoteLiteral(fmt.Sprint(v))
}

// AddEnumColumn constructs a Migration adding column to table for f.
func AddEnumColumn(table, column string, f *enumfields.Field) Migration {
	d := f.Deconstruct()
	return Migration{
		Key: fmt.Sprintf("add-enum-column-%s-%s", table, column),
		Executor: func(db *gorm.DB) error {
			stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", pq.QuoteIdentifier(table), ColumnDefinition(column, d))
			return db.Exec(stmt).Error
		},
	}
}

// AlterEnumColumn constructs a Migration changing column of table from the old Deconstruction to f,
// rewriting its type, nullability, default and CHECK constraint.
// A zero old Deconstruction stands for an existing column of unknown definition.
//
// The Migration's Key carries a digest of both Deconstructions,
// so distinct changes to the same column are each run.
func AlterEnumColumn(table, column string, old enumfields.Deconstruction, f *enumfields.Field) Migration {
	d := f.Deconstruct()
	return Migration{
		Key: fmt.Sprintf("alter-enum-column-%s-%s-%s", table, column, changeDigest(old, d)),
		Executor: func(db *gorm.DB) error {
			for _, stmt := range alterStatements(table, column, old, d) {
				if err := db.Exec(stmt).Error; err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func alterStatements(table, column string, old, d enumfields.Deconstruction) []string {
	prefix := fmt.Sprintf("ALTER TABLE %s ", pq.QuoteIdentifier(table))
	col := pq.QuoteIdentifier(column)
	check := pq.QuoteIdentifier(fmt.Sprintf("%s_%s_check", table, column))

	stmts := []string{
		prefix + fmt.Sprintf("DROP CONSTRAINT IF EXISTS %s", check),
		prefix + fmt.Sprintf("ALTER COLUMN %s DROP DEFAULT", col),
	}

	if old.Kind == "" || EnumColumnType(old) != EnumColumnType(d) {
		stmts = append(stmts, prefix+fmt.Sprintf("ALTER COLUMN %s TYPE %s USING %s::%s", col, EnumColumnType(d), col, EnumColumnType(d)))
	}

	if d.Null {
		stmts = append(stmts, prefix+fmt.Sprintf("ALTER COLUMN %s DROP NOT NULL", col))
	} else {
		stmts = append(stmts, prefix+fmt.Sprintf("ALTER COLUMN %s SET NOT NULL", col))
	}

	if d.Default != nil {
		stmts = append(stmts, prefix+fmt.Sprintf("ALTER COLUMN %s SET DEFAULT %s", col, literal(d.Default)))
	}

	switch d.Kind {
	case enumfields.KindPositiveInteger, enumfields.KindPositiveSmallInteger:
		stmts = append(stmts, prefix+fmt.Sprintf("ADD CONSTRAINT %s CHECK (%s >= 0)", check, col))
	}

	return stmts
}

func changeDigest(old, d enumfields.Deconstruction) string {
	b, err := json.Marshal([]enumfields.Deconstruction{old, d})
	if err != nil {
		b = []byte(fmt.Sprint(old, d))
	}

	sum := sha256.Sum256(b)

	return hex.EncodeToString(sum[:8])
}

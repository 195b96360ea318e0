package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/xy-planning-network/enumfields"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

var (
	errNilArg       = errors.New("nil arg")
	safeGORMSession = &gorm.Session{}
)

// violatesFK is the message PostgreSQL reports on foreign key violations.
const violatesFK = "violates foreign key constraint"

type DB struct {
	// *gorm.DB's methods are generally unsafe to use.
	// Specifically, some *gorm.DB methods are not thread-safe
	// and mutate the state of the *gorm.DB backing DB.
	//
	// If a *gorm.DB method calls *gorm.DB.getInstance,
	// this appears to render a method "safe" since it creates a new pointer.
	//
	// If a *gorm.DB method does not, be aware.
	// One solution is to use *gorm.DB.Session to force a clean pointer.
	db *gorm.DB
}

// NewDB constructs a *DB from a *gorm.DB.
func NewDB(db *gorm.DB) *DB { return &DB{db: db} }

// DB exposes the underlying *gorm.DB backing DB.
//
// NB: use in exceptional circumstances only.
func (db *DB) DB() *gorm.DB { return db.db }

// WithContext sets ctx on the current query.
func (db *DB) WithContext(ctx context.Context) *DB { return &DB{db: db.db.WithContext(ctx)} }

// **************************************************************************
// FINISHER METHODS
//
// These methods close out a current query, executing it.
// All finisher methods are terminal and cannot be chained.
// **************************************************************************

// Count returns the number of records matching the current query or an error.
func (db *DB) Count() (int64, error) {
	if db.db.Error != nil {
		return 0, db.db.Error
	}

	var count int64
	if err := db.db.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: %s", enumfields.ErrUnexpected, err)
	}

	return count, nil
}

// Create inserts value into the database, updating value with new data yielding from that insertion.
//
// Value must be a pointer, otherwise ErrUnaddressable returns.
// If value violates a foreign key constraint defined by the database, ErrNotValid returns.
// If value violates a unique constraint defined by the database, ErrExists returns.
// If an enum attribute of value holds an invalid value, an error wrapping ErrInvalidValue returns.
func (db *DB) Create(value any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %T must be a non-nil pointer or slice", enumfields.ErrUnaddressable, value)
		}
	}()

	if db.db.Error != nil {
		return db.db.Error
	}

	if v, ok := value.(Updates); ok {
		if err = v.valid(); err != nil {
			return err
		}

		value = map[string]any(v)
	}

	err = db.db.Session(&gorm.Session{FullSaveAssociations: false}).Create(value).Error
	switch {
	case err == nil:
		return nil

	case errors.Is(err, enumfields.ErrInvalidValue):
		return err

	case errors.Is(err, schema.ErrUnsupportedDataType), errors.Is(err, gorm.ErrInvalidData):
		return fmt.Errorf("%w: %T is not a database table", enumfields.ErrMissingData, value)

	case strings.Contains(err.Error(), violatesFK), errConstraintViolation.MatchString(err.Error()):
		return fmt.Errorf("%w: %s", enumfields.ErrNotValid, err)

	case errUniqViolation.MatchString(err.Error()):
		return fmt.Errorf("%w: %s", enumfields.ErrExists, err)

	default:
		return fmt.Errorf("%w: failed creating %T: %s", enumfields.ErrUnexpected, value, err)
	}
}

// Exec executes SQL query sql, passing values to it.
//
// If the query executed does not affect any records, Exec return ErrNotFound.
// There are many use cases where the caller ought to specifically ignore this error,
// since the execution may not change existing records.
func (db *DB) Exec(sql string, values ...any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	var err error
	values, err = unwrap(values...)
	if err != nil && !errors.Is(err, errNilArg) {
		return err
	}

	res := db.db.Exec(sql, values...)
	if res.Error != nil {
		return fmt.Errorf("%w: %s", enumfields.ErrUnexpected, res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: exec failed to affect any rows", enumfields.ErrNotFound)
	}

	return nil
}

// Find retrieves all records matching the current query
// and stores them in dest.
//
// If a stored value is not a member of an enum attribute's Type,
// an error wrapping ErrInvalidValue returns.
// If no matches are found, Find returns ErrNotFound.
func (db *DB) Find(dest any) (err error) {
	badDest := fmt.Errorf("%w: %T cannot be scanned into", enumfields.ErrNotValid, dest)
	defer func() {
		if r := recover(); r != nil {
			err = badDest
		}
	}()

	if db.db.Error != nil {
		return db.db.Error
	}

	res := db.db.Find(dest)
	err = res.Error
	switch {
	case err == nil && res.RowsAffected == 0:
		return fmt.Errorf("%w", enumfields.ErrNotFound)
	case err == nil:
		return nil
	case errors.Is(err, enumfields.ErrInvalidValue):
		return err
	case errSQLScan.MatchString(err.Error()):
		return badDest
	case errSQLSyntax.MatchString(err.Error()):
		return fmt.Errorf("%w: %s", enumfields.ErrNotValid, err)
	default:
		return fmt.Errorf("%w: %s", enumfields.ErrUnexpected, err)
	}
}

// First retrieves a single record from the database matching the query
// and stores it in dest.
//
// If no matches are found, First returns ErrNotFound.
func (db *DB) First(dest any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	err := db.db.First(dest).Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %T", enumfields.ErrNotFound, dest)
	case errors.Is(err, enumfields.ErrInvalidValue):
		return err
	case errSQLSyntax.MatchString(err.Error()):
		return fmt.Errorf("%w: %s", enumfields.ErrNotValid, err)
	default:
		return fmt.Errorf("%w: %s", enumfields.ErrUnexpected, err)
	}
}

// Update replaces existing data on all records matching the query with values.
//
// If no records are updated, ErrNotFound returns.
func (db *DB) Update(values Updates) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	if err := values.valid(); err != nil {
		return err
	}

	vals, err := values.unwrap()
	if err != nil {
		return err
	}

	res := db.db.Updates(vals)
	switch {
	case res.RowsAffected == 0 && res.Error == nil:
		return fmt.Errorf("%w", enumfields.ErrNotFound)

	case res.Error == nil:
		return nil

	case errUniqViolation.MatchString(res.Error.Error()):
		return fmt.Errorf("%w: %s", enumfields.ErrExists, res.Error)

	default:
		return fmt.Errorf("%w: %s", enumfields.ErrUnexpected, res.Error)
	}
}

// **************************************************************************
// QUERY BUILDING METHODS
//
// Query building methods initiate a query and then add clauses to it
// until a finisher method is called.
// **************************************************************************

// Model declares the table used for the query.
//
// Model computes the name for the database table from the type of model,
// taking the plural of the table, unless model implements: func TableName() string
func (db *DB) Model(model any) *DB { return &DB{db: db.db.Model(model)} }

// Order applies an ORDER BY clause to the current query.
func (db *DB) Order(order string) *DB { return &DB{db: db.db.Order(order)} }

// Select applies a SELECT statement to the current query.
func (db *DB) Select(columns ...string) *DB { return &DB{db: db.db.Select(columns)} }

// Table defines which database table to query for the current query.
func (db *DB) Table(name string) *DB { return &DB{db: db.db.Table(name)} }

// Where applies the query fragment or subquery to the current query
// as a WHERE or AND clause.
//
// Where supports one or none args.
// Members and Attrs are replaced by their stored values.
// If more than one arg is passed, finisher methods will return ErrNotValid.
func (db *DB) Where(query any, args ...any) *DB {
	if len(args) > 1 {
		return db.withError(fmt.Errorf("%w: Where supports one or none args", enumfields.ErrNotValid))
	}

	var err error
	args, err = unwrap(args...)
	if err != nil && !errors.Is(err, errNilArg) {
		return db.withError(err)
	}

	q, err := unwrap(query)
	if err != nil {
		return db.withError(err)
	}

	return &DB{db.db.Where(q[0], args...)}
}

// WhereEnum filters the current query on column holding the stored value of v,
// projected through f.
// If v cannot be projected, finisher methods return an error wrapping ErrInvalidValue.
func (db *DB) WhereEnum(column string, f *enumfields.Field, v any) *DB {
	val, err := f.Prep(v)
	if err != nil {
		return db.withError(err)
	}

	// clause.Eq quotes column and renders a nil val as IS NULL.
	return &DB{db.db.Where(clause.Eq{Column: clause.Column{Name: column}, Value: val})}
}

// withError starts a new session carrying err, surfaced by the next finisher method.
func (db *DB) withError(err error) *DB {
	gdb := db.db.Session(safeGORMSession)
	_ = gdb.AddError(err)
	return &DB{db: gdb}
}

// **************************************************************************
// TRANSACTION METHODS
//
// These methods control database transactions.
// **************************************************************************

// Begin initializes a database transaction.
func (db *DB) Begin(opts ...*sql.TxOptions) *DB {
	return &DB{db: db.db.Begin(opts...)}
}

// Commit completes the current transaction,
// applying any state changes and making them visible to other database connections.
func (db *DB) Commit() error {
	if db.db.Error != nil {
		return db.db.Error
	}

	if err := db.db.Commit().Error; err != nil {
		return fmt.Errorf("%w: failed committing tx: %s", enumfields.ErrUnexpected, err)
	}

	return nil
}

// Rollback reverts the current transaction.
// If no transaction is open, Rollback returns an error.
func (db *DB) Rollback() error {
	if err := db.db.Rollback().Error; err != nil {
		return fmt.Errorf("%w: failed rolling back tx: %s", enumfields.ErrUnexpected, err)
	}

	return nil
}

// **************************************************************************
// ENUM ATTRIBUTE METHODS
// **************************************************************************

// Bind binds every enumfields.Attr of model serialized by the enum serializer,
// naming each after its column.
// Reading an unloaded Attr reloads its column for model's primary key.
func (db *DB) Bind(model any) error {
	rv := reflect.ValueOf(model)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T must be a non-nil pointer to a struct", enumfields.ErrUnaddressable, model)
	}

	stmt := &gorm.Statement{DB: db.db}
	if err := stmt.Parse(model); err != nil {
		return fmt.Errorf("%w: %s", enumfields.ErrMissingData, err)
	}

	ctx := context.Background()
	reloader := db.Reloader(model)
	for _, field := range stmt.Schema.Fields {
		s, ok := field.Serializer.(*EnumSerializer)
		if !ok || field.FieldType != attrType {
			continue
		}

		fv := field.ReflectValueOf(ctx, rv.Elem())
		if fv.Interface().(enumfields.Attr).Field() != nil {
			continue
		}

		ef, err := s.fieldFor(field)
		if err != nil {
			return err
		}

		fv.Set(reflect.ValueOf(ef.Bind(field.DBName, reloader)))
	}

	return nil
}

// Reloader returns an enumfields.Reloader selecting a single column
// of the record model points to, by primary key, back into model.
func (db *DB) Reloader(model any) enumfields.Reloader {
	return enumfields.ReloaderFunc(func(ctx context.Context, column string) error {
		stmt := &gorm.Statement{DB: db.db}
		if err := stmt.Parse(model); err != nil {
			return fmt.Errorf("%w: %s", enumfields.ErrMissingData, err)
		}

		pk := stmt.Schema.PrioritizedPrimaryField
		if pk == nil {
			return fmt.Errorf("%w: %T has no primary key", enumfields.ErrMissingData, model)
		}

		if _, zero := pk.ValueOf(ctx, reflect.ValueOf(model).Elem()); zero {
			return fmt.Errorf("%w: %T has no primary key set", enumfields.ErrMissingData, model)
		}

		err := db.db.Session(&gorm.Session{NewDB: true}).
			WithContext(ctx).
			Model(model).
			Select(column).
			First(model).
			Error
		switch {
		case err == nil:
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("%w: %T", enumfields.ErrNotFound, model)
		case errors.Is(err, enumfields.ErrInvalidValue):
			return err
		default:
			return fmt.Errorf("%w: %s", enumfields.ErrUnexpected, err)
		}
	})
}

// **************************************************************************
// HELPERS
// **************************************************************************

// unwrap converts any custom types that are troublesome for GORM into types it can handle.
//
// If unwrapping a parameter uncovers some error, unwrap returns the error.
// Notably, if a *DB is passed as a parameter,
// and that *DB is in an error state, that fact is surfaced.
func unwrap(args ...any) ([]any, error) {
	var err error
	res := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case *DB:
			gdb := v.DB()
			if gdb.Error != nil {
				err = errors.Join(err, gdb.Error)
			}
			res[i] = gdb

		case *enumfields.Member:
			if v == nil {
				res[i] = nil
				continue
			}
			res[i] = v.Value

		case enumfields.Attr:
			val, verr := v.Value()
			if verr != nil {
				err = errors.Join(err, verr)
			}
			res[i] = val

		case nil:
			res[i] = arg
			err = errors.Join(err, enumfields.ErrNotValid, errNilArg)

		default:
			res[i] = arg
		}
	}

	return res, err
}

package postgres

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/xy-planning-network/enumfields"
	"gorm.io/gorm/schema"
)

// SerializerName is the name the EnumSerializer is registered with GORM under:
//
//	type Shirt struct {
//		ID    uint
//		Color enumfields.Attr `gorm:"serializer:enum" enum:"app.colors.Color,kind=small-integer"`
//	}
const SerializerName = "enum"

var (
	attrType   = reflect.TypeOf(enumfields.Attr{})
	memberType = reflect.TypeOf((*enumfields.Member)(nil))

	_ schema.SerializerInterface = (*EnumSerializer)(nil)
)

func init() {
	RegisterSerializer(enumfields.DefaultRegistry)
}

// RegisterSerializer registers an EnumSerializer resolving enum tags against reg,
// replacing the one registered by default against [enumfields.DefaultRegistry].
func RegisterSerializer(reg *enumfields.Registry) {
	schema.RegisterSerializer(SerializerName, NewEnumSerializer(reg))
}

// An EnumSerializer converts between columns and model fields of type
// enumfields.Attr or *enumfields.Member.
//
// Every value read from a column goes through [*enumfields.Field.FromDB]
// and every value written through [*enumfields.Field.Prep],
// using the Field declared by the model field's enum tag.
type EnumSerializer struct {
	registry *enumfields.Registry

	// GORM copies the serializer value for every scan, so the cache is shared through a pointer.
	fields *sync.Map // *schema.Field => *enumfields.Field
}

// NewEnumSerializer constructs an EnumSerializer resolving enum tags against reg.
func NewEnumSerializer(reg *enumfields.Registry) *EnumSerializer {
	if reg == nil {
		reg = enumfields.DefaultRegistry
	}

	return &EnumSerializer{registry: reg, fields: new(sync.Map)}
}

// Scan implements schema.SerializerInterface.
func (s *EnumSerializer) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue any) error {
	ef, err := s.fieldFor(field)
	if err != nil {
		return err
	}

	target := field.ReflectValueOf(ctx, dst)

	var val reflect.Value
	switch field.FieldType {
	case attrType:
		// An Attr already bound keeps its Field and Reloader.
		if target.CanAddr() {
			if bound := target.Addr().Interface().(*enumfields.Attr); bound.Field() != nil {
				if err := bound.Set(dbValue); err != nil {
					return fmt.Errorf("scanning %s.%s: %w", field.Schema.Table, field.DBName, err)
				}

				return nil
			}
		}

		attr := ef.Bind(field.DBName, nil)
		if err := attr.Set(dbValue); err != nil {
			return fmt.Errorf("scanning %s.%s: %w", field.Schema.Table, field.DBName, err)
		}

		val = reflect.ValueOf(attr)

	case memberType:
		m, err := ef.FromDB(dbValue)
		if err != nil {
			return fmt.Errorf("scanning %s.%s: %w", field.Schema.Table, field.DBName, err)
		}

		val = reflect.ValueOf(m)

	default:
		return fmt.Errorf("%w: %s.%s is a %s, not an enumfields.Attr or *enumfields.Member", enumfields.ErrBadConfig, field.Schema.Name, field.Name, field.FieldType)
	}

	target.Set(val)

	return nil
}

// Value implements schema.SerializerInterface.
func (s *EnumSerializer) Value(ctx context.Context, field *schema.Field, dst reflect.Value, fieldValue any) (any, error) {
	ef, err := s.fieldFor(field)
	if err != nil {
		return nil, err
	}

	if attr, ok := fieldValue.(enumfields.Attr); ok {
		fieldValue = attr.EnumMember()
	}

	if m, ok := fieldValue.(*enumfields.Member); ok && m == nil {
		fieldValue = nil
	}

	val, err := ef.Prep(fieldValue)
	if err != nil {
		return nil, fmt.Errorf("writing %s.%s: %w", field.Schema.Table, field.DBName, err)
	}

	return val, nil
}

// fieldFor resolves, once, the enumfields.Field declared by field's enum tag.
func (s *EnumSerializer) fieldFor(field *schema.Field) (*enumfields.Field, error) {
	if s.fields != nil {
		if ef, ok := s.fields.Load(field); ok {
			return ef.(*enumfields.Field), nil
		}
	}

	tag, ok := field.Tag.Lookup(enumfields.TagName)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s has no %s tag", enumfields.ErrBadConfig, field.Schema.Name, field.Name, enumfields.TagName)
	}

	reg := s.registry
	if reg == nil {
		reg = enumfields.DefaultRegistry
	}

	ef, err := reg.ParseTag(tag)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", field.Schema.Name, field.Name, err)
	}

	if s.fields == nil {
		return ef, nil
	}

	actual, _ := s.fields.LoadOrStore(field, ef)

	return actual.(*enumfields.Field), nil
}

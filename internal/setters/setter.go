package setters

import (
	"reflect"

	"github.com/ygrebnov/errorc"

	"github.com/timecoach/instance/errors"
)

// Setter assigns a value of one accepted type to a named property of an instance.
type Setter interface {
	Name() string
	ValueType() reflect.Type
	ValueTypeName() string
	// Apply sets v on obj, which must be a non-nil pointer to the owning type.
	// An invalid v stands for a nil value.
	Apply(obj, v reflect.Value) error
	IsOfType(t reflect.Type) bool
	Accepts(t reflect.Type) bool
}

// Getter is implemented by setters that can also read their property back.
type Getter interface {
	Get(obj reflect.Value) reflect.Value
}

// setter is a typed setter built from a user function.
type setter struct {
	name      string
	valueType reflect.Type
	fn        func(obj, v reflect.Value) error
}

// New builds a Setter for property name on *T accepting values of type V.
// fn may return an error to refuse a value; it is reported as ErrSetProperty.
func New[T any, V any](name string, fn func(obj *T, value V) error) (Setter, error) {
	if name == "" || fn == nil {
		return nil, errorc.With(errors.ErrInvalidSetter, errorc.String(errors.ErrorFieldPropertyName, name))
	}

	// Capture the static type of V even when V is an interface.
	valueType := reflect.TypeOf((*V)(nil)).Elem()
	ownerType := reflect.TypeOf((*T)(nil))

	s := &setter{name: name, valueType: valueType}
	s.fn = func(obj, v reflect.Value) error {
		if !obj.IsValid() || obj.Type() != ownerType || obj.IsNil() {
			return errorc.With(
				errors.ErrSetProperty,
				errorc.String(errors.ErrorFieldPropertyName, name),
				errorc.String(errors.ErrorFieldTypeName, ownerType.Elem().String()),
			)
		}
		val, err := s.convert(v)
		if err != nil {
			return err
		}
		// A nil interface value fails a single-result assertion; the zero V is wanted.
		typed, _ := val.Interface().(V)
		if err = fn(obj.Interface().(*T), typed); err != nil {
			return errorc.With(
				errors.ErrSetProperty,
				errorc.String(errors.ErrorFieldPropertyName, name),
				errorc.String(errors.ErrorFieldTypeName, ownerType.Elem().String()),
				errorc.Error(errors.ErrorFieldCause, err),
			)
		}
		return nil
	}
	return s, nil
}

// convert copies v into a fresh value of the setter's type. An invalid v yields the zero value.
func (s *setter) convert(v reflect.Value) (reflect.Value, error) {
	out := reflect.New(s.valueType).Elem()
	if !v.IsValid() {
		if !Nillable(s.valueType) {
			return reflect.Value{}, mismatch(s.name, s.valueType, "nil")
		}
		return out, nil
	}
	if !v.Type().AssignableTo(s.valueType) {
		return reflect.Value{}, mismatch(s.name, s.valueType, v.Type().String())
	}
	out.Set(v)
	return out, nil
}

func (s *setter) Name() string {
	return s.name
}

func (s *setter) ValueType() reflect.Type {
	return s.valueType
}

func (s *setter) ValueTypeName() string {
	return s.valueType.String()
}

func (s *setter) Apply(obj, v reflect.Value) error {
	return s.fn(obj, v)
}

func (s *setter) IsOfType(t reflect.Type) bool {
	return s.valueType == t
}

func (s *setter) Accepts(t reflect.Type) bool {
	if t == nil {
		return Nillable(s.valueType)
	}
	return t.AssignableTo(s.valueType)
}

// fieldSetter writes an exported struct field found by index.
type fieldSetter struct {
	name      string
	index     []int
	fieldType reflect.Type
}

// NewField builds a Setter writing the struct field at index (as used by reflect.Value.FieldByIndex).
func NewField(name string, index []int, fieldType reflect.Type) (Setter, error) {
	if name == "" || len(index) == 0 || fieldType == nil {
		return nil, errorc.With(errors.ErrInvalidSetter, errorc.String(errors.ErrorFieldPropertyName, name))
	}
	return &fieldSetter{name: name, index: index, fieldType: fieldType}, nil
}

func (f *fieldSetter) Name() string {
	return f.name
}

func (f *fieldSetter) ValueType() reflect.Type {
	return f.fieldType
}

func (f *fieldSetter) ValueTypeName() string {
	return f.fieldType.String()
}

func (f *fieldSetter) Apply(obj, v reflect.Value) error {
	field, err := f.field(obj)
	if err != nil {
		return err
	}
	if !v.IsValid() {
		if !Nillable(f.fieldType) {
			return mismatch(f.name, f.fieldType, "nil")
		}
		field.Set(reflect.Zero(f.fieldType))
		return nil
	}
	if !v.Type().AssignableTo(f.fieldType) {
		return mismatch(f.name, f.fieldType, v.Type().String())
	}
	field.Set(v)
	return nil
}

func (f *fieldSetter) Get(obj reflect.Value) reflect.Value {
	field, err := f.field(obj)
	if err != nil {
		return reflect.Value{}
	}
	return field
}

func (f *fieldSetter) field(obj reflect.Value) (reflect.Value, error) {
	if !obj.IsValid() || obj.Kind() != reflect.Ptr || obj.IsNil() || obj.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, errorc.With(errors.ErrSetProperty, errorc.String(errors.ErrorFieldPropertyName, f.name))
	}
	field := obj.Elem().FieldByIndex(f.index)
	if !field.CanSet() {
		return reflect.Value{}, errorc.With(
			errors.ErrSetProperty,
			errorc.String(errors.ErrorFieldPropertyName, f.name),
			errorc.String(errors.ErrorFieldTypeName, obj.Elem().Type().String()),
		)
	}
	return field, nil
}

func (f *fieldSetter) IsOfType(t reflect.Type) bool {
	return f.fieldType == t
}

func (f *fieldSetter) Accepts(t reflect.Type) bool {
	if t == nil {
		return Nillable(f.fieldType)
	}
	return t.AssignableTo(f.fieldType)
}

// Nillable reports whether nil is a valid value of type t.
func Nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

func mismatch(name string, want reflect.Type, got string) error {
	return errorc.With(
		errors.ErrPropertyTypeMismatch,
		errorc.String(errors.ErrorFieldPropertyName, name),
		errorc.String(errors.ErrorFieldPropertyType, want.String()),
		errorc.String(errors.ErrorFieldValueType, got),
	)
}

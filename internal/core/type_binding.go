package core

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/ygrebnov/errorc"
	"go.uber.org/zap"

	"github.com/timecoach/instance/errors"
	"github.com/timecoach/instance/internal/setters"
)

// Factory returns a new non-nil pointer to the bound type.
type Factory func() (reflect.Value, error)

// Config carries everything a TypeBinding is built from.
type Config struct {
	Factory  Factory
	Setters  []setters.Setter
	Fields   bool
	Defaults bool
	Logger   *zap.Logger
}

// TypeBinding constructs values of one type and applies properties to them through its
// setter registry. It is immutable after NewTypeBinding and safe for concurrent use.
type TypeBinding struct {
	// typ is the type instances are created for; values handed out are *typ.
	typ      reflect.Type
	factory  Factory
	setters  *setters.Registry
	defaults bool
	logger   *zap.Logger
}

// NewTypeBinding creates a TypeBinding for typ. Explicit setters are registered first, so a
// discovered field never shadows a setter with the same property name.
func NewTypeBinding(typ reflect.Type, cfg Config) (*TypeBinding, error) {
	if typ == nil {
		return nil, errorc.With(errors.ErrConstruction, errorc.String(errors.ErrorFieldTypeName, "<nil>"))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tb := &TypeBinding{
		typ:      typ,
		factory:  cfg.Factory,
		setters:  setters.NewRegistry(typ.String()),
		defaults: cfg.Defaults,
		logger:   logger.With(zap.Stringer("type", typ)),
	}

	for _, s := range cfg.Setters {
		if err := tb.setters.Add(s); err != nil {
			return nil, err
		}
	}

	if cfg.Fields && typ.Kind() == reflect.Struct {
		fields, err := discoverFields(typ)
		if err != nil {
			return nil, err
		}
		for _, f := range fields {
			if tb.setters.Has(f.Name()) {
				continue
			}
			if err = tb.setters.Add(f); err != nil {
				return nil, err
			}
		}
	}

	return tb, nil
}

// Type returns the bound type.
func (tb *TypeBinding) Type() reflect.Type {
	return tb.typ
}

// New constructs a default-initialized instance and returns it as a pointer value.
func (tb *TypeBinding) New() (reflect.Value, error) {
	obj, err := tb.construct()
	if err != nil {
		tb.logger.Debug("construction failed", zap.Error(err))
		return reflect.Value{}, err
	}

	if tb.defaults && obj.Elem().Kind() == reflect.Struct {
		if err = tb.SetDefaultsStruct(obj.Elem()); err != nil {
			tb.logger.Debug("defaults failed", zap.Error(err))
			return reflect.Value{}, err
		}
	}

	tb.logger.Debug("instance constructed")
	return obj, nil
}

// NewWith constructs an instance and applies props onto it. On any failure the partially
// built instance is dropped and an invalid value is returned.
func (tb *TypeBinding) NewWith(props map[string]any) (reflect.Value, error) {
	obj, err := tb.New()
	if err != nil {
		return reflect.Value{}, err
	}
	if err = tb.Apply(obj, props); err != nil {
		return reflect.Value{}, err
	}
	return obj, nil
}

// Apply assigns props to obj in sorted key order and stops at the first failure.
func (tb *TypeBinding) Apply(obj reflect.Value, props map[string]any) error {
	if len(props) == 0 {
		return nil
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		v := reflect.ValueOf(props[name])
		s, err := tb.setters.Get(name, v)
		if err != nil {
			tb.logger.Debug("property rejected", zap.String("property", name), zap.Error(err))
			return err
		}
		if err = s.Apply(obj, v); err != nil {
			tb.logger.Debug("property rejected", zap.String("property", name), zap.Error(err))
			return err
		}
		tb.logger.Debug("property applied", zap.String("property", name), zap.Stringer("value_type", s.ValueType()))
	}
	return nil
}

// PropertyNames returns the sorted names of all settable properties.
func (tb *TypeBinding) PropertyNames() []string {
	return tb.setters.Names()
}

// PropertyTypes returns the value types accepted by property name, in declaration order.
func (tb *TypeBinding) PropertyTypes(name string) []reflect.Type {
	overloads, ok := tb.setters.Lookup(name)
	if !ok {
		return nil
	}
	types := make([]reflect.Type, 0, len(overloads))
	for _, s := range overloads {
		types = append(types, s.ValueType())
	}
	return types
}

// Property reads a property of obj back when one of its overloads is field-backed.
func (tb *TypeBinding) Property(obj reflect.Value, name string) (reflect.Value, bool) {
	overloads, ok := tb.setters.Lookup(name)
	if !ok {
		return reflect.Value{}, false
	}
	for _, s := range overloads {
		if g, isGetter := s.(setters.Getter); isGetter {
			if v := g.Get(obj); v.IsValid() {
				return v, true
			}
		}
	}
	return reflect.Value{}, false
}

func (tb *TypeBinding) construct() (obj reflect.Value, err error) {
	if tb.factory == nil {
		if tb.typ.Kind() == reflect.Interface {
			return reflect.Value{}, errorc.With(
				errors.ErrConstruction,
				errorc.String(errors.ErrorFieldTypeName, tb.typ.String()),
				errorc.String(errors.ErrorFieldCause, "interface type has no factory"),
			)
		}
		return reflect.New(tb.typ), nil
	}

	defer func() {
		if r := recover(); r != nil {
			obj = reflect.Value{}
			err = errorc.With(
				errors.ErrConstruction,
				errorc.String(errors.ErrorFieldTypeName, tb.typ.String()),
				errorc.String(errors.ErrorFieldCause, fmt.Sprintf("factory panicked: %v", r)),
			)
		}
	}()

	obj, err = tb.factory()
	if err != nil {
		return reflect.Value{}, errorc.With(
			errors.ErrConstruction,
			errorc.String(errors.ErrorFieldTypeName, tb.typ.String()),
			errorc.Error(errors.ErrorFieldCause, err),
		)
	}
	if !obj.IsValid() || obj.Kind() != reflect.Ptr || obj.IsNil() {
		return reflect.Value{}, errorc.With(
			errors.ErrConstruction,
			errorc.String(errors.ErrorFieldTypeName, tb.typ.String()),
			errorc.String(errors.ErrorFieldCause, "factory returned nil"),
		)
	}
	return obj, nil
}

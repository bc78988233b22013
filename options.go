package instance

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/timecoach/instance/internal/core"
	"github.com/timecoach/instance/internal/setters"
)

// Option configures a Binding at construction time.
type Option[T any] func(*bindingConfig[T]) error

type bindingConfig[T any] struct {
	factory  func() (*T, error)
	setters  []setters.Setter
	fields   bool
	defaults bool
	logger   *zap.Logger
}

func (c *bindingConfig[T]) coreConfig() core.Config {
	cfg := core.Config{
		Setters:  c.setters,
		Fields:   c.fields,
		Defaults: c.defaults,
		Logger:   c.logger,
	}
	if c.factory != nil {
		factory := c.factory
		cfg.Factory = func() (reflect.Value, error) {
			obj, err := factory()
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(obj), nil
		}
	}
	return cfg
}

// WithFactory constructs instances through fn instead of new(T). It is required for
// interface types and for types whose zero value is not usable.
func WithFactory[T any](fn func() (*T, error)) Option[T] {
	return func(c *bindingConfig[T]) error {
		c.factory = fn
		return nil
	}
}

// WithSetter registers fn as the setter of property name for values of type V.
// Several setters may share a name as long as their value types differ.
func WithSetter[T any, V any](name string, fn func(obj *T, value V)) Option[T] {
	return func(c *bindingConfig[T]) error {
		var checked func(*T, V) error
		if fn != nil {
			checked = func(obj *T, value V) error {
				fn(obj, value)
				return nil
			}
		}
		return addSetter(c, name, checked)
	}
}

// WithCheckedSetter is WithSetter for setters that can refuse a value.
// The returned error is reported as ErrSetProperty.
func WithCheckedSetter[T any, V any](name string, fn func(obj *T, value V) error) Option[T] {
	return func(c *bindingConfig[T]) error {
		return addSetter(c, name, fn)
	}
}

func addSetter[T any, V any](c *bindingConfig[T], name string, fn func(*T, V) error) error {
	s, err := setters.New[T, V](name, fn)
	if err != nil {
		return err
	}
	c.setters = append(c.setters, s)
	return nil
}

// WithFields exposes every exported field of T as a property. The property name is the
// `prop` tag or the field name with a lower-case first letter; `prop:"-"` hides a field.
// Explicit setters take precedence over fields with the same name.
func WithFields[T any]() Option[T] {
	return func(c *bindingConfig[T]) error {
		c.fields = true
		return nil
	}
}

// WithDefaults fills zero fields from `default` tags after construction and before
// properties are applied.
func WithDefaults[T any]() Option[T] {
	return func(c *bindingConfig[T]) error {
		c.defaults = true
		return nil
	}
}

// WithLogger sets the logger used for debug events. The default discards everything.
func WithLogger[T any](logger *zap.Logger) Option[T] {
	return func(c *bindingConfig[T]) error {
		c.logger = logger
		return nil
	}
}

package instance

import (
	"reflect"

	"github.com/timecoach/instance/internal/core"
)

// Binding is the class descriptor for T: how to construct a T and which properties
// can be set on it by name. A Binding is immutable and safe for concurrent use.
type Binding[T any] struct {
	// tb holds the type-level metadata for T.
	tb typeBinding
}

type typeBinding interface {
	Type() reflect.Type
	New() (reflect.Value, error)
	NewWith(props map[string]any) (reflect.Value, error)
	PropertyNames() []string
	PropertyTypes(name string) []reflect.Type
	Property(obj reflect.Value, name string) (reflect.Value, bool)
}

func newTypeBinding(typ reflect.Type, cfg core.Config) (typeBinding, error) {
	return core.NewTypeBinding(typ, cfg)
}

// NewBinding builds a Binding for T from opts. Without options, T is allocated with new(T)
// and has no settable properties; see WithSetter and WithFields.
func NewBinding[T any](opts ...Option[T]) (*Binding[T], error) {
	cfg := &bindingConfig[T]{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	// The zero value of *T is never dereferenced.
	var zero *T
	typ := reflect.TypeOf(zero).Elem()

	tb, err := newTypeBinding(typ, cfg.coreConfig())
	if err != nil {
		return nil, err
	}
	return &Binding[T]{tb: tb}, nil
}

// New constructs a default-initialized T.
func (b *Binding[T]) New() (*T, error) {
	v, err := b.tb.New()
	if err != nil {
		return nil, err
	}
	return v.Interface().(*T), nil
}

// NewWith constructs a T and applies props in sorted name order. The first failing property
// aborts the call; no partially populated instance is returned.
func (b *Binding[T]) NewWith(props Properties) (*T, error) {
	v, err := b.tb.NewWith(props)
	if err != nil {
		return nil, err
	}
	return v.Interface().(*T), nil
}

// PropertyNames returns the sorted names of the settable properties of T.
func (b *Binding[T]) PropertyNames() []string {
	return b.tb.PropertyNames()
}

// PropertyTypes returns the value types property name accepts, in declaration order.
func (b *Binding[T]) PropertyTypes(name string) []reflect.Type {
	return b.tb.PropertyTypes(name)
}

// Property reads a field-backed property of obj. Properties that only have
// explicit setters cannot be read and report false.
func (b *Binding[T]) Property(obj *T, name string) (any, bool) {
	if obj == nil {
		return nil, false
	}
	v, ok := b.tb.Property(reflect.ValueOf(obj), name)
	if !ok {
		return nil, false
	}
	return v.Interface(), true
}

// Package instance builds test fixtures: it constructs a value of a given type and
// optionally assigns a bag of named properties to it.
//
//	c, err := instance.CreateWith[Counter](instance.Properties{"count": 5})
//
// Types are described by a Binding. Unregistered types get a binding that exposes their
// exported fields; Register installs a binding with explicit setters or a factory.
package instance

import (
	"reflect"
	"sync"
)

var bindings sync.Map // map[reflect.Type]any, values are *Binding[T]

// Create returns a new default-initialized T.
func Create[T any]() (*T, error) {
	b, err := bindingFor[T]()
	if err != nil {
		return nil, err
	}
	return b.New()
}

// CreateWith returns a new T with every entry of props assigned to it. An empty or nil
// props behaves like Create. On failure the result is nil.
func CreateWith[T any](props Properties) (*T, error) {
	b, err := bindingFor[T]()
	if err != nil {
		return nil, err
	}
	return b.NewWith(props)
}

// Register installs the binding Create and CreateWith use for T, replacing any previous one.
func Register[T any](opts ...Option[T]) error {
	b, err := NewBinding[T](opts...)
	if err != nil {
		return err
	}
	bindings.Store(typeOf[T](), b)
	return nil
}

// Unregister drops the binding installed for T. Later calls fall back to field discovery.
func Unregister[T any]() {
	bindings.Delete(typeOf[T]())
}

func bindingFor[T any]() (*Binding[T], error) {
	typ := typeOf[T]()
	if b, ok := bindings.Load(typ); ok {
		return b.(*Binding[T]), nil
	}

	b, err := NewBinding[T](WithFields[T]())
	if err != nil {
		return nil, err
	}
	actual, _ := bindings.LoadOrStore(typ, b)
	return actual.(*Binding[T]), nil
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

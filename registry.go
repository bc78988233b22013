package instance

import (
	"reflect"
	"slices"
	"sync"

	"github.com/ygrebnov/errorc"
	"go.uber.org/zap"

	"github.com/timecoach/instance/errors"
)

// Registry maps descriptor names to bindings, for callers that only know the type
// by name at run time (fixture files, table-driven tests).
type Registry struct {
	mu       sync.RWMutex
	bindings map[string]typeBinding
	logger   *zap.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used for registry events.
func WithRegistryLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry returns an empty Registry. Without WithRegistryLogger it logs nowhere.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		bindings: make(map[string]typeBinding),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterType adds T to r under name. The binding is built from opts as in NewBinding;
// a registry binding carries r's logger unless opts set another one.
func RegisterType[T any](r *Registry, name string, opts ...Option[T]) error {
	if name == "" {
		return errorc.With(errors.ErrInvalidDescriptor, errorc.String(errors.ErrorFieldTypeName, typeOf[T]().String()))
	}

	b, err := NewBinding[T](append([]Option[T]{WithLogger[T](r.logger)}, opts...)...)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.bindings[name]; ok {
		return errorc.With(
			errors.ErrDuplicateDescriptor,
			errorc.String(errors.ErrorFieldTypeName, name),
			errorc.String(errors.ErrorFieldCause, "already bound to "+existing.Type().String()),
		)
	}
	r.bindings[name] = b.tb
	r.logger.Debug("type registered", zap.String("descriptor", name), zap.Stringer("type", b.tb.Type()))
	return nil
}

// Create returns a new instance of the type registered under name, as a pointer.
func (r *Registry) Create(name string) (any, error) {
	tb, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	v, err := tb.New()
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// CreateWith returns a new instance of the type registered under name with props applied.
func (r *Registry) CreateWith(name string, props Properties) (any, error) {
	tb, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	v, err := tb.NewWith(props)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// Names returns the sorted descriptor names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.bindings))
	for name := range r.bindings {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// PropertyTypes returns the value types accepted by property on the type registered under name.
func (r *Registry) PropertyTypes(name, property string) ([]reflect.Type, error) {
	tb, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	types := tb.PropertyTypes(property)
	if len(types) == 0 {
		return nil, errorc.With(
			errors.ErrPropertyNotFound,
			errorc.String(errors.ErrorFieldTypeName, tb.Type().String()),
			errorc.String(errors.ErrorFieldPropertyName, property),
		)
	}
	return types, nil
}

func (r *Registry) lookup(name string) (typeBinding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tb, ok := r.bindings[name]
	if !ok {
		return nil, errorc.With(
			errors.ErrConstruction,
			errorc.String(errors.ErrorFieldTypeName, name),
			errorc.String(errors.ErrorFieldCause, "unknown descriptor"),
		)
	}
	return tb, nil
}

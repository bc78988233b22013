package setters

import (
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/ygrebnov/errorc"

	"github.com/timecoach/instance/errors"
)

// Registry is a registry of property setters for one owner type.
type Registry struct {
	mu      sync.RWMutex
	owner   string
	setters map[string][]Setter // property name -> overloads by value type
}

// NewRegistry creates an empty Registry. owner names the type in error messages.
func NewRegistry(owner string) *Registry {
	return &Registry{
		owner:   owner,
		setters: make(map[string][]Setter),
	}
}

func (r *Registry) Add(s Setter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s == nil {
		return nil
	}

	name := s.Name()
	existing, exists := r.setters[name]
	if exists {
		// Prevent duplicate overloads for the same value type.
		for _, es := range existing {
			if es.IsOfType(s.ValueType()) {
				return errorc.With(
					errors.ErrDuplicateSetter,
					errorc.String(errors.ErrorFieldTypeName, r.owner),
					errorc.String(errors.ErrorFieldPropertyName, name),
					errorc.String(errors.ErrorFieldPropertyType, s.ValueTypeName()),
				)
			}
		}
	}

	r.setters[name] = append(r.setters[name], s)
	return nil
}

// Has reports whether any setter is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.setters[name]
	return ok
}

// Get returns the best-matching overload of property `name` for the given value.
// Selection strategy:
//  1. Prefer exact type match (v.Type() == valueType).
//  2. Otherwise accept AssignableTo matches (interfaces, unnamed types), preferring the first declared.
//  3. An invalid v (nil) matches the first overload whose type admits nil.
//  4. If the name is unknown, return ErrPropertyNotFound.
//  5. If no overload matches, return ErrPropertyTypeMismatch listing available overload types.
func (r *Registry) Get(name string, v reflect.Value) (Setter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	setters, ok := r.setters[name]
	if !ok || len(setters) == 0 {
		return nil, errorc.With(
			errors.ErrPropertyNotFound,
			errorc.String(errors.ErrorFieldTypeName, r.owner),
			errorc.String(errors.ErrorFieldPropertyName, name),
		)
	}

	var valueType reflect.Type
	valueTypeName := "nil"
	if v.IsValid() {
		valueType = v.Type()
		valueTypeName = valueType.String()
	}

	var assigns []Setter
	for _, s := range setters {
		if valueType != nil && s.IsOfType(valueType) {
			return s, nil
		}
		if s.Accepts(valueType) {
			assigns = append(assigns, s)
		}
	}
	if len(assigns) >= 1 {
		return assigns[0], nil
	}

	return nil, errorc.With(
		errors.ErrPropertyTypeMismatch,
		errorc.String(errors.ErrorFieldTypeName, r.owner),
		errorc.String(errors.ErrorFieldPropertyName, name),
		errorc.String(errors.ErrorFieldValueType, valueTypeName),
		errorc.String(errors.ErrorFieldAvailableTypes, strings.Join(getValueTypesNames(setters), ", ")),
	)
}

// Lookup returns the overloads of property name in declaration order.
func (r *Registry) Lookup(name string) ([]Setter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	setters, ok := r.setters[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(setters), true
}

// Names returns the sorted property names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.setters))
	for name := range r.setters {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

func getValueTypesNames(setters []Setter) []string {
	var names []string
	for _, s := range setters {
		if name := s.ValueTypeName(); name != "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	return names
}

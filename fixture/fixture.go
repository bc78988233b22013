// Package fixture loads named property bags from YAML and builds instances from them
// through an instance.Registry.
//
//	fixtures:
//	  pausedTimer:
//	    type: LocalTimerState
//	    properties:
//	      state: pause
//	      elapsed: 90s
package fixture

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/ygrebnov/errorc"
	"gopkg.in/yaml.v3"

	"github.com/timecoach/instance"
	"github.com/timecoach/instance/errors"
	"github.com/timecoach/instance/internal/setters"
)

// Set is a parsed collection of fixtures keyed by fixture name.
type Set struct {
	fixtures map[string]fixture
}

type document struct {
	Fixtures map[string]fixture `yaml:"fixtures"`
}

type fixture struct {
	Type       string               `yaml:"type"`
	Properties map[string]yaml.Node `yaml:"properties"`
}

// Load parses fixtures from r. An empty document yields an empty Set.
func Load(r io.Reader) (*Set, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errorc.With(errors.ErrFixtureParse, errorc.Error(errors.ErrorFieldCause, err))
	}

	for name, f := range doc.Fixtures {
		if f.Type == "" {
			return nil, errorc.With(
				errors.ErrFixtureParse,
				errorc.String(errors.ErrorFieldFixtureName, name),
				errorc.String(errors.ErrorFieldCause, "missing type"),
			)
		}
	}

	if doc.Fixtures == nil {
		doc.Fixtures = make(map[string]fixture)
	}
	return &Set{fixtures: doc.Fixtures}, nil
}

// LoadFile parses fixtures from the file at path.
func LoadFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errorc.With(errors.ErrFixtureParse, errorc.Error(errors.ErrorFieldCause, err))
	}
	defer f.Close()

	return Load(f)
}

// Names returns the sorted fixture names.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.fixtures))
	for name := range s.fixtures {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Type returns the descriptor name fixture name builds.
func (s *Set) Type(name string) (string, bool) {
	f, ok := s.fixtures[name]
	return f.Type, ok
}

// Build creates the instance described by fixture name. Each YAML value is decoded into the
// first type its property accepts that decodes cleanly.
func (s *Set) Build(reg *instance.Registry, name string) (any, error) {
	f, ok := s.fixtures[name]
	if !ok {
		return nil, errorc.With(errors.ErrFixtureNotFound, errorc.String(errors.ErrorFieldFixtureName, name))
	}

	props := make(instance.Properties, len(f.Properties))
	for _, property := range sortedKeys(f.Properties) {
		types, err := reg.PropertyTypes(f.Type, property)
		if err != nil {
			return nil, err
		}
		node := f.Properties[property]
		value, err := decode(&node, types)
		if err != nil {
			return nil, errorc.With(
				errors.ErrPropertyTypeMismatch,
				errorc.String(errors.ErrorFieldFixtureName, name),
				errorc.String(errors.ErrorFieldTypeName, f.Type),
				errorc.String(errors.ErrorFieldPropertyName, property),
				errorc.String(errors.ErrorFieldAvailableTypes, typeNames(types)),
				errorc.Error(errors.ErrorFieldCause, err),
			)
		}
		props[property] = value
	}

	return reg.CreateWith(f.Type, props)
}

// decode tries each candidate type in order and returns the first successful decoding.
// A YAML null is returned as nil when some candidate admits nil, and refused otherwise.
// String kinds only take !!str scalars, so `name: 5` is refused just as `count: "5"` is.
func decode(node *yaml.Node, types []reflect.Type) (any, error) {
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		for _, t := range types {
			if setters.Nillable(t) {
				return nil, nil
			}
		}
		return nil, stderrors.New("null for a property that does not accept nil")
	}

	var firstErr error
	for _, t := range types {
		if t.Kind() == reflect.String && node.Kind == yaml.ScalarNode && node.ShortTag() != "!!str" {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s scalar %q does not decode into %s", node.ShortTag(), node.Value, t)
			}
			continue
		}
		out := reflect.New(t)
		err := node.Decode(out.Interface())
		if err == nil {
			return out.Elem().Interface(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = stderrors.New("no candidate types")
	}
	return nil, firstErr
}

func sortedKeys(m map[string]yaml.Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func typeNames(types []reflect.Type) string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}

package instance

import "slices"

// Properties maps a property name to the value assigned after construction.
type Properties map[string]any

// Names returns the property names in the order they are applied.
func (p Properties) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

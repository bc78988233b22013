package core

import (
	"reflect"
	"slices"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/timecoach/instance/constants"
	"github.com/timecoach/instance/internal/setters"
)

// fieldInfo describes one property discovered on a struct type.
type fieldInfo struct {
	name  string
	index []int
	typ   reflect.Type
}

var fieldsCache sync.Map // map[reflect.Type][]fieldInfo

// discoverFields returns a field setter for every exported field of typ.
func discoverFields(typ reflect.Type) ([]setters.Setter, error) {
	infos := cachedFields(typ)
	out := make([]setters.Setter, 0, len(infos))
	for _, info := range infos {
		s, err := setters.NewField(info.name, info.index, info.typ)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// cachedFields returns the walked fields of typ. Struct layouts and tags are static
// for a compiled type, so the walk runs at most once per type.
func cachedFields(typ reflect.Type) []fieldInfo {
	if v, ok := fieldsCache.Load(typ); ok {
		return v.([]fieldInfo)
	}
	infos := walkFields(typ)
	fieldsCache.Store(typ, infos)
	return infos
}

// walkFields lists exported fields one embedding depth at a time. Fields of embedded
// structs are promoted; a name found at a shallower depth wins, and a name found more
// than once at the same depth is ambiguous and dropped, as Go does for selectors.
func walkFields(typ reflect.Type) []fieldInfo {
	type level struct {
		typ   reflect.Type
		index []int
	}

	var out []fieldInfo
	seen := make(map[string]bool)
	visited := make(map[reflect.Type]bool)
	current := []level{{typ: typ}}

	for len(current) > 0 {
		var (
			next       []level
			order      []string
			candidates = make(map[string][]fieldInfo)
		)

		for _, cur := range current {
			if visited[cur.typ] {
				continue
			}
			for i := 0; i < cur.typ.NumField(); i++ {
				field := cur.typ.Field(i)
				tag := field.Tag.Get(constants.TagProperty)
				if tag == constants.TagSkip {
					continue
				}
				index := append(slices.Clone(cur.index), i)

				if field.Anonymous && tag == "" && field.Type.Kind() == reflect.Struct {
					next = append(next, level{typ: field.Type, index: index})
					continue
				}
				// Skip unexported fields
				if !field.IsExported() {
					continue
				}

				name := tag
				if name == "" {
					name = propertyName(field.Name)
				}
				if seen[name] {
					continue
				}
				if _, ok := candidates[name]; !ok {
					order = append(order, name)
				}
				candidates[name] = append(candidates[name], fieldInfo{name: name, index: index, typ: field.Type})
			}
		}

		// Marked after the depth so a type embedded twice at one depth counts twice.
		for _, cur := range current {
			visited[cur.typ] = true
		}
		for _, name := range order {
			seen[name] = true
			if found := candidates[name]; len(found) == 1 {
				out = append(out, found[0])
			}
		}
		current = next
	}
	return out
}

// propertyName lower-cases the first rune of a Go field name: Count -> count.
func propertyName(fieldName string) string {
	r, size := utf8.DecodeRuneInString(fieldName)
	if r == utf8.RuneError {
		return fieldName
	}
	return string(unicode.ToLower(r)) + fieldName[size:]
}

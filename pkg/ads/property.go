package ads

import (
	"sort"
	"sync"
)

// PropertyKind selects the coercion applied to a property during hydration
// and serialization.
type PropertyKind int

const (
	// KindPlain passes values through unchanged.
	KindPlain PropertyKind = iota
	// KindTime parses ISO-8601 timestamps.
	KindTime
	// KindBool coerces "true"/"false", 0/1 and native booleans.
	KindBool
)

// String implements fmt.Stringer.
func (k PropertyKind) String() string {
	switch k {
	case KindTime:
		return "time"
	case KindBool:
		return "bool"
	default:
		return "plain"
	}
}

// Property describes one attribute of a resource.
type Property struct {
	Name     string       `json:"name"      yaml:"name"`
	Kind     PropertyKind `json:"kind"      yaml:"kind"`
	ReadOnly bool         `json:"read_only" yaml:"read_only"`
}

// Plain declares a pass-through property.
func Plain(name string) Property {
	return Property{Name: name, Kind: KindPlain}
}

// Time declares a timestamp property.
func Time(name string) Property {
	return Property{Name: name, Kind: KindTime}
}

// Bool declares a boolean property.
func Bool(name string) Property {
	return Property{Name: name, Kind: KindBool}
}

// Immutable returns a copy of the property marked read-only.
func (p Property) Immutable() Property {
	p.ReadOnly = true

	return p
}

// Schema is the ordered property table of one resource type.
type Schema struct {
	name  string
	props []Property
	index map[string]int
}

// NewSchema builds a schema from the given declarations.
func NewSchema(name string, props ...Property) *Schema {
	schema := &Schema{
		name:  name,
		props: make([]Property, 0, len(props)),
		index: make(map[string]int, len(props)),
	}

	for _, prop := range props {
		schema.Declare(prop)
	}

	return schema
}

// Name returns the resource type name.
func (s *Schema) Name() string {
	return s.name
}

// Declare registers a property. Declaring an existing name overwrites it in
// place, keeping its original position.
func (s *Schema) Declare(prop Property) {
	if i, ok := s.index[prop.Name]; ok {
		s.props[i] = prop

		return
	}

	s.index[prop.Name] = len(s.props)
	s.props = append(s.props, prop)
}

// Properties returns the declared properties in declaration order.
func (s *Schema) Properties() []Property {
	out := make([]Property, len(s.props))
	copy(out, s.props)

	return out
}

// Writable returns the properties that are not read-only.
func (s *Schema) Writable() []Property {
	out := make([]Property, 0, len(s.props))

	for _, prop := range s.props {
		if !prop.ReadOnly {
			out = append(out, prop)
		}
	}

	return out
}

// Lookup returns the property with the given name.
func (s *Schema) Lookup(name string) (Property, bool) {
	i, ok := s.index[name]
	if !ok {
		return Property{}, false
	}

	return s.props[i], true
}

// Names returns the property names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.props))
	for i, prop := range s.props {
		names[i] = prop.Name
	}

	return names
}

var registry = struct {
	sync.RWMutex
	schemas map[string]*Schema
}{schemas: make(map[string]*Schema)}

// RegisterSchema adds a schema to the package registry and returns it.
func RegisterSchema(schema *Schema) *Schema {
	registry.Lock()
	defer registry.Unlock()

	registry.schemas[schema.name] = schema

	return schema
}

// LookupSchema returns a registered schema by resource name.
func LookupSchema(name string) (*Schema, bool) {
	registry.RLock()
	defer registry.RUnlock()

	schema, ok := registry.schemas[name]

	return schema, ok
}

// Schemas returns all registered schemas sorted by name.
func Schemas() []*Schema {
	registry.RLock()
	defer registry.RUnlock()

	out := make([]*Schema, 0, len(registry.schemas))
	for _, schema := range registry.schemas {
		out = append(out, schema)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })

	return out
}

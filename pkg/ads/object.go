package ads

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrUnknownProperty  = errors.New("unknown property")
	ErrReadOnlyProperty = errors.New("property is read-only")
	ErrNotLoaded        = errors.New("resource not loaded")
)

// Object holds the property values of one resource instance.
type Object struct {
	schema *Schema
	values map[string]any
}

// NewObject creates an empty object for the schema.
func NewObject(schema *Schema) Object {
	return Object{
		schema: schema,
		values: make(map[string]any, len(schema.props)),
	}
}

// Schema returns the schema the object was built from.
func (o *Object) Schema() *Schema {
	return o.schema
}

// Hydrate populates the object from a decoded API object, applying the
// coercion of each declared property. Unknown fields are ignored and missing
// fields leave the property unset.
func (o *Object) Hydrate(data map[string]any) {
	if o.values == nil {
		o.values = make(map[string]any, len(o.schema.props))
	}

	for _, prop := range o.schema.props {
		raw, present := data[prop.Name]

		var value any

		switch prop.Kind {
		case KindTime:
			if s, ok := raw.(string); ok && s != "" {
				if t, ok := parseTime(s); ok {
					value = t
				}
			}
		case KindBool:
			if present && raw != nil {
				if b, ok := coerceBool(raw); ok {
					value = b
				}
			}
		case KindPlain:
		}

		if value == nil {
			value = raw
		}

		if !present {
			delete(o.values, prop.Name)

			continue
		}

		o.values[prop.Name] = value
	}
}

// Serialize returns the flat parameter mapping of every declared property
// that carries a value. Times are formatted as RFC 3339 with sub-second
// precision kept.
func (o *Object) Serialize() map[string]any {
	return o.serialize(o.schema.props)
}

// SerializeWritable is Serialize restricted to writable properties.
func (o *Object) SerializeWritable() map[string]any {
	return o.serialize(o.schema.Writable())
}

func (o *Object) serialize(props []Property) map[string]any {
	params := make(map[string]any, len(props))

	for _, prop := range props {
		value, ok := o.values[prop.Name]
		if !ok || isEmpty(value) {
			continue
		}

		switch prop.Kind {
		case KindTime:
			if t, ok := coerceTime(value); ok {
				params[prop.Name] = t.Format(time.RFC3339Nano)

				continue
			}
		case KindBool:
			b, ok := coerceBool(value)
			if !ok {
				b = true
			}

			params[prop.Name] = b

			continue
		case KindPlain:
		}

		if joined, ok := joinSequence(value); ok {
			params[prop.Name] = joined

			continue
		}

		params[prop.Name] = value
	}

	return params
}

// Get returns the raw value of a property.
func (o *Object) Get(name string) (any, bool) {
	value, ok := o.values[name]

	return value, ok
}

// Set assigns a writable property.
func (o *Object) Set(name string, value any) error {
	prop, ok := o.schema.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownProperty, o.schema.name, name)
	}

	if prop.ReadOnly {
		return fmt.Errorf("%w: %s.%s", ErrReadOnlyProperty, o.schema.name, name)
	}

	o.set(name, value)

	return nil
}

func (o *Object) set(name string, value any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}

	o.values[name] = value
}

// String returns a property rendered as a string.
func (o *Object) String(name string) string {
	return stringify(o.values[name])
}

// Bool returns a property coerced to a boolean.
func (o *Object) Bool(name string) bool {
	b, _ := coerceBool(o.values[name])

	return b
}

// Time returns a timestamp property, or the zero time.
func (o *Object) Time(name string) time.Time {
	t, _ := coerceTime(o.values[name])

	return t
}

// Int64 returns a numeric property.
func (o *Object) Int64(name string) (int64, bool) {
	return coerceInt64(o.values[name])
}

// Strings returns a sequence property as strings.
func (o *Object) Strings(name string) []string {
	switch v := o.values[name].(type) {
	case nil:
		return nil
	case []string:
		return v
	case []any:
		out := make([]string, len(v))
		for i, item := range v {
			out[i] = stringify(item)
		}

		return out
	case string:
		if v == "" {
			return nil
		}

		return strings.Split(v, ",")
	default:
		return []string{stringify(v)}
	}
}

// ID returns the id property.
func (o *Object) ID() string {
	return o.String("id")
}

// RequireID returns the id or ErrNotLoaded when the object has none.
func (o *Object) RequireID() (string, error) {
	id := o.ID()
	if id == "" {
		return "", fmt.Errorf("%w: %s has no id", ErrNotLoaded, o.schema.name)
	}

	return id, nil
}

// Values returns a copy of the property values.
func (o *Object) Values() map[string]any {
	out := make(map[string]any, len(o.values))
	for k, v := range o.values {
		out[k] = v
	}

	return out
}

// MarshalJSON encodes the property values.
func (o Object) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(o.values)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", o.schema.name, err)
	}

	return data, nil
}

// MarshalYAML encodes the property values.
func (o Object) MarshalYAML() (interface{}, error) {
	return o.values, nil
}

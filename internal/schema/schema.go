// Package schema models task parameters as a closed set of named, typed
// fields validated before any remote call is made.
package schema

import (
	"fmt"
	"slices"

	"dario.cat/mergo"
)

// Type is the declared type of a field value.
type Type string

// Field types.
const (
	String Type = "str"
	Int    Type = "int"
	Float  Type = "float"
	Bool   Type = "bool"
	Dict   Type = "dict"
	List   Type = "list"
)

// Field declares one recognized parameter.
type Field struct {
	Type     Type
	Required bool
	// Choices restricts a string field to an enumerated set.
	Choices []string
	// Default is merged in when the parameter is not supplied.
	Default any
	// Elem declares the element type of a List field.
	Elem *Field
	// Fields declares the sub-schema of a Dict field. A Dict with no
	// sub-schema accepts free-form string keys (used for tags).
	Fields Schema
}

// Schema is the closed set of parameters a kind recognizes.
type Schema map[string]Field

// Validate checks params against the schema and returns a normalized
// payload with defaults applied. Unknown parameters, type mismatches,
// missing required fields, and out-of-range choices all fail with a
// *ValidationError before anything touches the network.
func (s Schema) Validate(params map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(params))

	for name, value := range params {
		field, ok := s[name]
		if !ok {
			return nil, &ValidationError{Field: name, Reason: "unknown parameter"}
		}
		if value == nil {
			continue
		}
		normalized, err := field.validate(name, value)
		if err != nil {
			return nil, err
		}
		out[name] = normalized
	}

	for name, field := range s {
		if field.Required {
			if _, ok := out[name]; !ok {
				return nil, &ValidationError{Field: name, Reason: "required parameter is missing"}
			}
		}
	}

	if err := mergo.Merge(&out, s.defaults()); err != nil {
		return nil, fmt.Errorf("schema: merging defaults: %w", err)
	}
	return out, nil
}

// defaults collects the declared default values, including nested dicts.
func (s Schema) defaults() map[string]any {
	d := make(map[string]any)
	for name, field := range s {
		if field.Default != nil {
			d[name] = field.Default
		}
	}
	return d
}

func (f Field) validate(name string, value any) (any, error) {
	switch f.Type {
	case String:
		str, ok := value.(string)
		if !ok {
			return nil, typeError(name, "string", value)
		}
		if len(f.Choices) > 0 && !slices.Contains(f.Choices, str) {
			return nil, &ValidationError{Field: name, Reason: fmt.Sprintf("value %q is not one of %v", str, f.Choices)}
		}
		return str, nil

	case Int:
		switch n := value.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case float64:
			if n == float64(int(n)) {
				return int(n), nil
			}
		}
		return nil, typeError(name, "integer", value)

	case Float:
		switch n := value.(type) {
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case float64:
			return n, nil
		}
		return nil, typeError(name, "float", value)

	case Bool:
		b, ok := value.(bool)
		if !ok {
			return nil, typeError(name, "bool", value)
		}
		return b, nil

	case Dict:
		m, ok := value.(map[string]any)
		if !ok {
			return nil, typeError(name, "dict", value)
		}
		if f.Fields == nil {
			return m, nil
		}
		nested, err := f.Fields.Validate(m)
		if err != nil {
			var verr *ValidationError
			if asValidationError(err, &verr) {
				return nil, &ValidationError{Field: name + "." + verr.Field, Reason: verr.Reason}
			}
			return nil, err
		}
		return nested, nil

	case List:
		items, ok := value.([]any)
		if !ok {
			return nil, typeError(name, "list", value)
		}
		if f.Elem == nil {
			return items, nil
		}
		out := make([]any, 0, len(items))
		for i, item := range items {
			normalized, err := f.Elem.validate(fmt.Sprintf("%s[%d]", name, i), item)
			if err != nil {
				return nil, err
			}
			out = append(out, normalized)
		}
		return out, nil
	}

	return nil, &ValidationError{Field: name, Reason: fmt.Sprintf("unsupported field type %q", f.Type)}
}

func typeError(name, want string, got any) error {
	return &ValidationError{Field: name, Reason: fmt.Sprintf("expected %s, got %T", want, got)}
}

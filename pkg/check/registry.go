package check

import (
	"fmt"
	"sync"
)

// Builder constructs a check from declarative parameters, as
// found in a schema file.
type Builder func(
	params map[string]any,
	opts ...Option,
) (*Check, error)

// Registry maps check type names to builders so declarative
// schemas can reconstruct checks. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// DefaultRegistry creates a registry with all built-in check
// types pre-registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.registerDefaults()
	return r
}

// Register adds a builder for the given check type. Returns an
// error if the type is already registered.
func (r *Registry) Register(name string, b Builder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.builders[name]; exists {
		return fmt.Errorf(
			"check type already registered: %s", name,
		)
	}

	r.builders[name] = b
	return nil
}

// Has reports whether the given check type is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.builders[name]
	return exists
}

// Build constructs a check of the given type from parameters.
func (r *Registry) Build(
	name string,
	params map[string]any,
	opts ...Option,
) (*Check, error) {
	r.mu.RLock()
	builder, exists := r.builders[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown check type: %s", name)
	}
	return builder(params, opts...)
}

// registerDefaults registers builders for every built-in check
// factory.
func (r *Registry) registerDefaults() {
	r.builders["eq"] = func(
		p map[string]any, opts ...Option,
	) (*Check, error) {
		v, err := requireParam(p, "value")
		if err != nil {
			return nil, err
		}
		return Eq(v, opts...), nil
	}

	r.builders["ne"] = func(
		p map[string]any, opts ...Option,
	) (*Check, error) {
		v, err := requireParam(p, "value")
		if err != nil {
			return nil, err
		}
		return Ne(v, opts...), nil
	}

	r.builders["gt"] = func(
		p map[string]any, opts ...Option,
	) (*Check, error) {
		v, err := requireParam(p, "min_value")
		if err != nil {
			return nil, err
		}
		return Gt(v, opts...), nil
	}

	r.builders["ge"] = func(
		p map[string]any, opts ...Option,
	) (*Check, error) {
		v, err := requireParam(p, "min_value")
		if err != nil {
			return nil, err
		}
		return Ge(v, opts...), nil
	}

	r.builders["lt"] = func(
		p map[string]any, opts ...Option,
	) (*Check, error) {
		v, err := requireParam(p, "max_value")
		if err != nil {
			return nil, err
		}
		return Lt(v, opts...), nil
	}

	r.builders["le"] = func(
		p map[string]any, opts ...Option,
	) (*Check, error) {
		v, err := requireParam(p, "max_value")
		if err != nil {
			return nil, err
		}
		return Le(v, opts...), nil
	}

	r.builders["in_range"] = func(
		p map[string]any, opts ...Option,
	) (*Check, error) {
		min, err := requireParam(p, "min_value")
		if err != nil {
			return nil, err
		}
		max, err := requireParam(p, "max_value")
		if err != nil {
			return nil, err
		}
		includeMin := boolParam(p, "include_min", true)
		includeMax := boolParam(p, "include_max", true)
		return InRange(min, max, includeMin, includeMax, opts...), nil
	}

	r.builders["isin"] = func(
		p map[string]any, opts ...Option,
	) (*Check, error) {
		values, err := listParam(p, "allowed_values")
		if err != nil {
			return nil, err
		}
		return IsIn(values, opts...), nil
	}

	r.builders["notin"] = func(
		p map[string]any, opts ...Option,
	) (*Check, error) {
		values, err := listParam(p, "forbidden_values")
		if err != nil {
			return nil, err
		}
		return NotIn(values, opts...), nil
	}

	r.builders["str_contains"] = func(
		p map[string]any, opts ...Option,
	) (*Check, error) {
		pattern, err := stringParam(p, "pattern")
		if err != nil {
			return nil, err
		}
		return StrContains(pattern, opts...), nil
	}

	r.builders["str_matches"] = func(
		p map[string]any, opts ...Option,
	) (*Check, error) {
		pattern, err := stringParam(p, "pattern")
		if err != nil {
			return nil, err
		}
		return StrMatches(pattern, opts...), nil
	}

	r.builders["str_startswith"] = func(
		p map[string]any, opts ...Option,
	) (*Check, error) {
		s, err := stringParam(p, "string")
		if err != nil {
			return nil, err
		}
		return StrStartsWith(s, opts...), nil
	}

	r.builders["str_endswith"] = func(
		p map[string]any, opts ...Option,
	) (*Check, error) {
		s, err := stringParam(p, "string")
		if err != nil {
			return nil, err
		}
		return StrEndsWith(s, opts...), nil
	}

	r.builders["str_length"] = func(
		p map[string]any, opts ...Option,
	) (*Check, error) {
		min := intParam(p, "min_value", -1)
		max := intParam(p, "max_value", -1)
		return StrLength(min, max, opts...), nil
	}
}

// requireParam returns a parameter that must be present.
func requireParam(p map[string]any, key string) (any, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf(
			"missing required check parameter: %s", key,
		)
	}
	return v, nil
}

// stringParam returns a required string parameter.
func stringParam(p map[string]any, key string) (string, error) {
	v, err := requireParam(p, key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf(
			"check parameter %s must be a string, got %T", key, v,
		)
	}
	return s, nil
}

// listParam returns a required list parameter.
func listParam(p map[string]any, key string) ([]any, error) {
	v, err := requireParam(p, key)
	if err != nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf(
			"check parameter %s must be a list, got %T", key, v,
		)
	}
	return list, nil
}

// boolParam returns an optional boolean parameter.
func boolParam(p map[string]any, key string, def bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

// intParam returns an optional integer parameter. YAML and JSON
// decoders may deliver numbers as int or float64.
func intParam(p map[string]any, key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

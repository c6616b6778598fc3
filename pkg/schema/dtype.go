// Package schema provides declarative field and table schemas on
// top of the check pipeline: data type checking and coercion,
// nullability and uniqueness checks, user checks, lazy error
// aggregation, and YAML serialization.
package schema

import (
	"fmt"
	"strconv"
	"time"

	"digital.vasic.datacheck/pkg/table"
)

// DType is the declared data type of a field.
type DType int

const (
	// DTypeAny accepts every value.
	DTypeAny DType = iota
	// DTypeBool accepts booleans.
	DTypeBool
	// DTypeInt accepts signed and unsigned integers.
	DTypeInt
	// DTypeFloat accepts floating-point values.
	DTypeFloat
	// DTypeString accepts strings.
	DTypeString
	// DTypeTime accepts time.Time values.
	DTypeTime
)

// String returns the YAML name of the dtype.
func (d DType) String() string {
	switch d {
	case DTypeAny:
		return "any"
	case DTypeBool:
		return "bool"
	case DTypeInt:
		return "int"
	case DTypeFloat:
		return "float"
	case DTypeString:
		return "string"
	case DTypeTime:
		return "time"
	default:
		return "unknown"
	}
}

// ParseDType resolves a YAML dtype name.
func ParseDType(s string) (DType, error) {
	switch s {
	case "any", "":
		return DTypeAny, nil
	case "bool":
		return DTypeBool, nil
	case "int":
		return DTypeInt, nil
	case "float":
		return DTypeFloat, nil
	case "string":
		return DTypeString, nil
	case "time":
		return DTypeTime, nil
	default:
		return DTypeAny, fmt.Errorf("unknown dtype: %s", s)
	}
}

// Check reports whether a value conforms to the dtype. Missing
// values conform to every dtype; nullability is checked
// separately.
func (d DType) Check(v any) bool {
	if table.IsNA(v) {
		return true
	}

	switch d {
	case DTypeAny:
		return true
	case DTypeBool:
		_, ok := v.(bool)
		return ok
	case DTypeInt:
		switch v.(type) {
		case int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64:
			return true
		}
		return false
	case DTypeFloat:
		switch v.(type) {
		case float32, float64:
			return true
		}
		return false
	case DTypeString:
		_, ok := v.(string)
		return ok
	case DTypeTime:
		_, ok := v.(time.Time)
		return ok
	default:
		return false
	}
}

// Coerce converts a value to the dtype. Missing values pass
// through unchanged.
func (d DType) Coerce(v any) (any, error) {
	if table.IsNA(v) || d == DTypeAny || d.Check(v) {
		return v, nil
	}

	switch d {
	case DTypeBool:
		if s, ok := v.(string); ok {
			b, err := strconv.ParseBool(s)
			if err == nil {
				return b, nil
			}
		}
	case DTypeInt:
		if f, ok := v.(float64); ok && f == float64(int64(f)) {
			return int(f), nil
		}
		if f, ok := v.(float32); ok && float64(f) == float64(int64(f)) {
			return int(f), nil
		}
		if s, ok := v.(string); ok {
			i, err := strconv.Atoi(s)
			if err == nil {
				return i, nil
			}
		}
	case DTypeFloat:
		if i, ok := toInt64(v); ok {
			return float64(i), nil
		}
		if s, ok := v.(string); ok {
			f, err := strconv.ParseFloat(s, 64)
			if err == nil {
				return f, nil
			}
		}
	case DTypeString:
		return table.FormatValue(v), nil
	case DTypeTime:
		if s, ok := v.(string); ok {
			ts, err := time.Parse(time.RFC3339, s)
			if err == nil {
				return ts, nil
			}
		}
	}

	return nil, fmt.Errorf(
		"cannot coerce %v (%T) to %s", v, v, d,
	)
}

// toInt64 converts integer values to int64.
func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), true
	}
	return 0, false
}

// Package table provides the columnar container model that checks
// and schemas are evaluated against: single columns, tables of
// named columns sharing a row index, and grouped views of either.
// The model is deliberately engine-agnostic; values are plain Go
// values held in slices.
package table

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// IsNA reports whether a value counts as missing. A value is
// missing when it is nil or a floating-point NaN.
func IsNA(v any) bool {
	if v == nil {
		return true
	}
	switch x := v.(type) {
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}

// FormatValue returns the canonical string form of a value. It is
// used for group keys and for de-duplicating failure cases, so it
// must be deterministic for a given value.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "<NA>"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// ValueEqual compares two cell values. Missing values compare
// equal to each other (unlike raw NaN comparison).
func ValueEqual(a, b any) bool {
	if IsNA(a) || IsNA(b) {
		return IsNA(a) && IsNA(b)
	}
	return reflect.DeepEqual(a, b)
}

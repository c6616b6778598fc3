package check

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"digital.vasic.datacheck/pkg/table"
)

// cellwise lifts a per-value predicate into a vectorized check
// function: columns produce a per-row mask, tables a per-cell
// mask.
func cellwise(pred func(any) bool) Fn {
	return func(obj table.Object) (Output, error) {
		switch o := obj.(type) {
		case *table.Column:
			values := make([]bool, o.Len())
			for i, v := range o.Values {
				values[i] = pred(v)
			}
			return &BoolColumn{
				Index:  o.Index,
				Values: values,
			}, nil

		case *table.Table:
			cells := make(map[string][]bool, o.NumColumns())
			for _, name := range o.Columns() {
				col, _ := o.Column(name)
				mask := make([]bool, col.Len())
				for i, v := range col.Values {
					mask[i] = pred(v)
				}
				cells[name] = mask
			}
			return &BoolTable{
				Columns: o.Columns(),
				Index:   o.Index(),
				Cells:   cells,
			}, nil

		default:
			return nil, fmt.Errorf(
				"built-in checks evaluate columns or tables, got %T",
				obj,
			)
		}
	}
}

// toFloat converts numeric values to float64 for cross-type
// comparison.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// compareValues orders two values when they are comparable:
// numerics (cross-type), strings, or times. Missing or
// non-comparable values report ok == false, which built-in
// comparison checks treat as failing.
func compareValues(a, b any) (cmp int, ok bool) {
	if table.IsNA(a) || table.IsNA(b) {
		return 0, false
	}

	if fa, aok := toFloat(a); aok {
		fb, bok := toFloat(b)
		if !bok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}

	if sa, aok := a.(string); aok {
		sb, bok := b.(string)
		if !bok {
			return 0, false
		}
		return strings.Compare(sa, sb), true
	}

	if ta, aok := a.(time.Time); aok {
		tb, bok := b.(time.Time)
		if !bok {
			return 0, false
		}
		switch {
		case ta.Before(tb):
			return -1, true
		case ta.After(tb):
			return 1, true
		}
		return 0, true
	}

	return 0, false
}

// equalValues compares two values for equality with numeric
// cross-type support. Missing values are never equal to concrete
// values.
func equalValues(a, b any) bool {
	if cmp, ok := compareValues(a, b); ok {
		return cmp == 0
	}
	return table.ValueEqual(a, b)
}

// Eq ensures all elements equal the given value.
func Eq(value any, opts ...Option) *Check {
	return New("eq", cellwise(func(v any) bool {
		return equalValues(v, value)
	}), withDefaults(opts,
		WithError(fmt.Sprintf("equal_to(%v)", value)),
		WithStatistics(map[string]any{"value": value}),
	)...)
}

// Ne ensures no element equals the given value. Missing values
// pass, matching "not equal" semantics for unknowns.
func Ne(value any, opts ...Option) *Check {
	return New("ne", cellwise(func(v any) bool {
		return !equalValues(v, value)
	}), withDefaults(opts,
		WithError(fmt.Sprintf("not_equal_to(%v)", value)),
		WithStatistics(map[string]any{"value": value}),
	)...)
}

// Gt ensures all elements are strictly greater than min.
func Gt(min any, opts ...Option) *Check {
	return New("gt", cellwise(func(v any) bool {
		cmp, ok := compareValues(v, min)
		return ok && cmp > 0
	}), withDefaults(opts,
		WithError(fmt.Sprintf("greater_than(%v)", min)),
		WithStatistics(map[string]any{"min_value": min}),
	)...)
}

// Ge ensures all elements are greater than or equal to min.
func Ge(min any, opts ...Option) *Check {
	return New("ge", cellwise(func(v any) bool {
		cmp, ok := compareValues(v, min)
		return ok && cmp >= 0
	}), withDefaults(opts,
		WithError(fmt.Sprintf("greater_than_or_equal_to(%v)", min)),
		WithStatistics(map[string]any{"min_value": min}),
	)...)
}

// Lt ensures all elements are strictly less than max.
func Lt(max any, opts ...Option) *Check {
	return New("lt", cellwise(func(v any) bool {
		cmp, ok := compareValues(v, max)
		return ok && cmp < 0
	}), withDefaults(opts,
		WithError(fmt.Sprintf("less_than(%v)", max)),
		WithStatistics(map[string]any{"max_value": max}),
	)...)
}

// Le ensures all elements are less than or equal to max.
func Le(max any, opts ...Option) *Check {
	return New("le", cellwise(func(v any) bool {
		cmp, ok := compareValues(v, max)
		return ok && cmp <= 0
	}), withDefaults(opts,
		WithError(fmt.Sprintf("less_than_or_equal_to(%v)", max)),
		WithStatistics(map[string]any{"max_value": max}),
	)...)
}

// InRange ensures all elements fall between min and max, with
// configurable bound inclusivity.
func InRange(
	min, max any,
	includeMin, includeMax bool,
	opts ...Option,
) *Check {
	return New("in_range", cellwise(func(v any) bool {
		lo, ok := compareValues(v, min)
		if !ok || lo < 0 || (lo == 0 && !includeMin) {
			return false
		}
		hi, ok := compareValues(v, max)
		if !ok || hi > 0 || (hi == 0 && !includeMax) {
			return false
		}
		return true
	}), withDefaults(opts,
		WithError(fmt.Sprintf("in_range(%v, %v)", min, max)),
		WithStatistics(map[string]any{
			"min_value":   min,
			"max_value":   max,
			"include_min": includeMin,
			"include_max": includeMax,
		}),
	)...)
}

// IsIn ensures all elements are members of the allowed set.
func IsIn(allowed []any, opts ...Option) *Check {
	return New("isin", cellwise(func(v any) bool {
		for _, a := range allowed {
			if equalValues(v, a) {
				return true
			}
		}
		return false
	}), withDefaults(opts,
		WithError(fmt.Sprintf("isin(%v)", allowed)),
		WithStatistics(map[string]any{"allowed_values": allowed}),
	)...)
}

// NotIn ensures no element is a member of the forbidden set.
// Missing values pass.
func NotIn(forbidden []any, opts ...Option) *Check {
	return New("notin", cellwise(func(v any) bool {
		for _, f := range forbidden {
			if equalValues(v, f) {
				return false
			}
		}
		return true
	}), withDefaults(opts,
		WithError(fmt.Sprintf("notin(%v)", forbidden)),
		WithStatistics(map[string]any{"forbidden_values": forbidden}),
	)...)
}

// regexCheck builds a string check around a compiled pattern. A
// pattern that fails to compile surfaces as a check-function
// error at evaluation time.
func regexCheck(
	name, pattern string,
	match func(*regexp.Regexp, string) bool,
	opts ...Option,
) *Check {
	re, compileErr := regexp.Compile(pattern)
	fn := func(obj table.Object) (Output, error) {
		if compileErr != nil {
			return nil, fmt.Errorf(
				"invalid pattern %q: %w", pattern, compileErr,
			)
		}
		return cellwise(func(v any) bool {
			s, ok := v.(string)
			return ok && match(re, s)
		})(obj)
	}
	return New(name, fn, withDefaults(opts,
		WithError(fmt.Sprintf("%s(%q)", name, pattern)),
		WithStatistics(map[string]any{"pattern": pattern}),
	)...)
}

// StrContains ensures string elements contain a match of the
// pattern. Non-string elements fail.
func StrContains(pattern string, opts ...Option) *Check {
	return regexCheck("str_contains", pattern,
		func(re *regexp.Regexp, s string) bool {
			return re.MatchString(s)
		}, opts...)
}

// StrMatches ensures string elements match the pattern at the
// beginning of the string.
func StrMatches(pattern string, opts ...Option) *Check {
	return regexCheck("str_matches", "^(?:"+pattern+")",
		func(re *regexp.Regexp, s string) bool {
			return re.MatchString(s)
		}, opts...)
}

// StrStartsWith ensures string elements start with the prefix.
func StrStartsWith(prefix string, opts ...Option) *Check {
	return New("str_startswith", cellwise(func(v any) bool {
		s, ok := v.(string)
		return ok && strings.HasPrefix(s, prefix)
	}), withDefaults(opts,
		WithError(fmt.Sprintf("str_startswith(%q)", prefix)),
		WithStatistics(map[string]any{"string": prefix}),
	)...)
}

// StrEndsWith ensures string elements end with the suffix.
func StrEndsWith(suffix string, opts ...Option) *Check {
	return New("str_endswith", cellwise(func(v any) bool {
		s, ok := v.(string)
		return ok && strings.HasSuffix(s, suffix)
	}), withDefaults(opts,
		WithError(fmt.Sprintf("str_endswith(%q)", suffix)),
		WithStatistics(map[string]any{"string": suffix}),
	)...)
}

// StrLength ensures string elements have a length within
// [min, max] measured in runes. Pass -1 to leave a bound open.
func StrLength(min, max int, opts ...Option) *Check {
	return New("str_length", cellwise(func(v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		n := len([]rune(s))
		if min >= 0 && n < min {
			return false
		}
		if max >= 0 && n > max {
			return false
		}
		return true
	}), withDefaults(opts,
		WithError(fmt.Sprintf("str_length(%d, %d)", min, max)),
		WithStatistics(map[string]any{
			"min_value": min,
			"max_value": max,
		}),
	)...)
}

// withDefaults prepends factory defaults so caller-supplied
// options win.
func withDefaults(opts []Option, defaults ...Option) []Option {
	return append(defaults, opts...)
}

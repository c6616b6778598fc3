package check

import (
	"fmt"
	"sort"
)

// GroupKeyError reports requested group keys that do not exist
// among the computed groups. It is a configuration error raised
// before the check function runs.
type GroupKeyError struct {
	// Invalid lists the requested keys that were not found.
	Invalid []string

	// Valid lists the group keys that were actually computed.
	Valid []string
}

// Error returns a message naming both the invalid keys and the
// valid key set.
func (e *GroupKeyError) Error() string {
	invalid := make([]string, len(e.Invalid))
	copy(invalid, e.Invalid)
	sort.Strings(invalid)
	valid := make([]string, len(e.Valid))
	copy(valid, e.Valid)
	sort.Strings(valid)
	return fmt.Sprintf(
		"groups %v provided in groups argument not valid group keys, valid group keys: %v",
		invalid, valid,
	)
}

// OutputTypeError reports a check function whose output shape
// does not match any recognized case. It signals a bug in the
// check definition, not a data-quality failure.
type OutputTypeError struct {
	// TypeName is the Go type of the unrecognized output.
	TypeName string
}

// Error returns a message naming the unsupported output type.
func (e *OutputTypeError) Error() string {
	return fmt.Sprintf(
		"output type of check function not recognized: %s",
		e.TypeName,
	)
}

package framework

import (
	"fmt"
	"strings"
)

// CountError reports an argument map whose key set does not match the
// declared argument set.
type CountError struct {
	Missing []string
	Extra   []string
}

func (e *CountError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing arguments: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("unexpected arguments: %s", strings.Join(e.Extra, ", ")))
	}
	return strings.Join(parts, "; ")
}

// ValidationError reports argument values that failed their kind check.
// Names preserves declaration order.
type ValidationError struct {
	Names []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid argument values: %s", strings.Join(e.Names, ", "))
}

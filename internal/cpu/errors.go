package cpu

import "fmt"

// UnresolvedLabelError is returned when a taken branch names a label that
// does not appear anywhere in the program. Per the core's error-handling
// design this is fatal: there is no retry, and the caller should abort the
// run after reporting it.
type UnresolvedLabelError struct {
	Label string
}

func (e *UnresolvedLabelError) Error() string {
	return fmt.Sprintf("unable to resolve branch target label %q", e.Label)
}

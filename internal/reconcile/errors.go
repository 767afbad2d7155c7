package reconcile

import "fmt"

// LookupError is returned when identity resolution matches more than one
// remote object, so the reconciler cannot tell which one to converge.
type LookupError struct {
	Kind    string
	Filter  string
	Matches int
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("found %d %s objects matching %q, expected at most one", e.Matches, e.Kind, e.Filter)
}

// ApplyError wraps a remote failure during create, update, or delete.
type ApplyError struct {
	Action Action
	Err    error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Action, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

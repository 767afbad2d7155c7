package schema

import (
	"errors"
	"fmt"
)

// ValidationError describes a malformed or contradictory parameter. It is
// always raised before any remote call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid parameter %q: %s", e.Field, e.Reason)
}

func asValidationError(err error, target **ValidationError) bool {
	return errors.As(err, target)
}

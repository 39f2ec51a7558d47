package resolver

import (
	"errors"
	"fmt"
)

var (
	ErrNoAddressReturned = errors.New("no address returned")
	ErrLookupFailed      = errors.New("lookup failed")

	errEmptyName = errors.New("empty name")
)

// ResolutionError reports a failed resolution of Name. Kind is one of
// ErrNoAddressReturned or ErrLookupFailed.
type ResolutionError struct {
	Name string
	Kind error
	Err  error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolve %q: %v: %v", e.Name, e.Kind, e.Err)
	}
	return fmt.Sprintf("resolve %q: %v", e.Name, e.Kind)
}

func (e *ResolutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

package provider

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable matches any *DataUnavailableError via errors.Is.
var ErrDataUnavailable = errors.New("equipment data unavailable")

// DataUnavailableError reports that neither the remote API nor the local dataset
// could answer an operation.
type DataUnavailableError struct {
	Op     string
	Remote error // nil for local-only operations
	Local  error
}

func (e *DataUnavailableError) Error() string {
	if e.Remote == nil {
		return fmt.Sprintf("%s: %v: local: %v", e.Op, ErrDataUnavailable, e.Local)
	}
	return fmt.Sprintf("%s: %v: remote: %v; local: %v", e.Op, ErrDataUnavailable, e.Remote, e.Local)
}

func (e *DataUnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}

func (e *DataUnavailableError) Unwrap() []error {
	var errs []error
	if e.Remote != nil {
		errs = append(errs, e.Remote)
	}
	if e.Local != nil {
		errs = append(errs, e.Local)
	}
	return errs
}

package revtext

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput: the input breaks the length convention or is not a
	// well-formed encoded value for this codec.
	ErrInvalidInput = errors.New("revtext: invalid input")
	// ErrAllocation: the result buffer could not be obtained.
	ErrAllocation = errors.New("revtext: allocation failure")
	// ErrOwnership is the parent of every release-protocol breach.
	ErrOwnership = errors.New("revtext: ownership violation")

	ErrReleased      = fmt.Errorf("%w: buffer already released", ErrOwnership)
	ErrForeignBuffer = fmt.Errorf("%w: buffer not owned by this codec", ErrOwnership)
)

// Error carries the failing operation and input size. Kind is one of the
// sentinels above; Err is the underlying cause, if any.
type Error struct {
	Op   string
	Kind error
	Size int
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s (%d bytes): %v", e.Op, e.Size, e.Kind)
	}
	return fmt.Sprintf("%s (%d bytes): %v: %v", e.Op, e.Size, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

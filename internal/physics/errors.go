package physics

import "errors"

// ErrPrecondition marks a configuration or programming error detected at
// construction time. It is never returned for numerical edge cases.
var ErrPrecondition = errors.New("precondition violated")

var (
	// ErrNonPositiveMass indicates a mass value <= 0 (or NaN).
	ErrNonPositiveMass = NewPreconditionError("physics: mass must be greater than 0")

	// ErrNonFinite indicates a NaN or infinite position or velocity.
	ErrNonFinite = NewPreconditionError("physics: position and velocity must be finite")
)

type precondition struct{ msg string }

// NewPreconditionError returns an error that matches ErrPrecondition under
// errors.Is.
func NewPreconditionError(msg string) error { return &precondition{msg: msg} }

func (e *precondition) Error() string { return e.msg }

func (e *precondition) Is(target error) bool { return target == ErrPrecondition }

package sim

import (
	"errors"
	"fmt"
)

var (
	ErrNilBodies = errors.New("sim: bodies must not be nil")
	ErrNilWriter = errors.New("sim: frame writer must not be nil")
	ErrSteps     = errors.New("sim: step count must not be negative")
)

// StepError reports the step at which a run stopped.
type StepError struct {
	Step int
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("sim: step %d: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

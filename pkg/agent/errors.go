package agent

import (
	"errors"
	"fmt"
)

// ErrUnrecognizedShape is returned when agent output cannot be
// normalized into flat mappings.
var ErrUnrecognizedShape = errors.New("unrecognized agent output shape")

// InvocationError wraps any failure of a delegated agent call. Always
// fatal to the handler that made the call.
type InvocationError struct {
	Agent string
	Err   error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("agent %s invocation failed: %v", e.Agent, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

func IsInvocationError(err error) bool {
	var i *InvocationError
	return errors.As(err, &i)
}

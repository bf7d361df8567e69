package chain

import (
	"errors"
	"fmt"
)

// ErrTimeout signals that polling exhausted its attempt budget without the
// transaction reaching a terminal status.
var ErrTimeout = errors.New("chain: transaction polling timed out")

// SimulationError carries the node's rejection reason for a dry run.
type SimulationError struct {
	Reason string
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("chain: simulation rejected: %s", e.Reason)
}

// SubmitError wraps a transport or node failure during submission.
type SubmitError struct {
	Cause error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("chain: submit failed: %v", e.Cause)
}

func (e *SubmitError) Unwrap() error { return e.Cause }

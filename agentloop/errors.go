package agentloop

import (
	"errors"
	"fmt"
)

// ErrStepLimitExceeded is raised when the step budget runs out with no
// answer and no fallback material at all.
var ErrStepLimitExceeded = errors.New("step limit exceeded without an answer")

// RunFailureError is the umbrella terminal error returned when a run cannot
// produce any answer text, clean or fallback.
type RunFailureError struct {
	RunID string
	Cause error
}

func (e *RunFailureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("run %s failed: %v", e.RunID, e.Cause)
	}
	return fmt.Sprintf("run %s failed", e.RunID)
}

func (e *RunFailureError) Unwrap() error {
	return e.Cause
}

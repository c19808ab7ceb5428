package active

import (
	"fmt"
)

// ConfigurationError reports an invalid selector configuration, such as an
// excluded parameter-group name the model does not have. Raised at
// selector construction, never mid-selection.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("selector configuration: %s", e.Reason)
}

// RenderError reports non-finite values in a rendered image or its
// gradients. The selection call that hit it is abandoned; none of its
// partial accumulation is trusted.
type RenderError struct {
	CameraIndex int
	Reason      string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render for camera %d: %s", e.CameraIndex, e.Reason)
}

// SelectionAborted signals that the caller's exit predicate fired. The
// selection call returns no partial result; the caller checkpoints and
// requeues. This is operational control flow, not a failure.
type SelectionAborted struct {
	Stage string
}

func (e *SelectionAborted) Error() string {
	return fmt.Sprintf("selection aborted by exit signal during %s pass", e.Stage)
}

// InsufficientCandidatesError reports fewer unobserved cameras than
// requested views.
type InsufficientCandidatesError struct {
	Requested int
	Available int
}

func (e *InsufficientCandidatesError) Error() string {
	return fmt.Sprintf("requested %d views but only %d candidates remain", e.Requested, e.Available)
}

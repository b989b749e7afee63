package kialo

import (
	"errors"
	"fmt"
)

// Kind classifies automation failures. Data-quality problems (short pros/cons
// text, overlong summaries) are absorbed by formatting and never surface as
// errors; everything here is a fatal UI-interaction failure that aborts the
// run.
type Kind string

const (
	// KindSessionInit: the browser process failed to start. Retrying the
	// step would not help; callers may retry the whole call.
	KindSessionInit Kind = "session_init"
	// KindAuthentication: login controls not found or login did not succeed.
	// Credentials are static configuration, so this is never retried.
	KindAuthentication Kind = "authentication"
	// KindNavigation: an expected page transition control was unavailable.
	KindNavigation Kind = "navigation"
	// KindElementTimeout: an expected UI control did not become available
	// within its bounded wait.
	KindElementTimeout Kind = "element_timeout"
	// KindUpload: the media file input was not found or not interactable.
	KindUpload Kind = "upload"
	// KindPublish: a publish confirmation control was not found.
	KindPublish Kind = "publish"
)

// StepError is a fatal automation failure at a specific workflow step.
type StepError struct {
	Kind Kind
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("kialo: %s failed (%s): %v", e.Step, e.Kind, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

func stepErr(kind Kind, step Step, err error) *StepError {
	return &StepError{Kind: kind, Step: step, Err: err}
}

// ErrKind reports the failure kind of err, or "" if err is not a StepError.
func ErrKind(err error) Kind {
	var se *StepError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

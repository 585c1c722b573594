package pipeline

import "errors"

// modelNotFoundError signals a requested model id that is not present in
// the registry, for 404 mapping.
type modelNotFoundError struct{ id string }

func (e modelNotFoundError) Error() string { return "model not found: " + e.id }

// ErrModelNotFound constructs a modelNotFoundError.
func ErrModelNotFound(id string) error { return modelNotFoundError{id: id} }

// IsModelNotFound reports whether the error indicates a missing model id.
func IsModelNotFound(err error) bool {
	var e modelNotFoundError
	return errors.As(err, &e)
}

// stageError records which pipeline stage failed.
type stageError struct {
	stage string
	err   error
}

func (e stageError) Error() string { return e.stage + ": " + e.err.Error() }
func (e stageError) Unwrap() error { return e.err }

// FailedStage returns the stage name recorded on err, or "".
func FailedStage(err error) string {
	var e stageError
	if errors.As(err, &e) {
		return e.stage
	}
	return ""
}

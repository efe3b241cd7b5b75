package lifecycle

import (
	"errors"
	"syscall"
)

// insufficientResourceError signals that disk or memory cannot accommodate a
// requested model. Fatal for the request; never silently retried.
type insufficientResourceError struct{ msg string }

func (e insufficientResourceError) Error() string { return "insufficient resources: " + e.msg }

// ErrInsufficientResource constructs an insufficientResourceError.
func ErrInsufficientResource(msg string) error { return insufficientResourceError{msg: msg} }

// IsInsufficientResource reports whether err indicates exhausted disk/memory.
func IsInsufficientResource(err error) bool {
	var e insufficientResourceError
	return errors.As(err, &e)
}

// modelLoadError signals that underlying weights or an engine could not be
// fetched, parsed or initialized.
type modelLoadError struct {
	key   string
	cause error
}

func (e modelLoadError) Error() string { return "load " + e.key + ": " + e.cause.Error() }
func (e modelLoadError) Unwrap() error { return e.cause }

// ErrModelLoad wraps a construction failure with the cache key it occurred on.
func ErrModelLoad(key string, cause error) error { return modelLoadError{key: key, cause: cause} }

// IsModelLoad reports whether err is a resource construction failure.
func IsModelLoad(err error) bool {
	var e modelLoadError
	return errors.As(err, &e)
}

// classifyLoadError maps a raw construction failure to the lifecycle
// taxonomy. Disk-full surfaces as insufficient resources.
func classifyLoadError(key string, err error) error {
	if errors.Is(err, syscall.ENOSPC) {
		return ErrInsufficientResource("no disk space left loading " + key)
	}
	return ErrModelLoad(key, err)
}

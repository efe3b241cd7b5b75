package pipeline

import "errors"

// configError signals bad or inconsistent request parameters for 422 mapping.
type configError struct{ msg string }

func (e configError) Error() string { return e.msg }

// ErrConfig constructs a configError.
func ErrConfig(msg string) error { return configError{msg: msg} }

// IsConfigError reports whether err indicates invalid request parameters.
func IsConfigError(err error) bool {
	var ce configError
	return errors.As(err, &ce)
}

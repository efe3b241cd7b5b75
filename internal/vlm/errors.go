package vlm

import "fmt"

// authError signals a missing or rejected credential for 500 mapping with an
// actionable message.
type authError struct{ provider Provider }

func (e authError) Error() string {
	return fmt.Sprintf("vlm provider %s: no API key configured (set VLM_API_KEY)", e.provider)
}

// ErrProviderAuth constructs an authError for the given provider.
func ErrProviderAuth(p Provider) error { return authError{provider: p} }

// IsProviderAuth reports whether err indicates a missing/rejected credential.
func IsProviderAuth(err error) bool {
	_, ok := err.(authError)
	return ok
}

// requestError carries the provider name and upstream status for non-2xx
// responses.
type requestError struct {
	provider Provider
	status   int
	msg      string
}

func (e requestError) Error() string {
	return fmt.Sprintf("vlm provider %s: status %d: %s", e.provider, e.status, e.msg)
}

// ErrProviderRequest constructs a requestError.
func ErrProviderRequest(p Provider, status int, msg string) error {
	return requestError{provider: p, status: status, msg: msg}
}

// IsProviderRequest reports whether err is an upstream non-2xx failure.
func IsProviderRequest(err error) bool {
	_, ok := err.(requestError)
	return ok
}

// timeoutError signals that the bounded wait for a provider response elapsed.
type timeoutError struct{ provider Provider }

func (e timeoutError) Error() string {
	return fmt.Sprintf("vlm provider %s: request timed out", e.provider)
}

// ErrProviderTimeout constructs a timeoutError.
func ErrProviderTimeout(p Provider) error { return timeoutError{provider: p} }

// IsProviderTimeout reports whether err indicates an elapsed provider wait.
func IsProviderTimeout(err error) bool {
	_, ok := err.(timeoutError)
	return ok
}

// inferenceError signals a local model runtime failure during Describe.
type inferenceError struct{ msg string }

func (e inferenceError) Error() string { return "local vlm inference: " + e.msg }

// ErrInference constructs an inferenceError.
func ErrInference(msg string) error { return inferenceError{msg: msg} }

// IsInference reports whether err is a local inference failure.
func IsInference(err error) bool {
	_, ok := err.(inferenceError)
	return ok
}

//go:build !llama

package vlm

import "errors"

// This file provides a no-CGO stub for the local runner. It is compiled when
// the 'llama' build tag is NOT set, keeping default builds and CI CGO-free.
// The real runner lives in local_llama.go (tagged 'llama').

var errLlamaNotBuilt = errors.New("local vlm support not built (missing 'llama' build tag)")

// NewLocalRunner fails fast without the 'llama' build tag. No mocked
// behavior in production binaries built without CGO support.
func NewLocalRunner(modelID string, opts LocalOptions) (LocalRunner, error) {
	return nil, errLlamaNotBuilt
}

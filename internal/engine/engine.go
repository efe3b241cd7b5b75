// Package engine defines the document-conversion contract. The service
// treats a converter as a black box that accepts file bytes plus a pipeline
// configuration and returns a document tree; everything past the
// page/text/table/image structure is the converter's business.
package engine

import (
	"context"
	"errors"

	"docexd/internal/pipeline"
	"docexd/pkg/types"
)

// Engine converts raw document bytes into a document tree. Instances are
// constructed per (ocr, tables) configuration and cached by the lifecycle
// manager; Convert may be called concurrently on one instance.
type Engine interface {
	Convert(ctx context.Context, content []byte, filename string) (*types.Document, error)
	Close() error
}

// Factory constructs an Engine for a pipeline configuration. The lifecycle
// manager calls it on cache misses; tests substitute fakes.
type Factory func(cfg pipeline.Config) (Engine, error)

// conversionError signals a converter failure for 500 mapping.
type conversionError struct {
	filename string
	cause    error
}

func (e conversionError) Error() string { return "convert " + e.filename + ": " + e.cause.Error() }
func (e conversionError) Unwrap() error { return e.cause }

// ErrConversion wraps a converter failure with the filename it occurred on.
func ErrConversion(filename string, cause error) error {
	return conversionError{filename: filename, cause: cause}
}

// IsConversion reports whether err is a converter failure.
func IsConversion(err error) bool {
	var ce conversionError
	return errors.As(err, &ce)
}

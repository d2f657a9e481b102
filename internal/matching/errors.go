package matching

import (
	"errors"
	"fmt"
)

// Request-scoped sentinel errors. None of them touch the catalog cache.
var (
	// ErrNoInput means the caller supplied neither text nor an image.
	ErrNoInput = errors.New("no message text or image supplied")

	// ErrEmptyCatalog means there is nothing to match against: the catalog
	// directory is missing or holds no images. A deployment problem, not a
	// caller problem.
	ErrEmptyCatalog = errors.New("catalog is empty, cannot match")
)

// InvocationError wraps a transport or provider failure from the model call.
type InvocationError struct {
	Err error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("model invocation failed: %v", e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// ParseError means the model's output was not valid JSON after fence
// stripping. Raw carries the stripped text for diagnostics.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("model output is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError means the output parsed as JSON but is missing the required
// matches array. Raw carries the stripped text for diagnostics.
type SchemaError struct {
	Raw string
}

func (e *SchemaError) Error() string {
	return "model output is missing the matches array"
}

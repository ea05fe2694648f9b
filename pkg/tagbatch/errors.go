package tagbatch

import (
	"errors"
	"fmt"
)

// Sentinel errors for definitions and compilation.
var (
	// ErrNoOutputs indicates Compile() was called on a definition without outputs.
	ErrNoOutputs = errors.New("definition has no outputs")

	// ErrUnknownOutputType indicates a type name ParseOutputType does not know.
	ErrUnknownOutputType = errors.New("unknown output type")

	// ErrInvalidDefinition indicates a definition read from configuration is malformed.
	ErrInvalidDefinition = errors.New("invalid batch definition")
)

// Sentinel errors for execution.
var (
	// ErrNilEnvironment indicates Run() was called without a scope.
	ErrNilEnvironment = errors.New("environment cannot be nil")
)

// OutputError wraps an error with output context.
// Compile joins one OutputError per failing output; Run yields one per
// failing row.
type OutputError struct {
	// Output is the name of the output that failed.
	Output string
	// Op is the operation that failed ("parse", "evaluate", "render").
	Op string
	// Row is the row index for run-time failures, -1 at compile time.
	Row int
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *OutputError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("output %s: %s: %v", e.Output, e.Op, e.Err)
	}
	return fmt.Sprintf("output %s: row %d: %s: %v", e.Output, e.Row, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *OutputError) Unwrap() error {
	return e.Err
}

package htmlpng

import (
	"errors"
	"fmt"
)

// Process exit codes
const (
	ExitOK              = 0
	ExitUsage           = 1
	ExitUnresolvedInput = 2
	ExitFailure         = 3
)

// UsageError is returned when the required positional arguments are missing
type UsageError struct {
	Got int
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("expected <input> <output>, got %d argument(s)", e.Got)
}

// InputResolutionError is returned when the input is not inline HTML, an
// http(s) URL or an existing file
type InputResolutionError struct {
	Input string
}

func (e *InputResolutionError) Error() string {
	return "Input looks like a string but --inline was not specified. To treat input as raw HTML string, add --inline flag."
}

// EngineError wraps failures coming from the browser engine
type EngineError struct {
	Op  string // download, launch, page, viewport, navigate, content, screenshot, resize
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// FilesystemError wraps failures preparing or writing the output file
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

func engineErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &EngineError{Op: op, Err: err}
}

// ExitCode maps an error returned by the pipeline to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsage
	}

	var inputErr *InputResolutionError
	if errors.As(err, &inputErr) {
		return ExitUnresolvedInput
	}

	return ExitFailure
}

// Package execution maps the error kinds of spec.md §7 to the process exit
// codes a run reports once every translation unit has been processed.
package execution

// ErrorType is the type of the error that can generate a specific exit status.
type ErrorType int

// String produces the human readable sentence for the ErrorType.
func (e ErrorType) String() string {
	switch e {
	case ParseFailures:
		return "one or more translation units failed to parse"
	case RewriteFailures:
		return "one or more translation units failed to rewrite"
	}
	panic("this should not happen")
}

const (
	// ParseFailures is raised when at least one translation unit was skipped
	// because its diagnostic sink carried a blocking (Error or Fatal)
	// diagnostic.
	ParseFailures ErrorType = iota

	// RewriteFailures is raised when at least one translation unit's
	// rewrite pass itself failed (a rewrite conflict, per spec.md §7).
	RewriteFailures
)

var errorMapping = map[ErrorType]int{
	ParseFailures:   10,
	RewriteFailures: 11,
}

// ExitError is returned when a run must exit with a specific nonzero
// status (spec.md §6: "nonzero if any translation unit failed to parse or
// failed to rewrite"). If returned (or wrapped) from main, its ExitCode
// becomes the process's exit code.
type ExitError struct {
	errorType ErrorType
	exitCode  int
}

// NewExitErr instantiates a new ExitError.
func NewExitErr(et ErrorType) *ExitError {
	exitCode := errorMapping[et]

	return &ExitError{exitCode: exitCode, errorType: et}
}

// Error is the implementation of the Error interface and returns
// the ErrorType human readable message.
func (e *ExitError) Error() string {
	return e.errorType.String()
}

// ExitCode returns the exit code associated with the specific ErrorType.
func (e *ExitError) ExitCode() int {
	return e.exitCode
}

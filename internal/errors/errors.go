// Package errors defines the failure taxonomy of the aoc harness.
//
// Every failure the harness reports is an *Error with a stable Code. Errors
// wrap their cause, so codes survive fmt.Errorf("%w") chains.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code represents stable error codes for all failure modes
type Code string

const (
	// InvalidLocation indicates the working directory is not <root>/<year>/d<day>[/<language>]
	InvalidLocation Code = "INVALID_LOCATION"
	// UnknownLanguage indicates no adapter is registered for the language segment
	UnknownLanguage Code = "UNKNOWN_LANGUAGE"
	// AlreadyInitialized indicates init found an existing entry point
	AlreadyInitialized Code = "ALREADY_INITIALIZED"
	// DependencyNotFound indicates an in-repo library has no source directory
	DependencyNotFound Code = "DEPENDENCY_NOT_FOUND"
	// DependencyBuildFailed indicates compiling an in-repo library failed
	DependencyBuildFailed Code = "DEPENDENCY_BUILD_FAILED"
	// BuildFailed indicates compiling or linking the entry point failed
	BuildFailed Code = "BUILD_FAILED"
	// ExecutionFailed indicates the built program is missing or exited non-zero
	ExecutionFailed Code = "EXECUTION_FAILED"
	// UnsupportedOperation indicates the adapter cannot perform the capability
	UnsupportedOperation Code = "UNSUPPORTED_OPERATION"
	// UnrecognizedOperation indicates the CLI verb is not in the allow-list
	UnrecognizedOperation Code = "UNRECOGNIZED_OPERATION"
	// MalformedDependencySpec indicates the descriptor does not have the category -> list shape
	MalformedDependencySpec Code = "MALFORMED_DEPENDENCY_SPEC"
	// MissingArgument indicates an operation was invoked with too few arguments
	MissingArgument Code = "MISSING_ARGUMENT"
	// RepoRootNotFound indicates no version-control root could be located
	RepoRootNotFound Code = "REPO_ROOT_NOT_FOUND"
	// ScaffoldFailed indicates template files could not be copied
	ScaffoldFailed Code = "SCAFFOLD_FAILED"
	// ConfigInvalid indicates .aoc/config.yaml could not be parsed
	ConfigInvalid Code = "CONFIG_INVALID"
)

// Error is a coded harness failure.
type Error struct {
	Code     Code
	Message  string
	Language string // set for adapter failures
	Op       string // set for adapter failures
	ExitCode int    // child exit status for ExecutionFailed, 0 otherwise
	cause    error
}

// New creates an Error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause.
func Wrap(cause error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Unsupported reports that language does not implement op.
func Unsupported(language, op, reason string) *Error {
	msg := fmt.Sprintf("%s adapter does not support %s", language, op)
	if reason != "" {
		msg += " (" + reason + ")"
	}
	return &Error{Code: UnsupportedOperation, Message: msg, Language: language, Op: op}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// WithExitCode records the child exit status.
func (e *Error) WithExitCode(code int) *Error {
	e.ExitCode = code
	return e
}

// WithOp records the adapter language and operation.
func (e *Error) WithOp(language, op string) *Error {
	e.Language = language
	e.Op = op
	return e
}

// CodeOf returns the code of the outermost *Error in err's chain, or "" if none.
func CodeOf(err error) Code {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether any *Error in err's chain carries code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.cause
	}
	return false
}

// ExitStatus maps err to a process exit status: 0 for nil, the child's own
// status for ExecutionFailed, 1 otherwise.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	for cur := err; cur != nil; {
		if !stderrors.As(cur, &e) {
			break
		}
		if e.Code == ExecutionFailed && e.ExitCode > 0 {
			return e.ExitCode
		}
		cur = e.cause
	}
	return 1
}

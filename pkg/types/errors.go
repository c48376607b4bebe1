package types

import "fmt"

// ErrorKind classifies a Luz failure. The numeric value is the process
// exit code the CLI reports for it.
type ErrorKind int

const (
	KindSuccess ErrorKind = iota
	KindError
	KindIncorrectUsage
	KindSyntaxError
	KindSemanticError
	KindRuntimeError
	KindFileNotFound
	KindPermissionDenied
	KindInvalidInstruction
	KindOutOfMemory
	KindInternalInterpreterError
	KindUnimplementedFeature
)

// String returns the kind's name.
func (k ErrorKind) String() string {
	switch k {
	case KindSuccess:
		return "Success"
	case KindError:
		return "Error"
	case KindIncorrectUsage:
		return "IncorrectUsage"
	case KindSyntaxError:
		return "SyntaxError"
	case KindSemanticError:
		return "SemanticError"
	case KindRuntimeError:
		return "RuntimeError"
	case KindFileNotFound:
		return "FileNotFound"
	case KindPermissionDenied:
		return "PermissionDenied"
	case KindInvalidInstruction:
		return "InvalidInstruction"
	case KindOutOfMemory:
		return "OutOfMemory"
	case KindInternalInterpreterError:
		return "InternalInterpreterError"
	case KindUnimplementedFeature:
		return "UnimplementedFeature"
	default:
		return "Unknown"
	}
}

// LuzError is a Luz failure with a human-readable message and a stable
// exit code.
type LuzError struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface.
func (e *LuzError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// ExitCode returns the process exit code for the error.
func (e *LuzError) ExitCode() int {
	return int(e.Kind)
}

// ErrorExitCode maps any error to an exit code. Non-Luz errors report as
// RuntimeError.
func ErrorExitCode(err error) int {
	if err == nil {
		return int(KindSuccess)
	}
	if le, ok := err.(*LuzError); ok {
		return le.ExitCode()
	}
	return int(KindRuntimeError)
}

// NewSyntaxError creates a SyntaxError.
func NewSyntaxError(format string, args ...interface{}) *LuzError {
	return &LuzError{Kind: KindSyntaxError, Message: fmt.Sprintf(format, args...)}
}

// NewSemanticError creates a SemanticError.
func NewSemanticError(format string, args ...interface{}) *LuzError {
	return &LuzError{Kind: KindSemanticError, Message: fmt.Sprintf(format, args...)}
}

// NewRuntimeError creates a RuntimeError.
func NewRuntimeError(format string, args ...interface{}) *LuzError {
	return &LuzError{Kind: KindRuntimeError, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidInstruction creates an InvalidInstruction error.
func NewInvalidInstruction(format string, args ...interface{}) *LuzError {
	return &LuzError{Kind: KindInvalidInstruction, Message: fmt.Sprintf(format, args...)}
}

// NewUnimplementedError creates an UnimplementedFeature error.
func NewUnimplementedError(format string, args ...interface{}) *LuzError {
	return &LuzError{Kind: KindUnimplementedFeature, Message: fmt.Sprintf(format, args...)}
}

// NewInternalError creates an InternalInterpreterError.
func NewInternalError(format string, args ...interface{}) *LuzError {
	return &LuzError{Kind: KindInternalInterpreterError, Message: fmt.Sprintf(format, args...)}
}

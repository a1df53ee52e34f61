package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 13000-13999: Language & Execution errors

const (
	// ========== System & Common Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalServerError ErrorCode = 10001
	InvalidParams       ErrorCode = 10002
	NotFound            ErrorCode = 10003
	ServiceUnavailable  ErrorCode = 10004

	// Filesystem errors (10100-10199)
	IoError       ErrorCode = 10100
	ScratchFailed ErrorCode = 10101
	CleanupFailed ErrorCode = 10102

	// ========== Language & Execution Errors (13000-13999) ==========

	// Submission (13000-13099)
	LanguageNotSupported ErrorCode = 13000

	// Execution (13100-13199)
	ToolMissing       ErrorCode = 13100
	CompilationError  ErrorCode = 13102
	RuntimeError      ErrorCode = 13103
	SignalError       ErrorCode = 13104
	DecodeError       ErrorCode = 13105
	CompileOrRunError ErrorCode = 13106
)

// errorMessages maps error codes to their default English messages
var errorMessages = map[ErrorCode]string{
	// System & Common
	Success:             "Success",
	InternalServerError: "Internal server error",
	InvalidParams:       "Invalid parameters",
	NotFound:            "Resource not found",
	ServiceUnavailable:  "Service temporarily unavailable",

	// Filesystem
	IoError:       "Filesystem operation failed",
	ScratchFailed: "Failed to allocate scratch space",
	CleanupFailed: "Failed to release scratch space",

	// Language & Execution
	LanguageNotSupported: "Programming language not supported",
	ToolMissing:          "Required toolchain not found on host",
	CompilationError:     "Compilation error",
	RuntimeError:         "Runtime error",
	SignalError:          "Program terminated by signal",
	DecodeError:          "Program output is not valid text",
	CompileOrRunError:    "Compilation or execution error",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// HTTPStatus returns the recommended HTTP status code for the error code
func (c ErrorCode) HTTPStatus() int {
	switch {
	case c == Success:
		return 200
	case c == NotFound:
		return 404
	case c == InvalidParams, c == LanguageNotSupported:
		return 400
	case c == ServiceUnavailable:
		return 503
	default:
		return 500
	}
}

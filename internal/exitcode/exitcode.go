package exitcode

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/felixgeelhaar/painel/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition, including server errors
	GeneralError = 1

	// UsageError indicates invalid command usage or configuration
	UsageError = 2

	// AuthError indicates a missing, expired or rejected session
	AuthError = 3

	// PermissionDenied indicates the role may not perform the action
	PermissionDenied = 4

	// NetworkError indicates the backend could not be reached
	NetworkError = 5

	// Interrupted indicates the command was cancelled (Ctrl+C)
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode maps err to an exit code. Coded errors are classified by
// kind; anything else falls back to cobra's usage messages.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	if stderrors.Is(err, context.Canceled) {
		return Interrupted
	}

	var coded *errors.Error
	if stderrors.As(err, &coded) {
		switch coded.Kind {
		case errors.KindUnauthorized:
			return AuthError
		case errors.KindForbidden:
			return PermissionDenied
		case errors.KindNetwork:
			return NetworkError
		case errors.KindConfig:
			return UsageError
		default:
			return GeneralError
		}
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return NetworkError
	}

	errMsg := strings.ToLower(err.Error())
	for _, marker := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "invalid argument", "required flag", "accepts ", "requires at least"} {
		if strings.Contains(errMsg, marker) {
			return UsageError
		}
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags, arguments or configuration)"
	case AuthError:
		return "Not logged in or session expired"
	case PermissionDenied:
		return "Permission denied for this role"
	case NetworkError:
		return "Network error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}

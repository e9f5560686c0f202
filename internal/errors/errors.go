package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Authentication errors (AUTH-001 to AUTH-099)
	ErrCodeUnauthorized     ErrorCode = "AUTH-001"
	ErrCodeForbidden        ErrorCode = "AUTH-002"
	ErrCodeNotAuthenticated ErrorCode = "AUTH-003"
	ErrCodeSessionExpired   ErrorCode = "AUTH-004"
	ErrCodePermissionDenied ErrorCode = "AUTH-005"

	// API errors (API-001 to API-099)
	ErrCodeAPI     ErrorCode = "API-001"
	ErrCodeDecode  ErrorCode = "API-002"
	ErrCodeRequest ErrorCode = "API-003"

	// Network errors (NET-001 to NET-099)
	ErrCodeNetwork ErrorCode = "NET-001"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid ErrorCode = "CONFIG-001"
	ErrCodeConfigRead    ErrorCode = "CONFIG-002"

	// Credential storage errors (STORE-001 to STORE-099)
	ErrCodeStorageRead        ErrorCode = "STORE-001"
	ErrCodeStorageWrite       ErrorCode = "STORE-002"
	ErrCodeStorageUnreachable ErrorCode = "STORE-003"
)

// Kind classifies an error for callers that branch on failure semantics
type Kind int

const (
	KindUnknown Kind = iota
	// KindUnauthorized is a 401; the credential has already been cleared
	KindUnauthorized
	// KindForbidden is a 403; no state changes
	KindForbidden
	// KindServer is any other non-2xx response
	KindServer
	// KindNetwork is a transport-level failure
	KindNetwork
	// KindDecode is a response body that could not be parsed
	KindDecode
	// KindConfig is an invalid or unreadable configuration
	KindConfig
	// KindStorage is a credential storage failure
	KindStorage
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	case KindConfig:
		return "config"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Fixed messages
const (
	UnauthorizedMessage = "not authorized"
	ForbiddenMessage    = "no permission for this action"
	NetworkMessage      = "could not reach the server"
)

// Error is a coded error carrying a human-readable message.
// Error() returns only the message; Detail() renders code, cause and suggestions.
type Error struct {
	Code        ErrorCode
	Kind        Kind
	Status      int
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Detail renders the error with code, cause and suggestions for terminal output
func (e *Error) Detail() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error
func New(code ErrorCode, kind Kind, message string) *Error {
	return &Error{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// Wrap creates a new Error wrapping an existing error
func Wrap(code ErrorCode, kind Kind, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithStatus records the HTTP status that produced the error
func (e *Error) WithStatus(status int) *Error {
	e.Status = status
	return e
}

// KindOf returns the Kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsUnauthorized reports whether err is a 401 failure
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}

// IsForbidden reports whether err is a 403 failure or a local permission denial
func IsForbidden(err error) bool {
	return KindOf(err) == KindForbidden
}

// IsNetwork reports whether err is a transport failure
func IsNetwork(err error) bool {
	return KindOf(err) == KindNetwork
}

// Common error constructors

// NewUnauthorized creates the error returned for a 401 response.
// message is the server-provided text when there is one.
func NewUnauthorized(message string) *Error {
	if message == "" {
		message = UnauthorizedMessage
	}
	return New(ErrCodeUnauthorized, KindUnauthorized, message).
		WithStatus(401).
		WithSuggestion("Run 'painel auth login' to start a new session")
}

// NewForbidden creates the error returned for a 403 response
func NewForbidden() *Error {
	return New(ErrCodeForbidden, KindForbidden, ForbiddenMessage).
		WithStatus(403).
		WithSuggestion("Ask an administrator for a role that allows this action")
}

// NewServer creates the error returned for any other non-2xx response
func NewServer(status int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("Error %d", status)
	}
	return New(ErrCodeAPI, KindServer, message).WithStatus(status)
}

// NewNetwork wraps a transport failure behind a generic message
func NewNetwork(cause error) *Error {
	return Wrap(ErrCodeNetwork, KindNetwork, NetworkMessage, cause).
		WithSuggestion("Check the api.base_url setting and your connection")
}

// NewDecode wraps a response parse failure
func NewDecode(cause error) *Error {
	return Wrap(ErrCodeDecode, KindDecode, "unexpected response from the server", cause)
}

// NewNotAuthenticated is returned by operations that need a session when none exists
func NewNotAuthenticated() *Error {
	return New(ErrCodeNotAuthenticated, KindUnauthorized, "not logged in").
		WithSuggestion("Run 'painel auth login' first")
}

// NewSessionExpired is returned when a stored token has already expired
func NewSessionExpired() *Error {
	return New(ErrCodeSessionExpired, KindUnauthorized, "session expired").
		WithSuggestion("Run 'painel auth login' to start a new session")
}

// NewPermissionDenied is the local refusal of a role-gated feature
func NewPermissionDenied(feature string) *Error {
	return New(ErrCodePermissionDenied, KindForbidden, ForbiddenMessage).
		WithSuggestion(fmt.Sprintf("Your role cannot use %q", feature))
}

// NewSelfDeleteDenied refuses deleting the account of the logged-in user
func NewSelfDeleteDenied() *Error {
	return New(ErrCodePermissionDenied, KindForbidden, "cannot delete your own account").
		WithSuggestion("Ask another administrator to remove this account")
}

// NewStorageUnreachable wraps a failure to connect to a remote credential store
func NewStorageUnreachable(cause error) *Error {
	return Wrap(ErrCodeStorageUnreachable, KindNetwork, "could not reach the credential store", cause).
		WithSuggestion("Check the storage.redis settings and that the server is up")
}

// NewStorageError wraps a credential storage failure
func NewStorageError(code ErrorCode, message string, cause error) *Error {
	return Wrap(code, KindStorage, message, cause).
		WithSuggestion("Check the storage section of your configuration")
}

// NewConfigError wraps a configuration failure
func NewConfigError(code ErrorCode, message string, cause error) *Error {
	return Wrap(code, KindConfig, message, cause).
		WithSuggestion("Run 'painel config view' to inspect the effective configuration")
}

package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Authentication errors (AUTH-001 to AUTH-099)
	ErrCodeAuthRequired        ErrorCode = "AUTH-001"
	ErrCodeAuthInvalid         ErrorCode = "AUTH-002"
	ErrCodeAuthForbidden       ErrorCode = "AUTH-003"
	ErrCodeAuthIncomplete      ErrorCode = "AUTH-004"
	ErrCodeAuthLoginInProgress ErrorCode = "AUTH-005"

	// Session storage errors (SESSION-001 to SESSION-099)
	ErrCodeSessionCorrupted ErrorCode = "SESSION-001"
	ErrCodeSessionExpired   ErrorCode = "SESSION-002"
	ErrCodeSessionSealed    ErrorCode = "SESSION-003"

	// Backend HTTP errors (HTTP-001 to HTTP-099)
	ErrCodeHTTPNotFound   ErrorCode = "HTTP-001"
	ErrCodeHTTPBadRequest ErrorCode = "HTTP-002"
	ErrCodeHTTPServer     ErrorCode = "HTTP-003"
	ErrCodeHTTPConflict   ErrorCode = "HTTP-004"
	ErrCodeHTTPStatus     ErrorCode = "HTTP-005"
	ErrCodeHTTPContract   ErrorCode = "HTTP-006"

	// Network errors (NET-001 to NET-099)
	ErrCodeNetUnreachable ErrorCode = "NET-001"
	ErrCodeNetTimeout     ErrorCode = "NET-002"

	// Client-side validation errors (VALID-001 to VALID-099)
	ErrCodeValidationRequired ErrorCode = "VALID-001"
	ErrCodeValidationInvalid  ErrorCode = "VALID-002"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid ErrorCode = "CONFIG-001"
	ErrCodeConfigKey     ErrorCode = "CONFIG-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
	ErrCodeFileUnmarshal   ErrorCode = "IO-005"
	ErrCodeFileMarshal     ErrorCode = "IO-006"
)

const docsBase = "https://github.com/tecsupnav/placesadmin#"

// Error represents an enhanced error with code, suggestions, and documentation
type Error struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *Error) Error() string {
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

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Cause
}

// Category returns the code prefix, e.g. "AUTH" for AUTH-002.
func (e *Error) Category() string {
	code := string(e.Code)
	if i := strings.IndexByte(code, '-'); i > 0 {
		return code[:i]
	}
	return code
}

// New creates a new Error
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new Error wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *Error) WithSuggestions(suggestions ...string) *Error {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *Error) WithDocs(url string) *Error {
	e.DocsURL = url
	return e
}

// Common error constructors for frequently used errors

// NewNotLoggedInError is returned by commands that need a session.
func NewNotLoggedInError() *Error {
	return New(ErrCodeAuthRequired, "not logged in").
		WithSuggestion("Run 'placesadmin auth login' to authenticate").
		WithDocs(docsBase + "authentication")
}

// NewInvalidCredentialsError wraps a rejected login.
func NewInvalidCredentialsError(cause error) *Error {
	return Wrap(ErrCodeAuthInvalid, "login rejected by the backend", cause).
		WithSuggestion("Check the email and password").
		WithSuggestion("Make sure the account has staff access")
}

// NewSessionExpiredError is returned when the backend refuses a stored token.
func NewSessionExpiredError(cause error) *Error {
	return Wrap(ErrCodeSessionExpired, "session expired or revoked", cause).
		WithSuggestion("Run 'placesadmin auth login' again").
		WithDocs(docsBase + "authentication")
}

// NewForbiddenError is returned for 403 responses.
func NewForbiddenError(cause error) *Error {
	return Wrap(ErrCodeAuthForbidden, "the current account is not allowed to do this", cause).
		WithSuggestion("Log in with an administrator account")
}

// NewBackendUnreachableError wraps a transport failure.
func NewBackendUnreachableError(baseURL string, cause error) *Error {
	return Wrap(ErrCodeNetUnreachable, fmt.Sprintf("cannot reach backend at %s", baseURL), cause).
		WithSuggestion("Check that the backend is running").
		WithSuggestion("Set the base URL with --api-url or PLACESADMIN_API_URL").
		WithDocs(docsBase + "configuration")
}

// NewRequiredFieldError is the client-side presence check failure.
func NewRequiredFieldError(field string) *Error {
	return New(ErrCodeValidationRequired, fmt.Sprintf("%s is required", field)).
		WithSuggestion(fmt.Sprintf("Provide a value for %s", field))
}

// NewConfigKeyError reports an unknown configuration key.
func NewConfigKeyError(key string) *Error {
	return New(ErrCodeConfigKey, fmt.Sprintf("unknown configuration key: %s", key)).
		WithSuggestion("Run 'placesadmin config view' to list the available keys")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *Error {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *Error {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}

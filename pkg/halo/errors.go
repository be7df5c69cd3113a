package halo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ConfigurationError reports a setup problem the caller must fix, such as
// missing credentials. It is never retried.
type ConfigurationError struct {
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

// AuthenticationError reports bad or missing credentials.
type AuthenticationError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Message, e.Cause)
	}

	return "authentication failed: " + e.Message
}

// Unwrap returns the underlying cause.
func (e *AuthenticationError) Unwrap() error {
	return e.Cause
}

// AuthorizationError reports insufficient permissions (HTTP 403).
type AuthorizationError struct {
	Message string
}

// Error implements the error interface.
func (e *AuthorizationError) Error() string {
	return "authorization failed: " + e.Message
}

// ResourceNotFoundError reports a missing upstream resource (HTTP 404).
type ResourceNotFoundError struct {
	Resource string
	Path     string
}

// Error implements the error interface.
func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Path)
}

// NetworkError reports an HTTP failure status that is not covered by a more
// specific error type.
type NetworkError struct {
	StatusCode int
	Detail     string
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("HTTP %d error: %s", e.StatusCode, e.Detail)
}

// MalformedResponseError reports a 2xx response whose body is not valid JSON.
type MalformedResponseError struct {
	StatusCode int
	Body       string
	Cause      error
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response (status %d): %v", e.StatusCode, e.Cause)
}

// Unwrap returns the underlying decode error.
func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// TransportError reports a failure below HTTP: timeouts, refused
// connections, TLS problems.
type TransportError struct {
	Op    string
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrBaseURLRequired     = errors.New("base URL is required")
	ErrNoAuthStrategy      = errors.New("no authentication configured, set HALO_TOKEN or HALO_USERNAME/HALO_PASSWORD")
	ErrNoAccessToken       = errors.New("access token not found in login response")
	ErrNoLoginTransport    = errors.New("no login transport configured")
	ErrFileNotFound        = errors.New("file not found")
	ErrUploadSourceMissing = errors.New("upload target needs a file path or URL")
	ErrNameRequired        = errors.New("name is required")
	ErrDisplayNameRequired = errors.New("display name is required")
	ErrTitleRequired       = errors.New("title is required")
)

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	var notFound *ResourceNotFoundError

	return errors.As(err, &notFound)
}

// IsUnauthorized checks if the error is an authentication error.
func IsUnauthorized(err error) bool {
	var authErr *AuthenticationError

	return errors.As(err, &authErr)
}

// IsForbidden checks if the error is an authorization error.
func IsForbidden(err error) bool {
	var authzErr *AuthorizationError

	return errors.As(err, &authzErr)
}

// IsConfigurationError checks if the error is a configuration error.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError

	return errors.As(err, &cfgErr)
}

// IsRetryable reports whether err is a transport fault or a server side
// (5xx) failure that may succeed when repeated.
func IsRetryable(err error) bool {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return true
	}

	var netErr *NetworkError

	return errors.As(err, &netErr) && netErr.StatusCode >= 500
}

// StatusCode extracts the HTTP status code carried by err, or 0.
func StatusCode(err error) int {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.StatusCode
	}

	var malformed *MalformedResponseError
	if errors.As(err, &malformed) {
		return malformed.StatusCode
	}

	switch {
	case IsUnauthorized(err):
		return 401
	case IsForbidden(err):
		return 403
	case IsNotFound(err):
		return 404
	}

	return 0
}

// ParseErrorDetail pulls a human readable message out of an error body. It
// prefers the "detail" field, then "message", then the raw text.
func ParseErrorDetail(body []byte) string {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}

	err := json.Unmarshal(body, &payload)
	if err == nil {
		if payload.Detail != "" {
			return payload.Detail
		}

		if payload.Message != "" {
			return payload.Message
		}
	}

	return strings.TrimSpace(string(body))
}

package platform

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrIncompleteResponse is returned when a login response lacks the token
// or the user.
var ErrIncompleteResponse = errors.New("incomplete server response")

// HTTPError is a non-2xx response. Error returns only the extracted
// message so it can be shown to users verbatim.
type HTTPError struct {
	Method     string
	Endpoint   string
	Status     int
	StatusText string
	Message    string
	Body       []byte
}

func (e *HTTPError) Error() string {
	return e.Message
}

// ConnectivityError means no response was received.
type ConnectivityError struct {
	BaseURL string
	Cause   error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("connection error: check that the backend is running at %s (%v)", e.BaseURL, e.Cause)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Cause
}

// ValidationError is a failed client-side presence check. No request was
// sent.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return e.Field + " is required"
}

// ContractError means a request was refused locally because it does not
// match the backend's published contract.
type ContractError struct {
	Method string
	Path   string
	Cause  error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("request %s %s violates the backend contract: %v", e.Method, e.Path, e.Cause)
}

func (e *ContractError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var h *HTTPError
	if errors.As(err, &h) {
		return h.Status
	}
	return 0
}

// IsUnauthorized reports a 401 response.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsNotFound reports a 404 response.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsConnectivity reports a transport failure.
func IsConnectivity(err error) bool {
	var c *ConnectivityError
	return errors.As(err, &c)
}

// errorMessage picks the user-facing message of a failed response: the
// JSON message field (first entry when it is a list of validation
// messages), then the JSON error field, then the raw body when it is not
// JSON, then the status line.
func errorMessage(raw []byte, status int, statusText string) string {
	fallback := fmt.Sprintf("HTTP %d: %s", status, statusText)

	if gjson.ValidBytes(raw) {
		parsed := gjson.ParseBytes(raw)
		if msg := parsed.Get("message"); msg.Exists() {
			if msg.IsArray() {
				if items := msg.Array(); len(items) > 0 && items[0].String() != "" {
					return items[0].String()
				}
			} else if msg.String() != "" {
				return msg.String()
			}
		}
		if e := parsed.Get("error"); e.String() != "" {
			return e.String()
		}
		return fallback
	}

	if strings.TrimSpace(string(raw)) != "" {
		return string(raw)
	}
	return fallback
}

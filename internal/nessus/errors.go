// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package nessus

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ErrorKind classifies a failure returned by the client.
type ErrorKind int

const (
	// InvalidArgument is a local validation failure. No request was sent.
	InvalidArgument ErrorKind = iota + 1
	// TransportError is a remote failure carrying a structured error body or a known HTTP status.
	TransportError
	// UnknownError is any other failure, including connection errors.
	UnknownError
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidArgument:
		return "InvalidArgument"
	case TransportError:
		return "TransportError"
	case UnknownError:
		return "UnknownError"
	default:
		return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

const unknownErrorMessage = "Unknown error occurred"

// Sentinels for errors.Is matching on kind only.
var (
	ErrInvalidArgument = &Error{Kind: InvalidArgument}
	ErrTransport       = &Error{Kind: TransportError}
	ErrUnknown         = &Error{Kind: UnknownError}
)

// Error is the single failure type returned by Client operations.
type Error struct {
	Kind    ErrorKind
	Message string
	// StatusCode is the HTTP status of the failed response, 0 when none was received.
	StatusCode int
	// RetryAfter is the server requested delay from a Retry-After header, if any.
	RetryAfter time.Duration
	// Err is the underlying cause (a *ResponseError for non-2xx responses).
	Err error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return unknownErrorMessage
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind-only sentinels ErrInvalidArgument, ErrTransport and ErrUnknown.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Message != "" {
		return false
	}
	return t.Kind == e.Kind
}

// ResponseError is the cause recorded for a non-2xx response.
type ResponseError struct {
	StatusCode int
	Body       []byte
}

func (e *ResponseError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if len(body) > 512 {
		body = body[:512] + "..."
	}
	if body == "" {
		return fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, body)
}

func invalidArgument(format string, args ...any) *Error {
	return &Error{Kind: InvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// statusMessages maps well-known HTTP statuses to human readable messages.
var statusMessages = map[int]string{
	http.StatusBadRequest:          "Bad Request: Invalid parameters provided",
	http.StatusUnauthorized:        "Unauthorized: Invalid API keys or session expired",
	http.StatusForbidden:           "Forbidden: Insufficient permissions",
	http.StatusNotFound:            "Not Found: The requested resource does not exist",
	http.StatusConflict:            "Conflict: Resource already exists or is in use",
	http.StatusTooManyRequests:     "Rate Limited: Too many requests, please try again later",
	http.StatusInternalServerError: "Internal Server Error: Nessus server error",
	http.StatusServiceUnavailable:  "Service Unavailable: Nessus server is temporarily unavailable",
}

// classify turns a failed round trip into an *Error.
//
// Precedence:
//  1. a JSON body with a non-empty "error" field, whatever the status;
//  2. a known status from statusMessages;
//  3. the cause's own message, or "Unknown error occurred".
//
// The status code and cause are always preserved.
func classify(status int, body []byte, header http.Header, cause error) *Error {
	e := &Error{StatusCode: status, Err: cause, RetryAfter: ParseRetryAfter(header)}

	if msg := errorField(body); msg != "" {
		e.Kind = TransportError
		e.Message = "Nessus API Error: " + msg
		return e
	}
	if msg, ok := statusMessages[status]; ok {
		e.Kind = TransportError
		e.Message = msg
		return e
	}

	e.Kind = UnknownError
	e.Message = unknownErrorMessage
	if cause != nil && cause.Error() != "" {
		e.Message = cause.Error()
	}
	return e
}

// errorField returns the "error" member of a JSON object body, or "".
func errorField(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	res := gjson.GetBytes(body, "error")
	if !res.Exists() || res.Type == gjson.Null {
		return ""
	}
	return strings.TrimSpace(res.String())
}

// ParseRetryAfter returns a server-specified delay indicated by the Retry-After header.
// It supports both seconds and HTTP-date formats. Returns 0 when absent/invalid or when
// the computed delay would be negative.
func ParseRetryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	ra := strings.TrimSpace(h.Get("Retry-After"))
	if ra == "" {
		return 0
	}
	if n, err := strconv.Atoi(ra); err == nil && n >= 0 {
		return time.Duration(n) * time.Second
	}
	if t, err := http.ParseTime(ra); err == nil {
		now := time.Now()
		if t.After(now) {
			return t.Sub(now)
		}
	}
	return 0
}

// KindOf returns the kind of err, or 0 when err is not a *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// StatusCode returns the HTTP status recorded on err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// IsInvalidArgument reports whether err is a local validation failure.
func IsInvalidArgument(err error) bool { return KindOf(err) == InvalidArgument }

// IsNotFound reports whether err carries HTTP 404.
func IsNotFound(err error) bool { return StatusCode(err) == http.StatusNotFound }

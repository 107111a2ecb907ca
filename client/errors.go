package client

import (
	"errors"
	"fmt"
)

// ErrorCode represents the type of error that occurred.
type ErrorCode int

const (
	// ErrUnknown is an unknown error.
	ErrUnknown ErrorCode = iota
	// ErrInvalidURL is returned when a root or composed URL is not a valid absolute URL.
	ErrInvalidURL
	// ErrRequest is returned when the request could not be sent or its response read.
	ErrRequest
	// ErrUploadFailed is returned when the backend answers an upload with a non-2xx status.
	ErrUploadFailed
	// ErrFetchFailed is returned when the backend answers a fetch with a non-2xx status.
	ErrFetchFailed
	// ErrResponseParseFailed is returned when an upload response does not match
	// the shape expected for the backend.
	ErrResponseParseFailed
)

func (c ErrorCode) String() string {
	switch c {
	case ErrInvalidURL:
		return "invalid url"
	case ErrRequest:
		return "request failed"
	case ErrUploadFailed:
		return "upload failed"
	case ErrFetchFailed:
		return "fetch failed"
	case ErrResponseParseFailed:
		return "response parse failed"
	default:
		return "unknown"
	}
}

// Error represents an error from a paste backend.
type Error struct {
	Code    ErrorCode
	Message string

	// StatusCode and Status are set for ErrUploadFailed and ErrFetchFailed.
	StatusCode int
	Status     string

	// Body holds the raw response body for ErrResponseParseFailed.
	Body string

	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("upaste: %s", e.Code)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func statusError(code ErrorCode, statusCode int, status string) *Error {
	return &Error{
		Code:       code,
		Message:    fmt.Sprintf("status %d %s", statusCode, status),
		StatusCode: statusCode,
		Status:     status,
	}
}

func parseError(body string, err error) *Error {
	return &Error{
		Code:    ErrResponseParseFailed,
		Message: fmt.Sprintf("unexpected response body %q", body),
		Body:    body,
		Err:     err,
	}
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsInvalidURL returns true if the error indicates a malformed URL.
func IsInvalidURL(err error) bool {
	return hasCode(err, ErrInvalidURL)
}

// IsUploadFailed returns true if the backend rejected an upload.
func IsUploadFailed(err error) bool {
	return hasCode(err, ErrUploadFailed)
}

// IsFetchFailed returns true if the backend rejected a fetch.
func IsFetchFailed(err error) bool {
	return hasCode(err, ErrFetchFailed)
}

// IsResponseParseFailed returns true if an upload response could not be interpreted.
func IsResponseParseFailed(err error) bool {
	return hasCode(err, ErrResponseParseFailed)
}

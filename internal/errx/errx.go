// Package errx holds the failure taxonomy of the inventory API gateway.
package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError is returned when the API rejected the input. Message is
// the server's text and is shown to the user verbatim.
type ValidationError struct {
	Status  int
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError is returned when the target product no longer exists on the
// server.
type NotFoundError struct {
	ID      int
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("product %d not found", e.ID)
}

// TransportError covers unreachable servers, timeouts and non-2xx responses
// without a structured body.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil && e.Status != 0:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	}
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ErrorKind names a failure class.
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindTransport  ErrorKind = "transport"
)

// Kind classifies err. Errors outside the taxonomy count as transport
// failures.
func Kind(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return KindValidation
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return KindNotFound
	}
	return KindTransport
}

// HTTPStatus maps err to the status a downstream HTTP handler should answer.
func HTTPStatus(err error) int {
	switch Kind(err) {
	case KindNone:
		return http.StatusOK
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

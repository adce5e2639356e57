// Package errs classifies the failures the admin core can produce.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by services and transports.
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrBusy          = errors.New("another operation is in progress for this resource")
	ErrCloudDisabled = errors.New("cloud certificate provider is not configured")
	ErrProxyRejected = errors.New("configuration rejected by the proxy")

	ErrActionNotAllowed = errors.New("action is not allowed in the current certificate state")
)

// Kind names the first validation rule a submission violated.
type Kind string

// Validation kinds, in the order they are checked.
const (
	EmptyDomain        Kind = "EmptyDomain"
	MissingTarget      Kind = "MissingTarget"
	NoUpstreams        Kind = "NoUpstreams"
	EmptyLocation      Kind = "EmptyLocation"
	DuplicateHeader    Kind = "DuplicateHeader"
	InvalidCondition   Kind = "InvalidCondition"
	InvalidListenPorts Kind = "InvalidListenPorts"
	MissingCertificate Kind = "MissingCertificate"
	UnknownCertificate Kind = "UnknownCertificate"
	InvalidInput       Kind = "InvalidInput"
)

// ValidationError is a client-side failure detected before anything is sent
// to a service.
type ValidationError struct {
	Kind   Kind
	Field  string
	Detail string
}

// Validation returns a ValidationError of the given kind.
func Validation(kind Kind, field, detail string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Detail: detail}
}

func (e *ValidationError) Error() string {
	msg := string(e.Kind)
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// ServiceError is an error payload reported by a service.
type ServiceError struct {
	Op      string
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// TransportError is a request that failed before a payload was obtained.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError is unusable date or status input. It is resolved by fallback
// policy and never shown to the operator.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError of the given kind.
func IsValidation(err error, kind Kind) bool {
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Kind == kind
}

// Message returns the operator-facing text for err. Transport failures get a
// generic message; everything else carries its own.
func Message(err error) string {
	var te *TransportError
	if errors.As(err, &te) {
		return "request failed, please retry"
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}

// Package apperr is the client-side error taxonomy. Every failure that
// leaves the HTTP adapter or a resource slice is one of these kinds.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

type Kind string

const (
	KindUnauthorized Kind = "unauthorized"
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindNetwork      Kind = "network"
	KindUnknown      Kind = "unknown"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrNetwork      = errors.New("network error")
	ErrUnknown      = errors.New("unknown error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindUnauthorized:
		return ErrUnauthorized
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	case KindNetwork:
		return ErrNetwork
	default:
		return ErrUnknown
	}
}

// Error is a classified failure. Message is the human-readable text the
// backend sent (or a local description), kept verbatim.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Op      string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.sentinel().Error()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

// Is matches the kind's sentinel so callers can use errors.Is(err, ErrNotFound).
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Validation(msg string, cause error) *Error {
	return &Error{Kind: KindValidation, Message: msg, Err: cause}
}

// KindOf reports the taxonomy kind of err. Unclassified errors are Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf returns the verbatim message of a classified error, or
// err.Error() otherwise.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// Classify guarantees err belongs to the taxonomy. Already classified
// errors pass through; context cancellation and deadlines become Network;
// anything else is wrapped as Unknown.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Op == "" && op != "" {
			cp := *e
			cp.Op = op
			return &cp
		}
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindNetwork, Op: op, Message: err.Error(), Err: err}
	}
	return &Error{Kind: KindUnknown, Op: op, Message: err.Error(), Err: err}
}

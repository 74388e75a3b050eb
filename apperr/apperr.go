// Package apperr is the error taxonomy shared by the gateway and every
// screen controller. Callers switch on Kind instead of probing optional
// response fields.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindSessionExpired
	KindNetwork
	KindRequestFailed
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindSessionExpired:
		return "SessionExpired"
	case KindNetwork:
		return "NetworkError"
	case KindRequestFailed:
		return "RequestFailed"
	case KindValidation:
		return "ValidationError"
	default:
		return "Unknown"
	}
}

// Error is the single error shape returned across the client.
type Error struct {
	Kind       Kind
	StatusCode int    // RequestFailed only
	Message    string // user-facing text
	Field      string // ValidationError only
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindRequestFailed:
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
	case KindValidation:
		if e.Field != "" {
			return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
		}
	}
	if e.Err != nil && e.Message == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func SessionExpired(msg string) *Error {
	return &Error{Kind: KindSessionExpired, Message: msg}
}

func Network(err error) *Error {
	return &Error{Kind: KindNetwork, Message: "could not reach the server", Err: err}
}

// RequestFailed builds the error for a non-2xx, non-403 response. An empty
// server message falls back to the HTTP status text.
func RequestFailed(code int, msg string) *Error {
	if msg == "" {
		msg = http.StatusText(code)
	}
	return &Error{Kind: KindRequestFailed, StatusCode: code, Message: msg}
}

func Validation(field, msg string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: msg}
}

// KindOf reports the taxonomy kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// MessageOf returns the user-facing message for display in a toast.
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

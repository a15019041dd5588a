package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrUnauthorized matches any error caused by a 401 response
var ErrUnauthorized = errors.New("session expired or invalid")

// Kind classifies client errors so callers can present them without
// re-deriving the cause
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUnauthorized
	KindHTTP
	KindNetwork
	KindSchema
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindHTTP:
		return "http"
	case KindNetwork:
		return "network"
	case KindSchema:
		return "schema"
	default:
		return "unknown"
	}
}

// KindOf returns the kind of err
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return KindValidation
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Status == http.StatusUnauthorized {
			return KindUnauthorized
		}
		return KindHTTP
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return KindNetwork
	}
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return KindSchema
	}
	return KindUnknown
}

// HTTPError is a response with a 4xx or 5xx status
type HTTPError struct {
	Status int
	// Message is the backend's own message, shown to the user verbatim
	Message string
	Body    []byte
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses
func (e *HTTPError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// NetworkError means no response was received
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Timeout() {
		return fmt.Sprintf("request to %s timed out", e.URL)
	}
	return fmt.Sprintf("could not reach %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request gave up waiting for the backend
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// SchemaError is a success response whose payload does not match the
// declared schema
type SchemaError struct {
	Path string
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("unexpected response from %s: %v", e.Path, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ValidationError is raised before any request is sent
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// invalid creates a ValidationError
func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// fromValidator converts the first failed binding tag into a ValidationError
func fromValidator(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Reason: err.Error()}
	}

	fe := fieldErrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return invalid(field, "is required")
	case "min":
		if fe.Kind() == reflect.String {
			return invalid(field, "must be at least %s characters", fe.Param())
		}
		return invalid(field, "must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return invalid(field, "must be at most %s characters", fe.Param())
		}
		return invalid(field, "must be at most %s", fe.Param())
	case "gt":
		return invalid(field, "must be greater than %s", fe.Param())
	case "gte":
		return invalid(field, "must be %s or more", fe.Param())
	case "email":
		return invalid(field, "must be a valid email address")
	case "oneof":
		return invalid(field, "must be one of %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return invalid(field, "failed %s validation", fe.Tag())
	}
}

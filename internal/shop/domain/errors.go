package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a Failure. Callers branch on kind, never on message text.
type Kind string

const (
	KindUnknown        Kind = ""
	KindAuthentication Kind = "authentication_error"
	KindAuthorization  Kind = "authorization_error"
	KindValidation     Kind = "validation_error"
	KindNotFound       Kind = "not_found"
)

// Failure is the single base error category for the shop core. Every failure
// the services return is one of these (possibly wrapping a lower-level
// cause), so the boundary can map kinds to responses without parsing
// messages.
//
// Authentication messages are deliberately generic: they must not leak
// whether an account exists.
type Failure struct {
	Kind    Kind
	Message string
	cause   error
}

func (f *Failure) Error() string {
	if f.Message == "" {
		return string(f.Kind)
	}
	return string(f.Kind) + ": " + f.Message
}

func (f *Failure) Unwrap() error { return f.cause }

// Is lets errors.Is match two Failures by kind.
func (f *Failure) Is(target error) bool {
	var other *Failure
	if !errors.As(target, &other) {
		return false
	}
	return f.Kind == other.Kind
}

// WithCause attaches an underlying cause for logging; the caller-facing
// message is unchanged.
func (f *Failure) WithCause(err error) *Failure {
	return &Failure{Kind: f.Kind, Message: f.Message, cause: err}
}

// Authenticationf builds an authentication failure.
func Authenticationf(format string, args ...any) *Failure {
	return &Failure{Kind: KindAuthentication, Message: fmt.Sprintf(format, args...)}
}

// Authorizationf builds an authorization failure.
func Authorizationf(format string, args ...any) *Failure {
	return &Failure{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

// Validationf builds a validation failure.
func Validationf(format string, args ...any) *Failure {
	return &Failure{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a not-found failure.
func NotFoundf(format string, args ...any) *Failure {
	return &Failure{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the Failure kind carried by err, or KindUnknown when err is
// not a Failure.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindUnknown
}

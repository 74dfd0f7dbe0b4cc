// Package apperr carries a machine-readable error kind next to the human
// message, so transport handlers can pick status codes without string
// matching on wrapped errors.
package apperr

import "errors"

type Kind string

const (
	KindNotFound Kind = "not_found"
	KindInvalid  Kind = "invalid_request"
	KindUpstream Kind = "upstream_failure"
	KindInternal Kind = "internal_error"
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func Invalid(msg string) *Error {
	return &Error{Kind: KindInvalid, Msg: msg}
}

func Upstream(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Msg: msg, Err: err}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf walks the wrap chain and returns the kind of the first *Error
// found, or KindInternal for errors that never got classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies failures so callers can decide whether they are fatal.
type Kind string

const (
	KindConfig    Kind = "ConfigError"
	KindExecution Kind = "ExecutionError"
	KindNetwork   Kind = "NetworkError"
	KindStatus    Kind = "StatusError"
	KindParse     Kind = "ParseError"
)

// Error is a classified failure. ID is the issue identifier the failure
// belongs to, when there is one.
type Error struct {
	Kind Kind
	Op   string
	ID   string
	Err  error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Op)
	}
	if e.ID != "" {
		msg = fmt.Sprintf("%s %s", msg, e.ID)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err)
	}
	return msg
}

// Cause lets errors.Cause see through to the underlying error.
func (e *Error) Cause() error { return e.Err }

func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func ConfigErrorf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConfig, Err: errors.Errorf(format, args...)}
}

// WithID returns a copy of e bound to the issue identifier.
func (e *Error) WithID(id string) *Error {
	out := *e
	out.ID = id
	return &out
}

// AsError finds the first *Error in err's chain of wrapped causes.
func AsError(err error) (*Error, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e, true
		}
		causer, ok := err.(interface{ Cause() error })
		if !ok {
			return nil, false
		}
		err = causer.Cause()
	}
	return nil, false
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err was classified as kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

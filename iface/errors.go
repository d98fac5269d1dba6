package iface

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind is the closed set of failures a command can end with.
type ErrorKind int

const (
	UnknownError ErrorKind = iota
	DirError
	FileNotFound
	FileStructureError
	FileWriteError
	ConnectionError
	APIKeyError
	NotFoundError
	LimitError
	ServerError
	JSONError
)

// Message returns the text shown to the user for kind.
func Message(kind ErrorKind) string {
	switch kind {
	case DirError:
		return "config directory error"
	case FileNotFound:
		return "config file error"
	case FileStructureError:
		return "config file structure error"
	case FileWriteError:
		return "config file write error"
	case ConnectionError:
		return "connection error"
	case APIKeyError:
		return "api key error"
	case NotFoundError:
		return "not found error"
	case LimitError:
		return "request limit error"
	case ServerError:
		return "server error"
	case JSONError:
		return "json error"
	}
	return "unknown error"
}

func (k ErrorKind) String() string {
	return Message(k)
}

// Error ties a failure cause to its kind.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return Message(e.Kind)
	}
	return fmt.Sprintf("%s: %v", Message(e.Kind), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf creates an *Error of the given kind with a formatted cause.
func Errorf(kind ErrorKind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Err: errors.Errorf(format, args...)}
}

// Wrap attaches kind to err, annotating it with msg. A nil err stays nil.
func Wrap(kind ErrorKind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: errors.Wrap(err, msg)}
}

// KindOf reports the kind of err. Errors that carry no kind are
// UnknownError.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return UnknownError
}

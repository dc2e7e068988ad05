// Package errs defines the error values shared by every pressio plugin.
//
// Plugins report failures in two ways at once: the Go error returned from the
// call, and an inspectable error state (code + message) kept on the plugin
// itself. Both are derived from the same *Error value so they never disagree.
//
// Sentinel errors classify failures and can be tested with errors.Is:
//
//	if err := plugin.CheckOptions(opts); errors.Is(err, errs.ErrExtraKeys) {
//	    // unknown option keys were supplied
//	}
package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrUnsupported is returned by the default many-buffer routines when more than
	// one input or output buffer is supplied to a plugin that does not support it.
	ErrUnsupported = errors.New("operation not supported")

	// ErrExtraKeys indicates that an options bag contained keys with the plugin's
	// prefix that the plugin does not declare.
	ErrExtraKeys = errors.New("extra keys")

	// ErrInvalidOption indicates an option value outside of its accepted domain.
	ErrInvalidOption = errors.New("invalid option")

	// ErrInvalidThreadCount indicates a thread count below one.
	ErrInvalidThreadCount = errors.New("invalid thread count")

	// ErrUnknownPlugin indicates a registry lookup for a name that was never registered.
	ErrUnknownPlugin = errors.New("unknown plugin")

	// ErrInvalidGrouping indicates buffer group assignments that are inconsistent
	// with the supplied buffers.
	ErrInvalidGrouping = errors.New("invalid grouping")

	// ErrTypeMismatch indicates a buffer whose dtype or shape does not match what
	// an operation expects.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrCorrupted indicates compressed input that could not be decoded.
	ErrCorrupted = errors.New("corrupted input")
)

// CodeGeneric is the code used for failures that carry no more specific code.
const CodeGeneric = 1

// Error is a coded error. Code zero is never used for an Error value; a nil
// error means success.
type Error struct {
	Code int
	Msg  string
	Err  error
}

// New creates an Error with the given code wrapping a sentinel. The message is
// formatted from format and args; when format is empty the sentinel's text is used.
func New(code int, sentinel error, format string, args ...any) *Error {
	msg := ""
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	} else if sentinel != nil {
		msg = sentinel.Error()
	}
	if code == 0 {
		code = CodeGeneric
	}

	return &Error{Code: code, Msg: msg, Err: sentinel}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Msg
}

// Unwrap returns the wrapped sentinel.
func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the status code carried by err.
//
// Returns:
//   - 0 if err is nil
//   - the Code of the first *Error in the chain
//   - CodeGeneric for any other error
func Code(err error) int {
	if err == nil {
		return 0
	}

	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}

	return CodeGeneric
}

// Message returns the message carried by err, or "" for nil.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var coded *Error
	if errors.As(err, &coded) {
		return coded.Msg
	}

	return err.Error()
}

// From converts any error to an *Error, keeping an existing *Error unchanged.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	if coded, ok := err.(*Error); ok {
		return coded
	}

	// keep the whole chain so wrapped and joined errors stay inspectable
	return &Error{Code: Code(err), Msg: err.Error(), Err: err}
}

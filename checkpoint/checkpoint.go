// Package checkpoint decorates errors with caller information, resulting in
// something similar to a stacktrace. Every error attached to a checkpoint
// stays matchable with errors.Is and retrievable with errors.As.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
)

// From wraps err in a new checkpoint carrying the caller's file and line.
// It returns nil if err is nil.
func From(err error) error {
	// io.EOF and io.ErrUnexpectedEOF must be passed through untouched,
	// many callers compare them with ==.
	// https://github.com/golang/go/issues/39155
	if err == io.EOF {
		return io.EOF
	}
	if err == io.ErrUnexpectedEOF {
		return io.ErrUnexpectedEOF
	}

	if err == nil {
		return nil
	}

	_, file, line, ok := runtime.Caller(1)

	return &checkpoint{
		err:  err,
		prev: nil,

		callerOk: ok,
		file:     filepath.Base(file),
		line:     line,
	}
}

// Wrap creates a checkpoint from prev and attaches err as an additional
// description. It returns nil if prev is nil, so call sites can wrap
// unconditionally:
//  func someFunction() error {
//  	err := somethingThatMayFail()
//  	return checkpoint.Wrap(err, ErrSomethingWentWrong)
//  }
// Both prev and err can then be checked with errors.Is on the result.
func Wrap(prev, err error) error {
	if prev == io.EOF {
		return io.EOF
	}

	if prev == nil {
		return nil
	}

	_, file, line, ok := runtime.Caller(1)

	return &checkpoint{
		err:  err,
		prev: prev,

		callerOk: ok,
		file:     filepath.Base(file),
		line:     line,
	}
}

type checkpoint struct {
	err  error
	prev error

	callerOk bool
	file     string
	line     int
}

func (e *checkpoint) Error() string {
	caller := "File: unknown"
	if e.callerOk {
		caller = fmt.Sprintf("File: %s:%d", e.file, e.line)
	}

	if e.prev == nil {
		return fmt.Sprintf("%s\n\t%v", caller, e.err)
	}

	// A prev error which is no checkpoint itself gets indented the same way
	// so that the chain stays readable.
	prevErrString := e.prev.Error()
	if _, ok := e.prev.(*checkpoint); !ok {
		prevErrString = "File: unknown\n\t" + strings.ReplaceAll(prevErrString, "\n", "\n\t")
	}

	return fmt.Sprintf("%s\n\t%v\n%v", caller, e.err, prevErrString)
}

func (e *checkpoint) Unwrap() error {
	return e.prev
}

func (e *checkpoint) Is(target error) bool {
	return errors.Is(e.err, target)
}

func (e *checkpoint) As(target interface{}) bool {
	return errors.As(e.err, target)
}

// Package checkpoint decorates errors with the location they passed through.
// Every checkpoint keeps the error it describes and the error it wraps, so
// both stay reachable through errors.Is and errors.As.
//
// The message of a checkpoint stays on one line ("describing error: cause").
// The recorded locations are available separately through Trail, which is
// meant for debug logging.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
)

// From marks err with the location of the caller.
// It returns nil if err == nil.
func From(err error) error {
	// io.EOF must be returned as io.EOF directly
	// https://github.com/golang/go/issues/39155
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return err
	}

	if err == nil {
		return nil
	}

	return newCheckpoint(nil, err)
}

// Wrap marks prev with the location of the caller and describes it by err.
// It returns nil if prev == nil, which allows predefined sentinel errors to be
// attached unconditionally:
//  var ErrReadDir = errors.New("could not read the directory")
//
//  func readDir() error {
//  	err := readSector()
//  	return checkpoint.Wrap(err, ErrReadDir)
//  }
// Callers can then check errors.Is(err, ErrReadDir) as well as test for the
// cause returned by readSector.
func Wrap(prev, err error) error {
	// io.EOF must be returned as io.EOF directly
	// https://github.com/golang/go/issues/39155
	if prev == io.EOF {
		return io.EOF
	}

	if prev == nil {
		return nil
	}

	return newCheckpoint(err, prev)
}

// Trail lists the locations ("file.go:42") recorded by all checkpoints in the
// chain of err, outermost first.
func Trail(err error) []string {
	var trail []string
	for err != nil {
		var c *checkpoint
		if !errors.As(err, &c) {
			break
		}

		if c.callerOk {
			trail = append(trail, fmt.Sprintf("%s:%d", c.file, c.line))
		} else {
			trail = append(trail, "unknown")
		}
		err = c.prev
	}

	return trail
}

func newCheckpoint(err, prev error) *checkpoint {
	// Skip newCheckpoint and From / Wrap.
	_, file, line, ok := runtime.Caller(2)

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
	if e.err == nil {
		return e.prev.Error()
	}
	if e.prev == nil {
		return e.err.Error()
	}

	return e.err.Error() + ": " + e.prev.Error()
}

func (e *checkpoint) Unwrap() error {
	return e.prev
}

func (e *checkpoint) Is(target error) bool {
	return e.err != nil && errors.Is(e.err, target)
}

func (e *checkpoint) As(target interface{}) bool {
	return e.err != nil && errors.As(e.err, target)
}

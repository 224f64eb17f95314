package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

var (
	ErrParse        = eris.New("source could not be parsed")
	ErrIO           = eris.New("source could not be read or written")
	ErrInvalidID    = eris.New("invalid object id")
	ErrInvalidShape = eris.New("document has an unusable shape")
)

// ParseError is a source file whose content is not valid for its format.
type ParseError struct {
	Source string
	Cause  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// IOError is a failed filesystem operation on Path.
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// SourceErrors collects the per-file failures of one read. The data of every
// other file is still returned alongside it.
type SourceErrors struct {
	Errors []error
}

func (e *SourceErrors) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d source(s) failed: %s", len(e.Errors), strings.Join(msgs, "; "))
}

func (e *SourceErrors) Unwrap() []error { return e.Errors }

// Sources returns the path of every failed file in order.
func (e *SourceErrors) Sources() []string {
	out := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		var perr *ParseError
		var ioerr *IOError
		switch {
		case errors.As(err, &perr):
			out = append(out, perr.Source)
		case errors.As(err, &ioerr):
			out = append(out, ioerr.Path)
		}
	}
	return out
}

func (e *SourceErrors) add(err error) {
	e.Errors = append(e.Errors, err)
}

func (e *SourceErrors) orNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

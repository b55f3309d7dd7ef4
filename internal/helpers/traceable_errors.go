package helpers

import (
	"strings"

	"github.com/ztrue/tracerr"
)

// Error holds one or more errors, each with the stack of the place it was
// created or first wrapped. The zero value means no error.
type Error struct {
	errs []tracerr.Error
}

var NilError = Error{}

// IsNil accepts plain errors as well as Error values and pointers.
func IsNil(err error) bool {
	switch e := err.(type) {
	case nil:
		return true
	case Error:
		return len(e.errs) == 0
	case *Error:
		return e == nil || len(e.errs) == 0
	}
	return false
}

var _errorIndent = ".  "

func (e Error) Error() string {
	if len(e.errs) == 1 {
		return e.errs[0].Error()
	}
	messages := make([]string, len(e.errs))
	for i, err := range e.errs {
		messages[i] = Indent(err.Error(), _errorIndent)
	}
	return strings.Join(messages, "\n")
}

// String includes the stack of every error.
func (e Error) String() string {
	var b strings.Builder
	for _, err := range e.errs {
		b.WriteString(strings.Repeat("-", 79))
		b.WriteByte('\n')
		b.WriteString(tracerr.Sprint(err))
		b.WriteByte('\n')
	}
	return b.String()
}

func (e Error) Unwrap() []error {
	return MapSlice(e.errs, func(err tracerr.Error) error { return err.Unwrap() })
}

func (e Error) NumErrors() int {
	return len(e.errs)
}

func Wrap(err error) Error {
	switch e := err.(type) {
	case Error:
		return e
	case *Error:
		if e != nil {
			return *e
		}
	}
	if IsNil(err) {
		return NilError
	}
	return Error{[]tracerr.Error{tracerr.Wrap(err)}}
}

func Errorf(format string, args ...any) Error {
	return Error{[]tracerr.Error{tracerr.Errorf(format, args...)}}
}

// Join flattens errs into one Error, dropping the nil ones.
func Join(errs ...Error) Error {
	result := NilError
	for _, err := range errs {
		result.errs = append(result.errs, err.errs...)
	}
	return result
}

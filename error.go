package micropy

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	SyntaxError ErrorKind = iota
	NameError
	TypeError
	ArithmeticError
	IndexError
	IOError
	RecursionError
)

func (k ErrorKind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case NameError:
		return "NameError"
	case TypeError:
		return "TypeError"
	case ArithmeticError:
		return "ArithmeticError"
	case IndexError:
		return "IndexError"
	case IOError:
		return "IOError"
	case RecursionError:
		return "RecursionError"
	}
	panic("unreachable")
}

// Error is the single error type of the scanner, parser and evaluator.
// Every error is fatal to the run that produced it.
type Error struct {
	Kind ErrorKind
	pos  Pos
	msg  string
	// incomplete is set when a syntax error was caused by reaching the end
	// of input, so that an interactive caller can ask for more text.
	incomplete bool
}

func NewError(kind ErrorKind, pos Pos, format string, args ...interface{}) Error {
	return Error{
		Kind: kind,
		pos:  pos,
		msg:  fmt.Sprintf(format, args...),
	}
}

func NewSyntaxError(pos Pos, format string, args ...interface{}) Error {
	return NewError(SyntaxError, pos, format, args...)
}

func NewNameError(pos Pos, format string, args ...interface{}) Error {
	return NewError(NameError, pos, format, args...)
}

func NewTypeError(pos Pos, format string, args ...interface{}) Error {
	return NewError(TypeError, pos, format, args...)
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.pos, e.Kind, e.msg)
}

func (e Error) Pos() Pos {
	return e.pos
}

func (e Error) Message() string {
	return e.msg
}

// IsKind reports whether err is, or wraps, an Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsIncomplete reports whether err is a syntax error raised at end of input.
func IsIncomplete(err error) bool {
	var e Error
	return errors.As(err, &e) && e.incomplete
}

package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrUnresolvedIdentifier = NewError("unresolved identifier")
	ErrNotCallable          = NewError("value is not callable")
	ErrMalformedSpecialForm = NewError("malformed special form")
	ErrTypeMismatch         = NewError("type mismatch")
	ErrArityMismatch        = NewError("arity mismatch")
	ErrParse                = NewError("parse error")
	ErrMaxDepthExceeded     = NewError("maximum call depth exceeded")
	ErrExprEvaluate         = NewError("expression evaluation failed")
	ErrReadInput            = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
//
// Errors derived from a sentinel with [Error.With], [Error.Wrap] or
// [Error.WithPosition] still match that sentinel under [errors.Is].
type Error struct {
	root  *Error      // Sentinel this error was derived from
	msg   string      // Base message
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

func (e *Error) sentinel() *Error {
	if e.root != nil {
		return e.root
	}

	return e
}

// Error implements the error interface.
//
// The message is rendered as "<msg> [<attrs>]: <err>", omitting each part
// that is not set.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	if len(e.attrs) > 0 {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteByte('[')

		for i, a := range e.attrs {
			if i > 0 {
				sb.WriteByte(' ')
			}

			sb.WriteString(a.String())
		}

		sb.WriteByte(']')
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.sentinel() == t.sentinel()
}

// Attrs returns a copy of the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr {
	return append([]slog.Attr(nil), e.attrs...)
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		root:  e.sentinel(),
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		root:  e.sentinel(),
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// WithPosition adds the source line and column to the error.
func (e *Error) WithPosition(pos Position) *Error {
	return e.With(
		slog.Int("line", pos.Line),
		slog.Int("column", pos.Column),
	)
}

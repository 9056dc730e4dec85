package lang

import (
	"context"
	"strings"
)

// Value is the result of evaluating a [Node].
//
// The set of values is closed: [Number], [String], *[Function], *[Builtin]
// and [Unit].
type Value interface {
	Kind() Kind

	value()
}

// Number is the only numeric kind.
type Number float64

// String is a string value.
type String string

// Function is a user-defined callable created by defun or lambda.
type Function struct {
	// Name is the name given by defun; it is empty for lambdas.
	Name   string
	Params []string
	Body   []Node
	// Closure is the environment the function was defined in. Under
	// [ScopeLexical] a call's parameter frame is layered over it.
	Closure *Env
}

// BuiltinFunc implements a [Builtin]. It receives its arguments unevaluated
// along with the caller's environment, and decides itself which arguments to
// evaluate.
type BuiltinFunc func(
	ctx context.Context,
	ev *Evaluator,
	args *List,
	env *Env,
) (*Env, Value, error)

// Builtin is a callable implemented in Go.
type Builtin struct {
	Name string
	Fn   BuiltinFunc
}

// Unit is the absence of a value.
type Unit struct{}

// None is the value of an empty program or function body.
var None Value = Unit{}

func (Number) value()    {}
func (String) value()    {}
func (*Function) value() {}
func (*Builtin) value()  {}
func (Unit) value()      {}

func (Number) Kind() Kind    { return KindNumber }
func (String) Kind() Kind    { return KindString }
func (*Function) Kind() Kind { return KindFunction }
func (*Builtin) Kind() Kind  { return KindBuiltin }
func (Unit) Kind() Kind      { return KindNone }

// FormatValue renders v for display: numbers plainly, strings quoted,
// functions and builtins as "#<...>", and [None] as "none".
func FormatValue(v Value) string {
	switch v := v.(type) {
	case Number:
		return formatNumber(float64(v))

	case String:
		return `"` + string(v) + `"`

	case *Function:
		var sb strings.Builder

		sb.WriteString("#<function ")

		if v.Name != "" {
			sb.WriteString(v.Name)
			sb.WriteByte(' ')
		}

		sb.WriteByte('(')
		sb.WriteString(strings.Join(v.Params, " "))
		sb.WriteString(")>")

		return sb.String()

	case *Builtin:
		return "#<builtin " + v.Name + ">"

	case Unit:
		return "none"

	default:
		return "#<unknown>"
	}
}

// display renders v like [FormatValue] except that strings are unquoted.
func display(v Value) string {
	if s, ok := v.(String); ok {
		return string(s)
	}

	return FormatValue(v)
}

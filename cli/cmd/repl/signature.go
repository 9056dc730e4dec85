package repl

import (
	"strings"

	"github.com/ardnew/tlisp/lang"
)

// builtinParams describes the arguments of the builtins, which carry no
// parameter list of their own. A leading "..." marks a variadic parameter.
var builtinParams = map[string][]string{
	"add":         {"...number"},
	"define":      {"name", "value"},
	"defun":       {"name", "params", "...body"},
	"lambda":      {"params", "...body"},
	"!log!":       {"value"},
	"!debug!":     {},
	"expr":        {"source"},
	"getenv":      {"name"},
	"path-prefix": {"key", "...prefix"},
}

// call describes the innermost list enclosing the cursor.
type call struct {
	head     string // identifier in head position
	argIndex int    // 0-based index of the argument under the cursor
	inCall   bool   // cursor is inside a list with an identifier head
}

// detectCall scans input up to cursor for the innermost unclosed list and
// reports its head identifier and which argument the cursor is on.
func detectCall(input string, cursor int) call {
	input = input[:min(max(cursor, 0), len(input))]

	// Offsets of unclosed open parens, innermost last.
	var open []int

	quoted := false

	for i, r := range input {
		switch {
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '(':
			open = append(open, i)
		case r == ')' && len(open) > 0:
			open = open[:len(open)-1]
		}
	}

	if len(open) == 0 {
		return call{}
	}

	body := input[open[len(open)-1]+1:]

	fields := splitArgs(body)
	if len(fields) == 0 || strings.ContainsAny(fields[0], `()"`) {
		return call{}
	}

	// Index of the element under the cursor; the head is element 0.
	elem := len(fields) - 1
	if endsInSpace(body) {
		elem++
	}

	if elem == 0 {
		// Still typing the head.
		return call{}
	}

	return call{head: fields[0], argIndex: elem - 1, inCall: true}
}

// splitArgs splits the body of a list into its top-level elements. Nested
// lists and strings count as one element each.
func splitArgs(body string) []string {
	var (
		fields []string
		depth  int
		quoted bool
		start  = -1
	)

	flush := func(end int) {
		if start >= 0 {
			fields = append(fields, body[start:end])
			start = -1
		}
	}

	for i, r := range body {
		switch {
		case quoted:
			if r == '"' {
				quoted = false
			}
		case r == '"':
			if start < 0 {
				start = i
			}

			quoted = true
		case r == '(':
			if start < 0 {
				start = i
			}

			depth++
		case r == ')':
			depth--
		case depth == 0 && isSpace(r):
			flush(i)

			continue
		default:
			if start < 0 {
				start = i
			}
		}
	}

	flush(len(body))

	return fields
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }

func endsInSpace(s string) bool {
	return s != "" && isSpace(rune(s[len(s)-1]))
}

// signature returns the parameter names of the function or builtin bound to
// name in env.
func signature(env *lang.Env, name string) (params []string, ok bool) {
	v, err := env.Lookup(name)
	if err != nil {
		return nil, false
	}

	switch fn := v.(type) {
	case *lang.Function:
		return fn.Params, true
	case *lang.Builtin:
		params, ok = builtinParams[fn.Name]

		return params, ok
	default:
		return nil, false
	}
}

// renderSignatureHint renders (name params...) with the parameter at argIndex
// highlighted. A variadic parameter stays highlighted for every later
// argument.
func renderSignatureHint(name string, params []string, argIndex int) string {
	var b strings.Builder

	b.WriteString(signatureStyle.Render("("))
	b.WriteString(signatureNameStyle.Render(name))

	for i, p := range params {
		b.WriteString(signatureStyle.Render(" "))

		variadic := strings.HasPrefix(p, "...")
		if argIndex == i || (variadic && argIndex > i) {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}

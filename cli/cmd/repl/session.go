package repl

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ardnew/tlisp/lang"
)

// session is the evaluation state behind the REPL. Each input is evaluated
// against the environment left by the previous one.
type session struct {
	root *lang.Env
	env  *lang.Env
	opts []lang.Option
}

func newSession(root, env *lang.Env, opts ...lang.Option) *session {
	if root == nil {
		root = lang.Base()
	}

	if env == nil {
		env = root
	}

	return &session{root: root, env: env, opts: opts}
}

// Eval evaluates input and returns the formatted result along with anything
// the diagnostic builtins wrote. The environment only advances when
// evaluation succeeds.
func (s *session) Eval(
	ctx context.Context,
	input string,
) (result, output string, err error) {
	var out bytes.Buffer

	opts := append(slices.Clone(s.opts), lang.WithOutput(&out))

	prog, err := lang.ParseString(ctx, input, opts...)
	if err != nil {
		return "", out.String(), err
	}

	env, value, err := lang.Evaluate(ctx, prog, s.env, opts...)
	if err != nil {
		return "", out.String(), err
	}

	s.env = env

	return lang.FormatValue(value), out.String(), nil
}

// Reset discards every binding made during the session.
func (s *session) Reset() { s.env = s.root }

// Env returns the current environment.
func (s *session) Env() *lang.Env { return s.env }

// Describe lists the bindings made during the session, one per line, sorted
// by name. Names still bound to their root value are omitted.
func (s *session) Describe() string {
	var b strings.Builder

	for _, name := range s.env.Names() {
		v, err := s.env.Lookup(name)
		if err != nil {
			continue
		}

		if rv, err := s.root.Lookup(name); err == nil && rv == v {
			continue
		}

		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(lang.FormatValue(v)))
	}

	if b.Len() == 0 {
		return hintStyle.Render("  (no bindings)")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

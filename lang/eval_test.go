package lang

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/tlisp/log"
)

// run parses and evaluates source against a fresh base environment.
func run(t *testing.T, source string, opts ...Option) (*Env, Value, error) {
	t.Helper()

	prog, err := Parse(source, opts...)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", source, err)
	}

	return Evaluate(t.Context(), prog, NewBaseEnv(), opts...)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{name: "number", input: "1", want: Number(1)},
		{name: "last value", input: "1 2", want: Number(2)},
		{name: "string", input: `"a"`, want: String("a")},
		{name: "empty program", input: "", want: None},
		{name: "empty list", input: "()", want: None},
		{name: "add", input: "(add 1 2)", want: Number(3)},
		{name: "add nothing", input: "(add)", want: Number(0)},
		{name: "nested add", input: "(add 1 (add 1 1))", want: Number(3)},
		{
			name:  "defun then call",
			input: "(defun add-one (a) (add 1 a)) (add-one 3)",
			want:  Number(4),
		},
		{
			name: "defines in body",
			input: `(defun dumb-add (a b)
			          (define a-other (add a 3))
			          (define b-other (add b 5))
			          (add a-other b-other))
			        (dumb-add 4 10)`,
			want: Number(22),
		},
		{
			name:  "lambda proxy",
			input: "(define add-proxy (lambda (a b) (add a b))) (define a 5) (add-proxy a a)",
			want:  Number(10),
		},
		{
			name:  "immediate lambda",
			input: "((lambda (a) (add a 1)) 3)",
			want:  Number(4),
		},
		{name: "empty lambda", input: "((lambda ()))", want: None},
		{name: "define value", input: "(define x 7)", want: Number(7)},
		{
			name:  "nested user calls",
			input: "(defun twice (n) (add n n)) (defun quad (n) (twice (twice n))) (quad 3)",
			want:  Number(12),
		},
		{
			name:  "arguments thread environment",
			input: "(defun second (a b) b) (second (define z 5) z)",
			want:  Number(5),
		},
		{
			name:  "extra arguments ignored",
			input: "(defun first (a) a) (first 1 2 3)",
			want:  Number(1),
		},
		{
			name:  "higher order",
			input: "(defun apply-to (f x) (f x)) (apply-to (lambda (n) (add n 10)) 5)",
			want:  Number(15),
		},
		{
			name:  "closure over parameter",
			input: "(defun adder (n) (lambda (x) (add x n))) ((adder 3) 4)",
			want:  Number(7),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got, err := run(t, tt.input)
			if err != nil {
				t.Fatalf("Evaluate(%q) error: %v", tt.input, err)
			}

			if got != tt.want {
				t.Errorf("Evaluate(%q) = %s, want %s",
					tt.input, FormatValue(got), FormatValue(tt.want))
			}
		})
	}
}

func TestEvaluate_DefunReturnsFunction(t *testing.T) {
	env, got, err := run(t, "(defun f (a b) a)")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}

	fn, ok := got.(*Function)
	if !ok {
		t.Fatalf("value is %T, want *Function", got)
	}

	if bound, _ := env.Lookup("f"); bound != fn {
		t.Errorf("f is bound to %v, want the returned function", bound)
	}

	if got, want := FormatValue(fn), "#<function f (a b)>"; got != want {
		t.Errorf("FormatValue = %q, want %q", got, want)
	}
}

func TestEvaluate_Shadowing(t *testing.T) {
	env, _, err := run(t, `(define a "a") (define b "b") (define c a) (define a "new")`)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}

	for name, want := range map[string]Value{
		"a": String("new"),
		"b": String("b"),
		"c": String("a"),
	} {
		got, err := env.Lookup(name)
		if err != nil {
			t.Errorf("Lookup(%q) error: %v", name, err)

			continue
		}

		if got != want {
			t.Errorf("Lookup(%q) = %s, want %s", name, FormatValue(got), FormatValue(want))
		}
	}
}

func TestEvaluate_CallDoesNotLeakBindings(t *testing.T) {
	_, _, err := run(t, "(defun f () (define inner 1)) (f) inner")
	if !errors.Is(err, ErrUnresolvedIdentifier) {
		t.Errorf("error = %v, want ErrUnresolvedIdentifier", err)
	}

	_, _, err = run(t, "(defun second (a b) b) (second (define z 5) z) z")
	if !errors.Is(err, ErrUnresolvedIdentifier) {
		t.Errorf("argument binding leaked: error = %v", err)
	}

	_, _, err = run(t, "((define g (lambda (x) x)) 1) g")
	if !errors.Is(err, ErrUnresolvedIdentifier) {
		t.Errorf("head binding leaked: error = %v", err)
	}
}

func TestEvaluate_Scope(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		lexical    Value
		lexicalErr error
		dynamic    Value
	}{
		{
			name:    "free identifier rebound after definition",
			input:   "(define x 1) (defun get-x () x) (define x 2) (get-x)",
			lexical: Number(1),
			dynamic: Number(2),
		},
		{
			name: "free identifier bound by two callers",
			input: `(define y "global")
			        (defun show () y)
			        (defun caller-a (y) (show))
			        (defun caller-b (y) (show))
			        (caller-a "a") (caller-b "b")`,
			lexical: String("global"),
			dynamic: String("b"),
		},
		{
			name:    "lambda sees defining scope",
			input:   "(define n 1) (define get-n (lambda () n)) (defun call (n) (get-n)) (call 5)",
			lexical: Number(1),
			dynamic: Number(5),
		},
		{
			// A closure captures only the names bound before it.
			name:       "forward reference to later defun",
			input:      "(defun f () (g)) (defun g () 1) (f)",
			lexicalErr: ErrUnresolvedIdentifier,
			dynamic:    Number(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got, err := run(t, tt.input, WithScope(ScopeLexical))

			switch {
			case tt.lexicalErr != nil:
				if !errors.Is(err, tt.lexicalErr) {
					t.Errorf("lexical error = %v, want %v", err, tt.lexicalErr)
				}
			case err != nil:
				t.Fatalf("lexical error: %v", err)
			case got != tt.lexical:
				t.Errorf("lexical = %s, want %s", FormatValue(got), FormatValue(tt.lexical))
			}

			_, got, err = run(t, tt.input, WithScope(ScopeDynamic))
			if err != nil {
				t.Fatalf("dynamic error: %v", err)
			}

			if got != tt.dynamic {
				t.Errorf("dynamic = %s, want %s", FormatValue(got), FormatValue(tt.dynamic))
			}
		})
	}
}

func TestEvaluate_ScopeFreeIdentifier(t *testing.T) {
	input := "(defun show () y) (defun caller (y) (show)) (caller 9)"

	_, _, err := run(t, input)
	if !errors.Is(err, ErrUnresolvedIdentifier) {
		t.Errorf("lexical error = %v, want ErrUnresolvedIdentifier", err)
	}

	_, got, err := run(t, input, WithScope(ScopeDynamic))
	if err != nil || got != Number(9) {
		t.Errorf("dynamic = %v, %v; want 9", got, err)
	}
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "undefined identifier", input: "nope", want: ErrUnresolvedIdentifier},
		{name: "undefined in call", input: "(add 1 nope)", want: ErrUnresolvedIdentifier},
		{name: "undefined head", input: "(nope 1)", want: ErrUnresolvedIdentifier},
		{name: "unbound parameter", input: "(defun f (a b) b) (f 1)", want: ErrUnresolvedIdentifier},
		{name: "number head", input: "(1 2)", want: ErrNotCallable},
		{name: "string head", input: `("a")`, want: ErrNotCallable},
		{name: "none head", input: "(())", want: ErrNotCallable},
		{name: "add string", input: `(add "a" 1)`, want: ErrTypeMismatch},
		{name: "add function", input: `(add add)`, want: ErrTypeMismatch},
		{name: "define number name", input: "(define 1 2)", want: ErrMalformedSpecialForm},
		{name: "define missing value", input: "(define x)", want: ErrMalformedSpecialForm},
		{name: "define nothing", input: "(define)", want: ErrMalformedSpecialForm},
		{name: "defun params not list", input: "(defun f x x)", want: ErrMalformedSpecialForm},
		{name: "defun name not identifier", input: `(defun "f" () 1)`, want: ErrMalformedSpecialForm},
		{name: "defun missing params", input: "(defun f)", want: ErrMalformedSpecialForm},
		{name: "lambda param not identifier", input: "(lambda (1) 1)", want: ErrMalformedSpecialForm},
		{name: "lambda missing params", input: "(lambda)", want: ErrMalformedSpecialForm},
		{name: "error in body", input: "(defun f () (add \"x\")) (f)", want: ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("Evaluate(%q) error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestEvaluate_ErrorPosition(t *testing.T) {
	_, _, err := run(t, "(add 1\n  missing)")
	if !errors.Is(err, ErrUnresolvedIdentifier) {
		t.Fatalf("error = %v, want ErrUnresolvedIdentifier", err)
	}

	if want := "name=missing line=2 column=3"; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not contain %q", err.Error(), want)
	}
}

func TestEvaluate_StrictArity(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "too few", input: "(defun f (a b) a) (f 1)"},
		{name: "too many", input: "(defun f (a) a) (f 1 2)"},
		{name: "lambda", input: "((lambda () 1) 2)"},
		{name: "define extra", input: "(define x 1 2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.input, WithStrictArity(true))
			if !errors.Is(err, ErrArityMismatch) {
				t.Errorf("strict error = %v, want ErrArityMismatch", err)
			}

			_, _, err = run(t, tt.input)
			if errors.Is(err, ErrArityMismatch) {
				t.Errorf("lenient error = %v, want no arity error", err)
			}
		})
	}

	_, got, err := run(t, "(defun f (a b) (add a b)) (f 1 2)", WithStrictArity(true))
	if err != nil || got != Number(3) {
		t.Errorf("exact arity = %v, %v; want 3", got, err)
	}
}

func TestEvaluate_MaxDepth(t *testing.T) {
	input := "(defun spin (n) (spin n)) (spin 1)"

	ev := NewEvaluator(WithMaxDepth(25))

	prog, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	_, _, err = ev.Evaluate(t.Context(), prog, NewBaseEnv())
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Fatalf("error = %v, want ErrMaxDepthExceeded", err)
	}

	if ev.depth != 0 {
		t.Errorf("depth after failure = %d, want 0", ev.depth)
	}

	// The same evaluator stays usable.
	_, got, err := ev.Evaluate(t.Context(), &NumberConst{Value: 1}, nil)
	if err != nil || got != Number(1) {
		t.Errorf("after failure = %v, %v; want 1", got, err)
	}

	_, got, err = run(t,
		"(defun a (n) (add n 1)) (defun b (n) (a (a n))) (defun c (n) (b (b n))) (c 0)",
		WithMaxDepth(3))
	if err != nil || got != Number(4) {
		t.Errorf("within limit = %v, %v; want 4", got, err)
	}
}

func TestEvaluate_NilArguments(t *testing.T) {
	env, got, err := Evaluate(t.Context(), nil, nil)
	if err != nil || got != None {
		t.Errorf("Evaluate(nil) = %v, %v; want none", got, err)
	}

	if env != Base() {
		t.Errorf("Evaluate with nil env did not use Base()")
	}

	ev := NewEvaluator()

	_, _, err = ev.Call(t.Context(), Number(1), nil, Base())
	if !errors.Is(err, ErrNotCallable) {
		t.Errorf("Call(1, nil args) error = %v, want ErrNotCallable", err)
	}

	add, err := Base().Lookup("add")
	if err != nil {
		t.Fatal(err)
	}

	_, got, err = ev.Call(t.Context(), add, nil, Base())
	if err != nil || got != Number(0) {
		t.Errorf("Call(add, nil args) = %v, %v; want 0", got, err)
	}

	_, got, err = ev.Call(t.Context(), &Function{Closure: Base()}, nil, Base())
	if err != nil || got != None {
		t.Errorf("Call(function, nil args) = %v, %v; want none", got, err)
	}
}

func TestWithLogger_Trace(t *testing.T) {
	var buf bytes.Buffer

	logger := log.Make(&buf, log.WithLevel(log.LevelTrace), log.WithPretty(false))

	_, _, err := run(t, "(add 1 2)", WithLogger(logger))
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}

	if !strings.Contains(buf.String(), "lang.name=add") {
		t.Errorf("trace output missing grouped builtin name: %q", buf.String())
	}
}

func TestBuiltin_Log(t *testing.T) {
	var out bytes.Buffer

	_, got, err := run(t, `(define n 2) (!log! "hi" (add n 1) n)`, WithOutput(&out))
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}

	if got != None {
		t.Errorf("!log! = %s, want none", FormatValue(got))
	}

	if want := "hi\n3\n2\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestBuiltin_Debug(t *testing.T) {
	var out bytes.Buffer

	_, got, err := run(t, `(define a 1) (define a "b") (!debug!)`, WithOutput(&out))
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}

	if got != None {
		t.Errorf("!debug! = %s, want none", FormatValue(got))
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")

	want := []string{
		"!debug! = #<builtin !debug!>",
		"!log! = #<builtin !log!>",
		`a = "b"`,
		"add = #<builtin add>",
		"define = #<builtin define>",
		"defun = #<builtin defun>",
		"lambda = #<builtin lambda>",
	}

	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Errorf("output =\n%s\nwant\n%s", out.String(), strings.Join(want, "\n"))
	}
}

func TestEvaluator_CustomBuiltin(t *testing.T) {
	calls := 0

	twice := &Builtin{
		Name: "twice",
		Fn: func(ctx context.Context, ev *Evaluator, args *List, env *Env) (*Env, Value, error) {
			calls++

			_, v, err := ev.Evaluate(ctx, args.Head(), env)
			if err != nil {
				return env, nil, err
			}

			return ev.Call(ctx, Base().Flatten()["add"].(*Builtin), &List{
				Elements: []Node{
					&NumberConst{Value: float64(v.(Number))},
					&NumberConst{Value: float64(v.(Number))},
				},
			}, env)
		},
	}

	env := NewBaseEnv().Bind("twice", twice)

	prog, err := Parse("(twice (add 1 2))")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	_, got, err := NewEvaluator().Evaluate(t.Context(), prog, env)
	if err != nil || got != Number(6) {
		t.Errorf("twice = %v, %v; want 6", got, err)
	}

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

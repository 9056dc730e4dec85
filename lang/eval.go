package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/tlisp/log"
)

// Evaluator evaluates nodes under a fixed set of options.
//
// An Evaluator tracks the current call depth, so it must not be used from
// more than one goroutine at a time. The environments it returns carry no
// reference to it and may be shared freely.
type Evaluator struct {
	cfg   config
	depth int
}

// NewEvaluator returns an Evaluator configured by opts.
func NewEvaluator(opts ...Option) *Evaluator {
	return &Evaluator{cfg: makeConfig(opts...)}
}

// Evaluate evaluates node against env using a new [Evaluator] configured by
// opts. See [Evaluator.Evaluate].
func Evaluate(
	ctx context.Context,
	node Node,
	env *Env,
	opts ...Option,
) (*Env, Value, error) {
	return NewEvaluator(opts...).Evaluate(ctx, node, env)
}

// Evaluate evaluates node against env and returns the resulting environment
// and value. A nil env evaluates against [Base].
//
// The returned environment includes every binding made by top-level define
// and defun forms in node; hosts pass it back in to continue a session.
func (ev *Evaluator) Evaluate(
	ctx context.Context,
	node Node,
	env *Env,
) (*Env, Value, error) {
	if env == nil {
		env = Base()
	}

	if node == nil {
		return env, None, nil
	}

	return ev.eval(ctx, node, env)
}

// Output returns the writer used by the diagnostic builtins.
func (ev *Evaluator) Output() io.Writer { return ev.cfg.output }

// Logger returns the logger the evaluator traces to.
func (ev *Evaluator) Logger() log.Logger { return ev.cfg.logger }

// Scope returns the evaluator's scope mode.
func (ev *Evaluator) Scope() Scope { return ev.cfg.scope }

func (ev *Evaluator) eval(
	ctx context.Context,
	node Node,
	env *Env,
) (*Env, Value, error) {
	switch n := node.(type) {
	case *NumberConst:
		return env, Number(n.Value), nil

	case *StringConst:
		return env, String(n.Text), nil

	case *Identifier:
		v, err := env.Lookup(n.Text)
		if err != nil {
			return env, nil, ErrUnresolvedIdentifier.
				With(slog.String("name", n.Text)).
				WithPosition(n.Start)
		}

		return env, v, nil

	case *Program:
		return ev.sequence(ctx, n.Expressions, env)

	case *List:
		if n.Len() == 0 {
			return env, None, nil
		}

		// Bindings made while evaluating the head stay local to it.
		_, callee, err := ev.eval(ctx, n.Head(), env)
		if err != nil {
			return env, nil, err
		}

		return ev.Call(ctx, callee, n.Tail(), env)

	default:
		return env, nil, ErrTypeMismatch.With(
			slog.String("issue", "unknown node"),
			slog.String("node", resultTypeName(node)),
		)
	}
}

// sequence evaluates nodes left to right, threading the environment from
// each into the next. Its value is that of the last node, or [None].
func (ev *Evaluator) sequence(
	ctx context.Context,
	nodes []Node,
	env *Env,
) (*Env, Value, error) {
	var val Value = None

	for _, n := range nodes {
		var err error

		env, val, err = ev.eval(ctx, n, env)
		if err != nil {
			return env, nil, err
		}
	}

	return env, val, nil
}

// Call invokes callee with the unevaluated args in env.
//
// A [Builtin] receives args as they are. A [Function] has its arguments
// evaluated left to right, bound to its parameters in a new frame, and its
// body evaluated in that frame; the caller's env is returned unchanged.
func (ev *Evaluator) Call(
	ctx context.Context,
	callee Value,
	args *List,
	env *Env,
) (*Env, Value, error) {
	if args == nil {
		args = &List{}
	}

	switch f := callee.(type) {
	case *Builtin:
		ev.cfg.logger.TraceContext(ctx, "call builtin",
			slog.String("name", f.Name),
			slog.Int("args", args.Len()))

		return f.Fn(ctx, ev, args, env)

	case *Function:
		return ev.apply(ctx, f, args, env)

	case Number, String, Unit:
		return env, nil, ErrNotCallable.With(
			slog.String("value", FormatValue(callee)),
			slog.String("kind", callee.Kind().String()),
		).WithPosition(args.Start)

	default:
		return env, nil, ErrNotCallable.With(
			slog.String("value", resultTypeName(callee)),
		).WithPosition(args.Start)
	}
}

func (ev *Evaluator) apply(
	ctx context.Context,
	f *Function,
	args *List,
	env *Env,
) (*Env, Value, error) {
	if ev.cfg.maxDepth > 0 && ev.depth >= ev.cfg.maxDepth {
		return env, nil, ErrMaxDepthExceeded.With(
			slog.Int("max_depth", ev.cfg.maxDepth),
			slog.String("function", FormatValue(f)),
		).WithPosition(args.Start)
	}

	vals := make([]Value, 0, args.Len())
	cur := env

	for _, arg := range args.Elements {
		var (
			v   Value
			err error
		)

		cur, v, err = ev.eval(ctx, arg, cur)
		if err != nil {
			return env, nil, err
		}

		vals = append(vals, v)
	}

	if ev.cfg.strictArity && len(vals) != len(f.Params) {
		return env, nil, ErrArityMismatch.With(
			slog.String("function", FormatValue(f)),
			slog.Int("expected", len(f.Params)),
			slog.Int("got", len(vals)),
		).WithPosition(args.Start)
	}

	frame := make(map[string]Value, len(f.Params))

	for i, name := range f.Params {
		if i < len(vals) {
			frame[name] = vals[i]
		}
	}

	parent := f.Closure
	if ev.cfg.scope == ScopeDynamic {
		parent = cur
	}

	ev.depth++
	defer func() { ev.depth-- }()

	ev.cfg.logger.TraceContext(ctx, "call function",
		slog.String("function", FormatValue(f)),
		slog.Int("depth", ev.depth),
		slog.String("scope", ev.cfg.scope.String()))

	_, val, err := ev.sequence(ctx, f.Body, parent.Extend(frame))
	if err != nil {
		return env, nil, err
	}

	return env, val, nil
}

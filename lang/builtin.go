package lang

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// Base returns the process-wide base environment, built once by
// [NewBaseEnv]. It is immutable and safe to share between sessions.
var Base = sync.OnceValue(NewBaseEnv)

// NewBaseEnv constructs a root environment holding the core builtins:
// add, define, defun, lambda, !log! and !debug!.
func NewBaseEnv() *Env {
	return NewEnv(builtins(
		&Builtin{Name: "add", Fn: builtinAdd},
		&Builtin{Name: "define", Fn: builtinDefine},
		&Builtin{Name: "defun", Fn: builtinDefun},
		&Builtin{Name: "lambda", Fn: builtinLambda},
		&Builtin{Name: "!log!", Fn: builtinLog},
		&Builtin{Name: "!debug!", Fn: builtinDebug},
	))
}

func builtins(b ...*Builtin) map[string]Value {
	m := make(map[string]Value, len(b))
	for _, fn := range b {
		m[fn.Name] = fn
	}

	return m
}

func malformed(form, reason string, pos Position) error {
	return ErrMalformedSpecialForm.With(
		slog.String("form", form),
		slog.String("reason", reason),
	).WithPosition(pos)
}

// builtinAdd: (add n...) sums its evaluated arguments from 0.
func builtinAdd(
	ctx context.Context,
	ev *Evaluator,
	args *List,
	env *Env,
) (*Env, Value, error) {
	var sum Number

	for _, arg := range args.Elements {
		_, v, err := ev.eval(ctx, arg, env)
		if err != nil {
			return env, nil, err
		}

		n, ok := v.(Number)
		if !ok {
			return env, nil, ErrTypeMismatch.With(
				slog.String("builtin", "add"),
				slog.String("expected", KindNumber.String()),
				slog.String("got", v.Kind().String()),
				slog.String("value", FormatValue(v)),
			).WithPosition(arg.Pos())
		}

		sum += n
	}

	return env, sum, nil
}

// builtinDefine: (define name value) binds the evaluated value to name.
func builtinDefine(
	ctx context.Context,
	ev *Evaluator,
	args *List,
	env *Env,
) (*Env, Value, error) {
	if args.Len() < 2 {
		return env, nil, malformed("define", "expected name and value", args.Start)
	}

	name, ok := args.Elements[0].(*Identifier)
	if !ok {
		return env, nil, malformed("define", "name must be an identifier",
			args.Elements[0].Pos())
	}

	if ev.cfg.strictArity && args.Len() > 2 {
		return env, nil, ErrArityMismatch.With(
			slog.String("form", "define"),
			slog.Int("expected", 2),
			slog.Int("got", args.Len()),
		).WithPosition(args.Start)
	}

	_, v, err := ev.eval(ctx, args.Elements[1], env)
	if err != nil {
		return env, nil, err
	}

	return env.Bind(name.Text, v), v, nil
}

// builtinDefun: (defun name (param...) body...) binds a named function.
func builtinDefun(
	_ context.Context,
	_ *Evaluator,
	args *List,
	env *Env,
) (*Env, Value, error) {
	if args.Len() < 2 {
		return env, nil, malformed("defun", "expected name and parameter list",
			args.Start)
	}

	name, ok := args.Elements[0].(*Identifier)
	if !ok {
		return env, nil, malformed("defun", "name must be an identifier",
			args.Elements[0].Pos())
	}

	params, err := paramNames("defun", args.Elements[1])
	if err != nil {
		return env, nil, err
	}

	fn := &Function{
		Name:   name.Text,
		Params: params,
		Body:   args.Elements[2:],
	}

	// The function's own name is visible in its closure so that it can
	// call itself.
	next := env.Bind(name.Text, fn)
	fn.Closure = next

	return next, fn, nil
}

// builtinLambda: (lambda (param...) body...) returns an anonymous function.
func builtinLambda(
	_ context.Context,
	_ *Evaluator,
	args *List,
	env *Env,
) (*Env, Value, error) {
	if args.Len() < 1 {
		return env, nil, malformed("lambda", "expected parameter list",
			args.Start)
	}

	params, err := paramNames("lambda", args.Elements[0])
	if err != nil {
		return env, nil, err
	}

	return env, &Function{
		Params:  params,
		Body:    args.Elements[1:],
		Closure: env,
	}, nil
}

func paramNames(form string, node Node) ([]string, error) {
	list, ok := node.(*List)
	if !ok {
		return nil, malformed(form, "parameters must be a list", node.Pos())
	}

	names := make([]string, 0, list.Len())

	for _, elem := range list.Elements {
		id, ok := elem.(*Identifier)
		if !ok {
			return nil, malformed(form, "parameter must be an identifier",
				elem.Pos())
		}

		names = append(names, id.Text)
	}

	return names, nil
}

// builtinLog: (!log! expr...) writes each evaluated argument on its own line.
func builtinLog(
	ctx context.Context,
	ev *Evaluator,
	args *List,
	env *Env,
) (*Env, Value, error) {
	for _, arg := range args.Elements {
		_, v, err := ev.eval(ctx, arg, env)
		if err != nil {
			return env, nil, err
		}

		if _, err := fmt.Fprintln(ev.cfg.output, display(v)); err != nil {
			return env, nil, err
		}
	}

	return env, None, nil
}

// builtinDebug: (!debug!) writes every visible binding sorted by name.
func builtinDebug(
	_ context.Context,
	ev *Evaluator,
	_ *List,
	env *Env,
) (*Env, Value, error) {
	flat := env.Flatten()

	for _, name := range slices.Sorted(maps.Keys(flat)) {
		_, err := fmt.Fprintf(ev.cfg.output, "%s = %s\n",
			name, FormatValue(flat[name]))
		if err != nil {
			return env, nil, err
		}
	}

	return env, None, nil
}

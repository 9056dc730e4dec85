package lang

import (
	"context"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/ardnew/mung"
	"github.com/expr-lang/expr"
)

// HostEnv returns parent extended with builtins that reach outside the
// language:
//
//   - (expr "source") evaluates an expr-lang expression over the visible
//     number and string bindings
//   - (getenv "NAME") returns a process environment variable, or ""
//   - (path-prefix list prefix...) prepends elements to a path list
//
// processEnv holds the variables visible to getenv in "KEY=VALUE" form;
// when it is nil, [os.Environ] is used.
func HostEnv(parent *Env, processEnv []string) *Env {
	vars := buildProcessEnvMap(processEnv)

	return parent.Extend(builtins(
		&Builtin{Name: "expr", Fn: builtinExpr},
		&Builtin{Name: "getenv", Fn: builtinGetenv(vars)},
		&Builtin{Name: "path-prefix", Fn: builtinPathPrefix},
	))
}

// buildProcessEnvMap converts a "KEY=VALUE" string slice to a map.
// If envList is nil, os.Environ() is used.
func buildProcessEnvMap(envList []string) map[string]string {
	if envList == nil {
		envList = os.Environ()
	}

	result := make(map[string]string, len(envList))

	for _, entry := range envList {
		key, value, ok := strings.Cut(entry, "=")
		if ok {
			result[key] = value
		}
	}

	return result
}

// evalStrings evaluates every argument and requires each to be a string.
func evalStrings(
	ctx context.Context,
	ev *Evaluator,
	name string,
	args *List,
	env *Env,
) ([]string, error) {
	out := make([]string, 0, args.Len())

	for _, arg := range args.Elements {
		_, v, err := ev.eval(ctx, arg, env)
		if err != nil {
			return nil, err
		}

		s, ok := v.(String)
		if !ok {
			return nil, ErrTypeMismatch.With(
				slog.String("builtin", name),
				slog.String("expected", KindString.String()),
				slog.String("got", v.Kind().String()),
			).WithPosition(arg.Pos())
		}

		out = append(out, string(s))
	}

	return out, nil
}

// exprEnv exposes the visible number and string bindings of env to
// expr-lang. Hyphens in names are replaced with underscores.
func exprEnv(env *Env) map[string]any {
	vars := make(map[string]any)

	for name, v := range env.All() {
		key := strings.ReplaceAll(name, "-", "_")

		if _, ok := vars[key]; ok {
			continue
		}

		switch v := v.(type) {
		case Number:
			vars[key] = float64(v)
		case String:
			vars[key] = string(v)
		}
	}

	return vars
}

func builtinExpr(
	ctx context.Context,
	ev *Evaluator,
	args *List,
	env *Env,
) (*Env, Value, error) {
	if args.Len() != 1 {
		return env, nil, ErrArityMismatch.With(
			slog.String("builtin", "expr"),
			slog.Int("expected", 1),
			slog.Int("got", args.Len()),
		).WithPosition(args.Start)
	}

	src, err := evalStrings(ctx, ev, "expr", args, env)
	if err != nil {
		return env, nil, err
	}

	vars := exprEnv(env)

	program, err := expr.Compile(src[0], expr.Env(vars))
	if err != nil {
		return env, nil, ErrExprEvaluate.Wrap(err).
			With(slog.String("source", src[0]))
	}

	out, err := expr.Run(program, vars)
	if err != nil {
		return env, nil, ErrExprEvaluate.Wrap(err).
			With(slog.String("source", src[0]))
	}

	v, ok := fromNative(out)
	if !ok {
		return env, nil, ErrExprEvaluate.With(
			slog.String("source", src[0]),
			slog.String("result_type", resultTypeName(out)),
		)
	}

	ev.cfg.logger.TraceContext(ctx, "expr evaluated",
		slog.String("source", src[0]),
		slog.String("result", FormatValue(v)))

	return env, v, nil
}

// fromNative converts an expr-lang result into a [Value].
func fromNative(out any) (Value, bool) {
	switch x := out.(type) {
	case nil:
		return None, true
	case string:
		return String(x), true
	case bool:
		if x {
			return Number(1), true
		}

		return Number(0), true
	}

	rv := reflect.ValueOf(out)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return Number(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float()), true
	default:
		return nil, false
	}
}

func builtinGetenv(vars map[string]string) BuiltinFunc {
	return func(
		ctx context.Context,
		ev *Evaluator,
		args *List,
		env *Env,
	) (*Env, Value, error) {
		if args.Len() != 1 {
			return env, nil, ErrArityMismatch.With(
				slog.String("builtin", "getenv"),
				slog.Int("expected", 1),
				slog.Int("got", args.Len()),
			).WithPosition(args.Start)
		}

		name, err := evalStrings(ctx, ev, "getenv", args, env)
		if err != nil {
			return env, nil, err
		}

		return env, String(vars[name[0]]), nil
	}
}

func builtinPathPrefix(
	ctx context.Context,
	ev *Evaluator,
	args *List,
	env *Env,
) (*Env, Value, error) {
	if args.Len() < 1 {
		return env, nil, ErrArityMismatch.With(
			slog.String("builtin", "path-prefix"),
			slog.Int("expected", 1),
			slog.Int("got", 0),
		).WithPosition(args.Start)
	}

	items, err := evalStrings(ctx, ev, "path-prefix", args, env)
	if err != nil {
		return env, nil, err
	}

	return env, String(pathPrefix(items[0], items[1:]...)), nil
}

// pathPrefix prepends prefix to the OS path list key, dropping duplicates.
func pathPrefix(key string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tlisp/lang"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	settingsKey struct{}
	stdioKey    struct{}
)

// Settings holds the language configuration selected by global flags.
type Settings struct {
	// Options configure parsing and evaluation.
	Options []lang.Option
	// Host layers the host builtins (expr, getenv, path-prefix) over the base
	// environment.
	Host bool
}

// WithSettings returns a new context.Context containing s.
func WithSettings(ctx context.Context, s Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

// settingsFrom retrieves the Settings stored in ctx by WithSettings.
// The zero Settings is returned if none were stored.
func settingsFrom(ctx context.Context) Settings {
	s, _ := ctx.Value(settingsKey{}).(Settings)

	return s
}

// root returns the environment every input is first evaluated against.
func (s Settings) root() *lang.Env {
	if s.Host {
		return lang.HostEnv(lang.Base(), os.Environ())
	}

	return lang.Base()
}

// Stdio holds the streams used by commands.
// Nil fields default to the process streams.
type Stdio struct {
	In  io.Reader
	Out io.Writer
}

// WithStdio returns a new context.Context whose commands use the given
// streams instead of the process streams.
func WithStdio(ctx context.Context, s Stdio) context.Context {
	return context.WithValue(ctx, stdioKey{}, s)
}

func stdioFrom(ctx context.Context) Stdio {
	s, _ := ctx.Value(stdioKey{}).(Stdio)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	return s
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Source is a parsed input file.
type Source struct {
	Name    string
	Program *lang.Program
}

// loadSources reads and parses each of the given paths in order.
//
// Paths naming the same file, through symlinks or differing relative paths,
// are read once. All occurrences of "-" are replaced by a single read of
// standard input, at the position of the first occurrence.
func loadSources(
	ctx context.Context,
	paths []string,
	opts ...lang.Option,
) ([]Source, error) {
	var (
		stdin = stdioFrom(ctx).In
		seen  []os.FileInfo
		read  bool
	)

	srcs := make([]Source, 0, len(paths))

	for _, path := range paths {
		if path == stdinSource {
			if read {
				continue
			}

			read = true

			prog, err := lang.ParseReader(ctx, stdin, opts...)
			if err != nil {
				return nil, lang.WrapError(err).
					With(slog.String("source", path))
			}

			srcs = append(srcs, Source{Name: path, Program: prog})

			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, ErrReadSource.
				With(slog.String("source", path)).
				Wrap(err)
		}

		if slices.ContainsFunc(seen, func(fi os.FileInfo) bool {
			return os.SameFile(fi, info)
		}) {
			continue
		}

		seen = append(seen, info)

		prog, err := parseFile(ctx, path, opts...)
		if err != nil {
			return nil, err
		}

		srcs = append(srcs, Source{Name: path, Program: prog})
	}

	return srcs, nil
}

func parseFile(
	ctx context.Context,
	path string,
	opts ...lang.Option,
) (*lang.Program, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, ErrReadSource.
			With(slog.String("source", path)).
			Wrap(err)
	}
	defer file.Close()

	prog, err := lang.ParseReader(ctx, file, opts...)
	if err != nil {
		return nil, lang.WrapError(err).
			With(slog.String("source", path))
	}

	return prog, nil
}

// evalSources evaluates each source in order against one threaded
// environment, starting from env.
func evalSources(
	ctx context.Context,
	ev *lang.Evaluator,
	env *lang.Env,
	srcs []Source,
) (*lang.Env, lang.Value, error) {
	result := lang.None

	for _, src := range srcs {
		var err error

		env, result, err = ev.Evaluate(ctx, src.Program, env)
		if err != nil {
			return env, nil, lang.WrapError(err).
				With(slog.String("source", src.Name))
		}
	}

	return env, result, nil
}

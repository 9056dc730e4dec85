package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/tlisp/lang"
	"github.com/ardnew/tlisp/log"
)

// Eval evaluates source files and expressions in one environment and prints
// the final value.
type Eval struct {
	Sources []string `arg:"" help:"Source input files or '-' for stdin, evaluated in order" name:"source" optional:""`
	Expr    []string `       help:"Expression evaluated after all sources (repeatable)"               name:"expr"             short:"e"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	settings := settingsFrom(ctx)
	stdio := stdioFrom(ctx)

	paths := e.Sources
	if len(paths) == 0 && len(e.Expr) == 0 {
		paths = []string{stdinSource}
	}

	srcs, err := loadSources(ctx, paths, settings.Options...)
	if err != nil {
		return err
	}

	for i, text := range e.Expr {
		prog, err := lang.ParseString(ctx, text, settings.Options...)
		if err != nil {
			return lang.WrapError(err).
				With(slog.Int("expr", i))
		}

		srcs = append(srcs, Source{Name: fmt.Sprintf("expr[%d]", i), Program: prog})
	}

	ev := lang.NewEvaluator(
		append(settings.Options[:len(settings.Options):len(settings.Options)],
			lang.WithOutput(stdio.Out))...,
	)

	env, result, err := evalSources(ctx, ev, settings.root(), srcs)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "eval"))
	}

	log.DebugContext(ctx, "evaluated",
		slog.Int("inputs", len(srcs)),
		slog.Int("env_depth", env.Depth()),
		slog.String("kind", result.Kind().String()),
	)

	// The unit value has nothing to show.
	if result == lang.None {
		return nil
	}

	_, err = fmt.Fprintln(stdio.Out, lang.FormatValue(result))

	return err
}

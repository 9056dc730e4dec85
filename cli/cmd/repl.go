package cmd

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/ardnew/tlisp/cli/cmd/repl"
	"github.com/ardnew/tlisp/lang"
	"github.com/ardnew/tlisp/log"
)

// Repl starts an interactive session.
type Repl struct {
	Sources []string `arg:"" help:"Source files evaluated before the first prompt" name:"source" optional:""`
	History bool     `       help:"Persist input history in the cache directory"  default:"true"  negatable:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	settings := settingsFrom(ctx)
	stdio := stdioFrom(ctx)
	root := settings.root()
	env := root

	if len(r.Sources) > 0 {
		srcs, err := loadSources(ctx, r.Sources, settings.Options...)
		if err != nil {
			return err
		}

		ev := lang.NewEvaluator(settings.Options...)

		env, _, err = evalSources(ctx, ev, env, srcs)
		if err != nil {
			return lang.WrapError(err).
				With(slog.String("command", "repl"))
		}
	}

	return repl.Run(ctx, repl.Config{
		Root:        root,
		Env:         env,
		Options:     settings.Options,
		HistoryPath: r.historyPath(ctx),
		Logger:      log.Default(),
		Input:       stdio.In,
		Output:      stdio.Out,
	})
}

// historyPath returns the history file path, or "" to keep history in
// memory.
func (r *Repl) historyPath(ctx context.Context) string {
	if !r.History {
		return ""
	}

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	dir, ok := ktx.Model.Vars()[CacheIdentifier]
	if !ok || dir == "" {
		return ""
	}

	return filepath.Join(dir, repl.BaseHistory)
}

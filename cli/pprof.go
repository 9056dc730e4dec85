//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tlisp/log"
	"github.com/ardnew/tlisp/profile"
)

type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Enable profiling"         placeholder:"${enum}" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Profile output directory"                                 type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(cacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	var group kong.Group

	group.Key = "pprof"
	group.Title = "Profiling (pprof)"

	return group
}

// profile returns the profiling session selected by f.
func (f pprofConfig) profile() profile.Config {
	return profile.Make(
		profile.WithMode(f.Mode),
		profile.WithPath(f.Dir),
		profile.WithQuiet(true),
	)
}

// start starts profiling if a mode was selected. The returned function stops
// it and writes the profile.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	cfg := f.profile()
	if cfg.Mode == "" {
		return func() {}
	}

	attrs := []slog.Attr{
		slog.String("mode", cfg.Mode),
		slog.String("dir", cfg.Path),
	}

	log.DebugContext(ctx, "pprof start", attrs...)

	profiler := cfg.Start()

	return func() {
		profiler.Stop()
		log.DebugContext(ctx, "pprof stop", attrs...)
	}
}

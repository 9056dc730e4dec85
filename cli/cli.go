package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tlisp/cli/cmd"
	"github.com/ardnew/tlisp/pkg"
)

// CLI is the top-level command-line interface for tlisp.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Lang  langConfig  `embed:"" group:"lang"  prefix:"lang-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Init cmd.Init `cmd:"" help:"Initialize configuration file"`
	Fmt  cmd.Fmt  `cmd:"" help:"Format source files"`
	Repl cmd.Repl `cmd:"" help:"Start an interactive session"`

	Eval cmd.Eval `cmd:"" default:"withargs" help:"Evaluate source files and expressions"`
}

// Run executes the tlisp CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	vars := kong.Vars{
		cmd.ConfigIdentifier: configDir(),
		cmd.CacheIdentifier:  cacheDir(),
		"version":            pkg.Version,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Lang.vars()).
		CloneWith(cli.Pprof.vars())

	groups := []kong.Group{cli.Log.group(), cli.Lang.group()}
	if g := cli.Pprof.group(); g.Key != "" {
		groups = append(groups, g)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	// Parse command line. Command-line flags override configuration files.
	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(groups),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(cmd.ConfigBase+cmd.ExtJSON)),
		kong.Configuration(loadYAML, configPath(cmd.ConfigBase+cmd.ExtYAML)),
		kong.Configuration(loadLisp(ctx), configPath(cmd.ConfigBase+cmd.ExtLisp)),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values, including those
	// read from configuration files.
	defer cli.Log.start(ctx)()

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSettings(ctx, cli.Lang.settings())

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	ktx.BindTo(ctx, (*context.Context)(nil))

	// Execute the selected command
	return ktx.Run()
}

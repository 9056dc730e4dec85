package cli

import (
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tlisp/cli/cmd"
	"github.com/ardnew/tlisp/lang"
	"github.com/ardnew/tlisp/log"
)

type langConfig struct {
	Scope       string `default:"${langScopeDefault}" enum:"${langScopeEnum}" help:"Environment function bodies are evaluated in: ${enum}."`
	StrictArity bool   `                                                      help:"Fail calls whose argument count differs from the parameter count." negatable:""`
	StrictParse bool   `                                                      help:"Fail on malformed input instead of skipping it."                  negatable:""`
	MaxDepth    int    `default:"${langMaxDepth}"                             help:"Limit on nested function calls; 0 disables the limit."`
	Host        bool   `default:"true"                                        help:"Bind the host builtins expr, getenv and path-prefix."             negatable:""`
}

func (*langConfig) vars() kong.Vars {
	return kong.Vars{
		"langScopeEnum":    strings.Join(lang.Scopes(), ","),
		"langScopeDefault": lang.DefaultScope.String(),
		"langMaxDepth":     strconv.Itoa(lang.DefaultMaxDepth),
	}
}

func (*langConfig) group() kong.Group {
	var group kong.Group

	group.Key = "lang"
	group.Title = "Language options"

	return group
}

// options returns the parse and evaluation options selected by f.
// Trace output goes to the package-level logger as configured when options
// is called.
func (f *langConfig) options() []lang.Option {
	scope, _ := lang.ParseScope(f.Scope)

	return []lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithScope(scope),
		lang.WithStrictArity(f.StrictArity),
		lang.WithStrict(f.StrictParse),
		lang.WithMaxDepth(f.MaxDepth),
	}
}

func (f *langConfig) settings() cmd.Settings {
	return cmd.Settings{
		Options: f.options(),
		Host:    f.Host,
	}
}

package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tlisp/log"
)

// logFormat is a custom type that configures the logger format as a side
// effect of parsing via encoding.TextUnmarshaler.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --log-format flag, this method is called, allowing us
// to configure the logger early enough to affect error messages during parsing.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)

	if format, ok := log.ParseFormat(string(*f)); ok {
		log.Config(log.WithFormat(format))
	}

	return nil
}

// logLevel is a custom type that configures the logger level as a side
// effect of parsing via encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --log-level flag, this method is called, allowing us
// to configure the logger early enough to affect error messages during parsing.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)

	if level, ok := log.ParseLevel(string(*l)); ok {
		log.Config(log.WithLevel(level))
	}

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"${logLevelEnum}"  help:"Set log level: ${enum}."`
	Format     logFormat `default:"text"    enum:"${logFormatEnum}" help:"Set log format: ${enum}."`
	TimeLayout string    `default:"RFC3339"                         help:"Set timestamp format: a Go layout or one of ${logTimeLayouts}."`
	Caller     bool      `default:"false"                           help:"Include caller information."                                    negatable:""`
	Pretty     bool      `default:"true"                            help:"Enable colorized pretty printing."                              negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":   strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatEnum":  strings.Join(slices.Collect(log.Formats()), ","),
		"logTimeLayouts": strings.Join(log.TimeLayouts(), ", "),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

// options returns the logger options selected by f.
func (f *logConfig) options() []log.Option {
	level, _ := log.ParseLevel(string(f.Level))
	format, _ := log.ParseFormat(string(f.Format))

	return []log.Option{
		log.WithLevel(level),
		log.WithFormat(format),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	}
}

// start applies the final logger configuration, including values from
// configuration files, and returns a function to call once the command
// completes.
func (f *logConfig) start(ctx context.Context) (stop func()) {
	log.Config(f.options()...)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)

	return func() {
		log.TraceContext(ctx, "logger stop")
	}
}

// scan performs an early pass over command-line arguments to extract and
// apply logger configuration before Kong begins parsing. This ensures the
// logger is configured properly regardless of flag position on the command
// line.
//
// While logFormat and logLevel types implement encoding.TextUnmarshaler to
// configure the logger as flags are encountered during parsing, the other
// flags don't go through that interface. This pre-scan ensures all logger
// flags are applied early.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if arg == "--" {
			return
		}

		name, negated := strings.CutPrefix(arg, "--no-log-")
		if !negated {
			var ok bool

			name, ok = strings.CutPrefix(arg, "--log-")
			if !ok {
				continue
			}
		}

		name, value, assigned := strings.Cut(name, "=")

		// Non-boolean flags consume the next argument as their value unless
		// assigned with "=".
		next := func() string {
			if !assigned && i+1 < len(args) && args[i+1] != "" &&
				args[i+1][0] != '-' {
				i++

				return args[i]
			}

			return value
		}

		// Boolean flags only parse a value if explicitly assigned with "=".
		boolean := func() (bool, bool) {
			v := true
			if assigned {
				var err error

				v, err = strconv.ParseBool(value)
				if err != nil {
					return false, false
				}
			}

			return v != negated, true
		}

		switch name {
		case "level":
			if !negated {
				_ = f.Level.UnmarshalText([]byte(next()))
			}

		case "format":
			if !negated {
				_ = f.Format.UnmarshalText([]byte(next()))
			}

		case "time-layout":
			if !negated {
				f.TimeLayout = next()
				log.Config(log.WithTimeLayout(f.TimeLayout))
			}

		case "pretty":
			if v, ok := boolean(); ok {
				f.Pretty = v
				log.Config(log.WithPretty(v))
			}

		case "caller":
			if v, ok := boolean(); ok {
				f.Caller = v
				log.Config(log.WithCaller(v))
			}
		}
	}
}

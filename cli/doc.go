// Package cli contains the command line interface for tlisp.
//
// # Usage
//
//	tlisp [flags] [source ...] [-e expr ...]   evaluate (default command)
//	tlisp repl [source ...]                    interactive session
//	tlisp fmt {native|json|yaml} [source]      reformat or dump the syntax tree
//	tlisp init [--force] [--format=yaml|lisp]  write a configuration file
//
// A source of "-" reads standard input.
//
// # Configuration Files
//
// Flag values are read from the following files in the user configuration
// directory (for example ~/.config/tlisp). Command-line flags override them.
// Define each flag in only one of the files.
//
//   - config.json: a JSON object keyed by flag name.
//   - config.yaml: a YAML mapping keyed by flag name. Nested mappings name
//     flag groups, so "log: {level: debug}" sets --log-level.
//   - config.tl: a tlisp program; each name it defines sets the flag of the
//     same name, as in (define log-level "debug").
//
// Flag names may be written with hyphens or underscores.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Language Options
//
//   - --lang-scope: Scope mode for function calls (lexical, dynamic)
//   - --lang-strict-arity: Fail calls with the wrong number of arguments
//   - --lang-strict-parse: Fail on malformed input
//   - --lang-max-depth: Limit nested function calls
//   - --[no-]lang-host: Bind the host builtins expr, getenv and path-prefix
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o tlisp .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/tlisp/pprof)
//
// # Examples
//
//	# Evaluate an expression
//	tlisp -e '(add 1 2)'
//
//	# Load definitions, then call one
//	tlisp defs.tl -e '(area 3 4)'
//
//	# Debug logging with call-site scoping
//	tlisp --log-level=debug --lang-scope=dynamic prog.tl
package cli

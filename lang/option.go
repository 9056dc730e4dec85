package lang

import (
	"io"
	"os"
	"strings"

	"github.com/ardnew/tlisp/log"
)

// Scope selects the environment a function body is evaluated in.
type Scope int

const (
	// ScopeLexical evaluates a function body in the environment the function
	// was defined in, extended with its parameters.
	ScopeLexical Scope = iota
	// ScopeDynamic evaluates a function body in the caller's environment,
	// extended with its parameters.
	ScopeDynamic
)

// DefaultScope is the scope mode used when none is given.
const DefaultScope = ScopeLexical

// DefaultMaxDepth is the default limit on nested function calls.
const DefaultMaxDepth = 10000

// String returns the lowercase name of the scope mode.
func (s Scope) String() string {
	switch s {
	case ScopeLexical:
		return "lexical"
	case ScopeDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// ParseScope parses a scope mode name, case-insensitively.
// It reports false if s names no scope mode.
func ParseScope(s string) (Scope, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lexical":
		return ScopeLexical, true
	case "dynamic":
		return ScopeDynamic, true
	default:
		return DefaultScope, false
	}
}

// Scopes returns the names of all scope modes.
func Scopes() []string {
	return []string{ScopeLexical.String(), ScopeDynamic.String()}
}

// config holds the options shared by the parser and the evaluator.
type config struct {
	logger      log.Logger
	output      io.Writer
	scope       Scope
	maxDepth    int
	strict      bool
	strictArity bool
	cache       bool
}

// Option configures parsing and evaluation.
type Option func(*config)

func makeConfig(opts ...Option) config {
	c := config{
		output:   os.Stdout,
		scope:    DefaultScope,
		maxDepth: DefaultMaxDepth,
		cache:    true,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return c
}

// WithLogger sets the logger used for trace output. Attributes are grouped
// under "lang". The zero [log.Logger] discards everything.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger.WithGroup("lang") }
}

// WithOutput sets the writer used by the diagnostic builtins.
// A nil writer discards their output.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w == nil {
			w = io.Discard
		}

		c.output = w
	}
}

// WithScope sets the scope mode for function calls.
func WithScope(scope Scope) Option {
	return func(c *config) { c.scope = scope }
}

// WithMaxDepth limits the number of nested function calls.
// A depth less than 1 disables the limit.
func WithMaxDepth(depth int) Option {
	return func(c *config) { c.maxDepth = depth }
}

// WithStrict makes the parser report malformed input as [ErrParse] instead
// of returning a partial tree.
func WithStrict(strict bool) Option {
	return func(c *config) { c.strict = strict }
}

// WithStrictArity makes function calls fail with [ErrArityMismatch] when the
// argument count differs from the parameter count.
func WithStrictArity(strict bool) Option {
	return func(c *config) { c.strictArity = strict }
}

// WithCache controls whether [ParseString] and [ParseReader] consult the
// process-wide parse cache.
func WithCache(enable bool) Option {
	return func(c *config) { c.cache = enable }
}

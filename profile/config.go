package profile

// Stopper stops a running profiler and flushes its output.
type Stopper interface{ Stop() }

// Config describes a profiling session.
// The zero Config profiles nothing.
type Config struct {
	Mode  string
	Path  string
	Quiet bool
}

// Option applies a configuration option to a Config.
type Option func(Config) Config

// Make returns a Config with opts applied in order.
func Make(opts ...Option) Config {
	var c Config

	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

// Start starts the profiler described by c.
//
// If the pprof build tag is unset, or c.Mode is empty or unknown, Start
// returns a no-op Stopper. Both Start and Stop are always safely callable.
func (c Config) Start() Stopper {
	if c.Mode == "" {
		return ignore{}
	}

	return start(c)
}

// WithMode returns a functional option for setting a profiler's mode.
func WithMode(mode string) Option {
	return func(c Config) Config {
		c.Mode = mode

		return c
	}
}

// WithPath returns a functional option for setting a profiler's output
// directory.
func WithPath(path string) Option {
	return func(c Config) Config {
		c.Path = path

		return c
	}
}

// WithQuiet returns a functional option that suppresses the profiler's own
// log messages.
func WithQuiet(quiet bool) Option {
	return func(c Config) Config {
		c.Quiet = quiet

		return c
	}
}

type ignore struct{}

func (ignore) Stop() {}

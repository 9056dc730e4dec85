package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/tlisp/log"
)

func Example_basic() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none"))
	logger.Info("session started", slog.String("scope", "lexical"))
	// Output: level=INFO msg="session started" scope=lexical
}

func Example_levels() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelWarn),
		log.WithTimeLayout("none"))

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warning message", slog.String("key", "value"))
	logger.Error("error message", slog.String("error", "something failed"))
	// Output:
	// level=WARN msg="warning message" key=value
	// level=ERROR msg="error message" error="something failed"
}

func Example_withAttributes() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatJSON),
		log.WithTimeLayout("none"))
	logger = logger.With(slog.String("source", "repl"))

	logger.Info("input accepted", slog.Int("bytes", 9))
	// Output: {"level":"INFO","msg":"input accepted","source":"repl","bytes":9}
}

func Example_zeroValue() {
	var logger log.Logger

	// Discarded: the zero Logger has no output.
	logger.Info("nobody hears this")
	// Output:
}

// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("session started", slog.String("scope", "lexical"))
//	logger.Error("evaluation failed", slog.Any("error", err))
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// A configured logger can be derived from with [Logger.Wrap], which starts
// from the current configuration, and [Logger.With], which adds attributes
// to every message.
//
// # Zero Value
//
// The zero [Logger] discards everything. Libraries accept a Logger through
// an option and log unconditionally; nothing is written unless the caller
// supplied one.
//
// # Levels
//
// In addition to the [log/slog] levels the package defines [LevelTrace],
// used for high-volume diagnostics such as per-call evaluation traces.
//
// # Package Logger
//
// The package-level functions ([Info], [Debug], ...) write to a default
// logger, initially text on [os.Stderr] at [DefaultLevel], which [Config]
// reconfigures.
package log

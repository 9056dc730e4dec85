package log

//go:generate go tool stringer --linecomment --type Level,Format --output level_string.go

import (
	"iter"
	"log/slog"
	"strings"
)

// Level represents the severity of a log message.
type Level slog.Level

const levelTraceMask = -8

const (
	LevelTrace Level = Level(levelTraceMask)  // trace
	LevelDebug Level = Level(slog.LevelDebug) // debug
	LevelInfo  Level = Level(slog.LevelInfo)  // info
	LevelWarn  Level = Level(slog.LevelWarn)  // warn
	LevelError Level = Level(slog.LevelError) // error
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelInfo

// Levels returns an iterator over the names of all defined log levels, most
// verbose first.
func Levels() iter.Seq[string] {
	return names(LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError)
}

// ParseLevel parses a level name, case-insensitively.
// Besides the names yielded by [Levels], any string accepted by
// [slog.Level.UnmarshalText] is recognized, such as "info+2".
// It reports false and returns [DefaultLevel] if s is not a level.
func ParseLevel(s string) (Level, bool) {
	s = strings.TrimSpace(s)

	if strings.EqualFold(s, LevelTrace.String()) {
		return LevelTrace, true
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel, false
	}

	return Level(l), true
}

// Format represents the output format for log messages.
type Format int

const (
	FormatText Format = iota // text
	FormatJSON               // json
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatText

// Formats returns an iterator over the names of all defined log formats.
func Formats() iter.Seq[string] {
	return names(FormatText, FormatJSON)
}

// ParseFormat parses a format name, case-insensitively.
// It reports false and returns [DefaultFormat] if s is not a format.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case FormatText.String():
		return FormatText, true
	case FormatJSON.String():
		return FormatJSON, true
	default:
		return DefaultFormat, false
	}
}

func names[T interface{ String() string }](v ...T) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, e := range v {
			if !yield(e.String()) {
				return
			}
		}
	}
}

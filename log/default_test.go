package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPackage_LogFunctions_UseDefaultLogger(t *testing.T) {
	// Save original logger and restore after test
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON)))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
		msg   string
	}{
		{"Trace", Trace, "TRACE", "trace message"},
		{"Debug", Debug, "DEBUG", "debug message"},
		{"Info", Info, "INFO", "info message"},
		{"Warn", Warn, "WARN", "warn message"},
		{"Error", Error, "ERROR", "error message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn(tt.msg, slog.String("key", "value"))

			output := buf.String()
			if !strings.Contains(output, tt.msg) {
				t.Errorf("expected output to contain message %q, got: %s", tt.msg, output)
			}

			if !strings.Contains(output, `"level":"`+tt.level+`"`) {
				t.Errorf("expected output to contain level %q, got: %s", tt.level, output)
			}

			if !strings.Contains(output, `"key":"value"`) {
				t.Errorf("expected output to contain attribute, got: %s", output)
			}
		})
	}
}

func TestPackage_Config(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithLevel(LevelError)))
	Info("hidden")

	Config(WithLevel(LevelDebug))
	DebugContext(t.Context(), "shown")
	With(slog.String("k", "v")).Info("attributed")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("message below level written: %s", out)
	}

	if !strings.Contains(out, "shown") || !strings.Contains(out, "k=v") {
		t.Errorf("Config did not keep output or apply level: %s", out)
	}

	if Default().Output() != &buf {
		t.Errorf("Config replaced the output writer")
	}
}

func TestPackage_Caller(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithCaller(true), WithFormat(FormatJSON)))
	Info("where")

	if !strings.Contains(buf.String(), "default_test.go") {
		t.Errorf("caller not attributed to the test file: %s", buf.String())
	}
}

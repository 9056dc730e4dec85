package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/tlisp/lang"
)

// Fmt reads a source file, parses it, and writes it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as s-expressions (default)."`
	JSON   JSON   `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the syntax tree as YAML."`
}

// formatSource parses the file at path, or stdin if path is "-", and passes
// the program to write. Parse failures carry the format name.
func formatSource(
	ctx context.Context,
	path, format string,
	write func(ctx context.Context, s Stdio, prog *lang.Program) error,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	srcs, err := loadSources(ctx, []string{path}, settingsFrom(ctx).Options...)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("format", format))
	}

	return write(ctx, stdioFrom(ctx), srcs[0].Program)
}

// Native formats input as s-expressions.
type Native struct {
	Indent int `default:"2" help:"Indent width for nested lists; 0 keeps each expression on one line" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the fmt native command.
func (f *Native) Run(ctx context.Context) error {
	return formatSource(ctx, f.Source, "native",
		func(_ context.Context, s Stdio, prog *lang.Program) error {
			return lang.Format(s.Out, prog, f.Indent)
		})
}

// JSON reads input, parses it, and outputs the syntax tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) error {
	return formatSource(ctx, j.Source, "json",
		func(ctx context.Context, s Stdio, prog *lang.Program) error {
			return lang.FormatJSON(ctx, s.Out, prog, j.Indent)
		})
}

// YAML reads input, parses it, and outputs the syntax tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output; 0 selects flow style" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) error {
	return formatSource(ctx, y.Source, "yaml",
		func(ctx context.Context, s Stdio, prog *lang.Program) error {
			return lang.FormatYAML(ctx, s.Out, prog, y.Indent)
		})
}

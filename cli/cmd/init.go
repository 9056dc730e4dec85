package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/tlisp/lang"
	"github.com/ardnew/tlisp/log"
	"github.com/ardnew/tlisp/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force  bool   `                 help:"Overwrite existing configuration file"     short:"f"`
	Format string `default:"yaml" help:"Configuration file format: ${enum}" enum:"yaml,lisp"`
}

// configEncoder writes configuration entries in one file format.
type configEncoder struct {
	ext    string
	encode func(ctx context.Context, w io.Writer, entries []configEntry) error
}

var configEncoders = map[string]configEncoder{
	"yaml": {ext: ExtYAML, encode: encodeYAML},
	"lisp": {ext: ExtLisp, encode: encodeLisp},
}

// configEntry is a flag name and its current value converted to a plain
// bool, int64, uint64, float64, string or []any.
type configEntry struct {
	name  string
	value any
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confDir, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config directory undefined")
	}

	enc, ok := configEncoders[i.Format]
	if !ok {
		panic("internal error: unknown config format " + i.Format)
	}

	confPath := filepath.Join(confDir, ConfigBase+enc.ext)

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	entries := configEntries(ktx)

	err = enc.encode(ctx, file, entries)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
		slog.String("format", i.Format),
		slog.Int("entries", len(entries)),
	)

	return nil
}

// configEntries collects the current value of every global flag worth
// persisting, in declaration order.
func configEntries(ktx *kong.Context) []configEntry {
	prefixIgnore := []string{"help", "version", profile.Tag}

	var entries []configEntry

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v, ok := configValue(ktx.FlagValue(flag)); ok {
			entries = append(entries, configEntry{name: flag.Name, value: v})
		}
	}

	return entries
}

// configValue converts a flag value to its plain form.
// It reports false for nil, empty strings and empty slices.
func configValue(v any) (any, bool) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Invalid:
		return nil, false

	case reflect.Bool:
		return rv.Bool(), true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), true

	case reflect.Float32, reflect.Float64:
		return rv.Float(), true

	case reflect.String:
		if rv.Len() == 0 {
			return nil, false
		}

		return rv.String(), true

	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return nil, false
		}

		out := make([]any, 0, rv.Len())

		for i := range rv.Len() {
			if e, ok := configValue(rv.Index(i).Interface()); ok {
				out = append(out, e)
			}
		}

		return out, true

	default:
		return fmt.Sprint(v), true
	}
}

func encodeYAML(ctx context.Context, w io.Writer, entries []configEntry) error {
	doc := make(yaml.MapSlice, len(entries))
	for i, e := range entries {
		doc[i] = yaml.MapItem{Key: e.name, Value: e.value}
	}

	data, err := yaml.MarshalContext(ctx, doc, yaml.Indent(defaultConfigIndent))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	_, err = w.Write(data)

	return err
}

// encodeLisp writes one (define name value) form per entry.
// Entries with no literal form, lists and strings containing a double quote,
// are left out.
func encodeLisp(ctx context.Context, w io.Writer, entries []configEntry) error {
	prog := new(lang.Program)

	for _, e := range entries {
		node, ok := literal(e.value)
		if !ok {
			log.DebugContext(ctx, "config entry has no literal form",
				slog.String("name", e.name))

			continue
		}

		prog.Expressions = append(prog.Expressions, &lang.List{
			Elements: []lang.Node{
				&lang.Identifier{Text: "define"},
				&lang.Identifier{Text: e.name},
				node,
			},
		})
	}

	return lang.Format(w, prog, defaultConfigIndent)
}

// literal returns the source node for v. Only non-negative integers have a
// number literal; every other scalar is written as a string.
func literal(v any) (lang.Node, bool) {
	switch v := v.(type) {
	case int64:
		if v >= 0 {
			return &lang.NumberConst{Value: float64(v)}, true
		}

	case uint64:
		return &lang.NumberConst{Value: float64(v)}, true

	case float64:
		if v >= 0 && v == math.Trunc(v) {
			return &lang.NumberConst{Value: v}, true
		}

	case []any:
		return nil, false
	}

	s := fmt.Sprint(v)
	if strings.ContainsRune(s, '"') {
		return nil, false
	}

	return &lang.StringConst{Text: s}, true
}

package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/tlisp/lang"
	"github.com/ardnew/tlisp/log"
)

// config implements [kong.Resolver] over a flat map of flag names to values.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but config files may use
	// underscores. Try both forms.
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// loadYAML is a [kong.ConfigurationLoader] for YAML config files.
//
// Nested mappings name flag groups, so the following are equivalent:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// A file that cannot be decoded is logged and contributes no values.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	err := yaml.NewDecoder(r).Decode(&doc)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			log.Warn("ignoring malformed YAML configuration",
				slog.Any("error", err))
		}

		return config{}, nil
	}

	return flatten(doc), nil
}

// loadLisp returns a [kong.ConfigurationLoader] for config files written in
// tlisp. The file is evaluated against the base environment and every name
// it defines becomes a flag value:
//
//	(define log-level "debug")
//	(define lang-max-depth 500)
//	(define log-pretty "false")
//
// Numbers and strings are the only values used; functions are ignored, so a
// config file may define helpers. A file that fails to parse or evaluate is
// logged and contributes no values.
func loadLisp(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		opts := []lang.Option{
			lang.WithStrict(true),
			lang.WithLogger(log.Default()),
			lang.WithOutput(io.Discard),
		}

		prog, err := lang.ParseReader(ctx, r, opts...)
		if err != nil {
			log.WarnContext(ctx, "ignoring malformed tlisp configuration",
				slog.Any("error", err))

			return config{}, nil
		}

		base := lang.Base()

		env, _, err := lang.Evaluate(ctx, prog, base, opts...)
		if err != nil {
			log.WarnContext(ctx, "ignoring failed tlisp configuration",
				slog.Any("error", err))

			return config{}, nil
		}

		result := config{}

		for name, value := range env.All() {
			if bv, err := base.Lookup(name); err == nil && bv == value {
				continue
			}

			switch v := value.(type) {
			case lang.Number:
				// Kong requires numbers as strings for parsing
				result[name] = strconv.FormatFloat(float64(v), 'f', -1, 64)
			case lang.String:
				result[name] = string(v)
			}
		}

		return result, nil
	}
}

// flatten converts nested maps to a flat config keyed by the hyphen-joined
// path to each leaf.
func flatten(doc map[string]any) config {
	result := config{}

	var walk func(prefix string, m map[string]any)

	walk = func(prefix string, m map[string]any) {
		for key, val := range m {
			if prefix != "" {
				key = prefix + "-" + key
			}

			if sub, ok := val.(map[string]any); ok {
				walk(key, sub)

				continue
			}

			result[key] = normalize(val)
		}
	}

	walk("", doc)

	return result
}

// normalize converts decoded numbers to strings, which Kong parses for any
// numeric flag type.
func normalize(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = normalize(e)
		}

		return out
	default:
		return v
	}
}

package cli

import (
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func flagNamed(name string) *kong.Flag {
	return &kong.Flag{Value: &kong.Value{Name: name}}
}

func resolveAll(t *testing.T, r kong.Resolver, names ...string) map[string]any {
	t.Helper()

	out := make(map[string]any)

	for _, name := range names {
		v, err := r.Resolve(nil, nil, flagNamed(name))
		if err != nil {
			t.Fatalf("Resolve(%s): %v", name, err)
		}

		if v != nil {
			out[name] = v
		}
	}

	return out
}

func TestConfig_Resolve(t *testing.T) {
	r := config{
		"log-level":  "debug",
		"lang_scope": "dynamic",
	}

	if err := r.Validate(nil); err != nil {
		t.Fatal(err)
	}

	got := resolveAll(t, r, "log-level", "lang-scope", "log-format")
	want := map[string]any{"log-level": "debug", "lang-scope": "dynamic"}

	if !maps.Equal(got, want) {
		t.Errorf("resolved = %v, want %v", got, want)
	}
}

func TestLoadYAML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]any
	}{
		{
			name:  "flat",
			input: "log-level: debug\nlang_max_depth: 50\n",
			want:  map[string]any{"log-level": "debug", "lang-max-depth": "50"},
		},
		{
			name:  "nested_groups",
			input: "log:\n  level: warn\n  pretty: false\nlang:\n  strict-arity: true\n",
			want: map[string]any{
				"log-level":         "warn",
				"log-pretty":        false,
				"lang-strict-arity": true,
			},
		},
		{
			name:  "empty",
			input: "",
			want:  map[string]any{},
		},
		{
			name:  "malformed",
			input: "log-level: [unterminated\n",
			want:  map[string]any{},
		},
	}

	names := []string{"log-level", "log-pretty", "lang-max-depth", "lang-strict-arity"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := loadYAML(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("loadYAML() error = %v", err)
			}

			if got := resolveAll(t, r, names...); !maps.Equal(got, tt.want) {
				t.Errorf("resolved = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	got, ok := normalize([]any{uint64(1), int64(-2), 2.5, "x"}).([]any)
	if !ok {
		t.Fatal("normalize did not return a slice")
	}

	want := []any{"1", "-2", "2.5", "x"}
	if !slices.Equal(got, want) {
		t.Errorf("normalize = %v, want %v", got, want)
	}
}

func TestLoadLisp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]any
	}{
		{
			name: "definitions",
			input: `(define log-level "debug")
			        (define lang-max-depth 500)
			        (defun twice (n) (add n n))
			        (define log-time-layout "kitchen")`,
			want: map[string]any{
				"log-level":       "debug",
				"lang-max-depth":  "500",
				"log-time-layout": "kitchen",
			},
		},
		{
			name:  "computed",
			input: `(defun twice (n) (add n n)) (define lang-max-depth (twice 50))`,
			want:  map[string]any{"lang-max-depth": "100"},
		},
		{
			name:  "malformed",
			input: `(define log-level "debug"`,
			want:  map[string]any{},
		},
		{
			name:  "evaluation_error",
			input: `(define log-level undefined-name)`,
			want:  map[string]any{},
		},
	}

	names := []string{"log-level", "lang-max-depth", "log-time-layout", "twice", "add"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := loadLisp(t.Context())(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("loadLisp() error = %v", err)
			}

			if got := resolveAll(t, r, names...); !maps.Equal(got, tt.want) {
				t.Errorf("resolved = %v, want %v", got, tt.want)
			}
		})
	}
}

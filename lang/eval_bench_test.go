package lang

import (
	"testing"
)

// BenchmarkEvaluate benchmarks parsing and evaluating small programs.
func BenchmarkEvaluate(b *testing.B) {
	tests := []struct {
		name   string
		source string
	}{
		{
			name:   "add",
			source: "(add 1 2 3 4 5)",
		},
		{
			name:   "nested_calls",
			source: "(defun twice (n) (add n n)) (twice (twice (twice 1)))",
		},
		{
			name: "body_defines",
			source: `(defun dumb-add (a b)
			           (define a-other (add a 3))
			           (define b-other (add b 5))
			           (add a-other b-other))
			         (dumb-add 4 10)`,
		},
		{
			name:   "closures",
			source: "(defun adder (n) (lambda (x) (add x n))) ((adder 3) ((adder 4) 5))",
		},
	}

	for _, tt := range tests {
		prog, err := Parse(tt.source)
		if err != nil {
			b.Fatalf("Parse error: %v", err)
		}

		b.Run(tt.name, func(b *testing.B) {
			env := NewBaseEnv()

			b.ReportAllocs()

			for b.Loop() {
				if _, _, err := Evaluate(b.Context(), prog, env); err != nil {
					b.Fatalf("Evaluate error: %v", err)
				}
			}
		})
	}
}

// BenchmarkParseString compares cached and uncached parsing.
func BenchmarkParseString(b *testing.B) {
	const source = `(defun dumb-add (a b) (define a-other (add a 3)) ` +
		`(define b-other (add b 5)) (add a-other b-other)) (dumb-add 4 10)`

	b.Run("cached", func(b *testing.B) {
		ClearCache()
		b.ReportAllocs()

		for b.Loop() {
			if _, err := ParseString(b.Context(), source); err != nil {
				b.Fatalf("ParseString error: %v", err)
			}
		}
	})

	b.Run("uncached", func(b *testing.B) {
		b.ReportAllocs()

		for b.Loop() {
			if _, err := ParseString(b.Context(), source, WithCache(false)); err != nil {
				b.Fatalf("ParseString error: %v", err)
			}
		}
	})
}

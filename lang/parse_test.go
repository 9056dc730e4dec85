package lang

import (
	"errors"
	"strconv"
	"strings"
	"testing"
)

// shape renders the kinds and contents of a tree, ignoring positions.
func shape(n Node) string {
	switch n := n.(type) {
	case *Program:
		parts := make([]string, len(n.Expressions))
		for i, e := range n.Expressions {
			parts[i] = shape(e)
		}

		return "[" + strings.Join(parts, " ") + "]"

	case *List:
		parts := make([]string, len(n.Elements))
		for i, e := range n.Elements {
			parts[i] = shape(e)
		}

		return "(" + strings.Join(parts, " ") + ")"

	case *Identifier:
		return "id:" + n.Text

	case *StringConst:
		return "str:" + strconv.Quote(n.Text)

	case *NumberConst:
		return "num:" + formatNumber(n.Value)

	default:
		return "?"
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: "[]"},
		{name: "whitespace only", input: " \t\r\n ", want: "[]"},
		{name: "number", input: "1", want: "[num:1]"},
		{name: "multi-digit number", input: "1234", want: "[num:1234]"},
		{name: "two numbers", input: "1 2", want: "[num:1 num:2]"},
		{name: "string", input: `"a"`, want: `[str:"a"]`},
		{name: "string with spaces", input: `"hello world"`, want: `[str:"hello world"]`},
		{name: "empty string", input: `""`, want: `[str:""]`},
		{name: "identifier", input: "add-one", want: "[id:add-one]"},
		{name: "bang identifier", input: "!log!", want: "[id:!log!]"},
		{name: "unicode identifier", input: "λx", want: "[id:λx]"},
		{name: "digit leads number", input: "1abc", want: "[num:1 id:abc]"},
		{name: "empty list", input: "()", want: "[()]"},
		{name: "call", input: "(add 1 2)", want: "[(id:add num:1 num:2)]"},
		{
			name:  "nested",
			input: "(add 1 (add 1 1))",
			want:  "[(id:add num:1 (id:add num:1 num:1))]",
		},
		{
			name:  "deeply nested",
			input: "(((a)))",
			want:  "[(((id:a)))]",
		},
		{
			name:  "mixed whitespace",
			input: "\t(add\n1\r\n  2 )\n",
			want:  "[(id:add num:1 num:2)]",
		},
		{
			name:  "no space between lists",
			input: "(a)(b)",
			want:  "[(id:a) (id:b)]",
		},
		{
			name:  "program",
			input: `(define a "a") (define b a)`,
			want:  `[(id:define id:a str:"a") (id:define id:b id:a)]`,
		},
		{
			name:  "lambda call",
			input: "((lambda (a) (add a 1)) 3)",
			want:  "[((id:lambda (id:a) (id:add id:a num:1)) num:3)]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}

			if got := shape(prog); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_Lenient(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "unterminated list", input: "(add 1", want: "[(id:add num:1)]"},
		{name: "unterminated nested list", input: "(a (b", want: "[(id:a (id:b))]"},
		{name: "unterminated string", input: `"abc`, want: `[str:"abc"]`},
		{name: "stray close", input: ") 1", want: "[num:1]"},
		{name: "unknown rune", input: "# 1", want: "[num:1]"},
		{name: "unknown rune in list", input: "(a # b)", want: "[(id:a id:b)]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}

			if got := shape(prog); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_Strict(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantAttr string
	}{
		{name: "unterminated list", input: "(add 1", wantAttr: "line=1 column=1 unterminated=list"},
		{name: "unterminated string", input: `  "abc`, wantAttr: "line=1 column=3 unterminated=string"},
		{name: "stray close", input: "1\n )", wantAttr: "line=2 column=2 unexpected=)"},
		{name: "unknown rune", input: "(a #)", wantAttr: "line=1 column=4 unexpected=#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input, WithStrict(true))
			if !errors.Is(err, ErrParse) {
				t.Fatalf("Parse(%q) error = %v, want ErrParse", tt.input, err)
			}

			if !strings.Contains(err.Error(), tt.wantAttr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantAttr)
			}
		})
	}
}

func TestParse_StrictAcceptsValid(t *testing.T) {
	input := `(defun dumb-add (a b) (define a-other (add a 3)) (add a-other b)) "s" 1`

	lenient, err := Parse(input)
	if err != nil {
		t.Fatalf("lenient Parse error: %v", err)
	}

	strict, err := Parse(input, WithStrict(true))
	if err != nil {
		t.Fatalf("strict Parse error: %v", err)
	}

	if shape(lenient) != shape(strict) {
		t.Errorf("strict tree %s differs from lenient tree %s",
			shape(strict), shape(lenient))
	}
}

func TestParse_Positions(t *testing.T) {
	prog, err := Parse("(add\n  x \"s\")")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	list, ok := prog.Expressions[0].(*List)
	if !ok {
		t.Fatalf("expression is %T, want *List", prog.Expressions[0])
	}

	tests := []struct {
		node Node
		want Position
	}{
		{node: list, want: Position{Offset: 0, Line: 1, Column: 1}},
		{node: list.Elements[0], want: Position{Offset: 1, Line: 1, Column: 2}},
		{node: list.Elements[1], want: Position{Offset: 7, Line: 2, Column: 3}},
		{node: list.Elements[2], want: Position{Offset: 9, Line: 2, Column: 5}},
	}

	for _, tt := range tests {
		if got := tt.node.Pos(); got != tt.want {
			t.Errorf("%s at %+v, want %+v", tt.node, got, tt.want)
		}
	}
}

func TestCollectWhile(t *testing.T) {
	c := newCursor("abc123")

	letters, err := collectWhile(c, func(r rune) bool { return r >= 'a' && r <= 'z' },
		func() (rune, bool, error) {
			r := c.peek()
			c.advance()

			return r, true, nil
		})
	if err != nil {
		t.Fatalf("collectWhile error: %v", err)
	}

	if string(letters) != "abc" {
		t.Errorf("collectWhile = %q, want %q", string(letters), "abc")
	}

	if c.peek() != '1' {
		t.Errorf("cursor at %q, want %q", c.peek(), '1')
	}

	stop := errors.New("stop")

	got, err := collectWhile(c, always, func() (int, bool, error) {
		return 0, false, stop
	})
	if !errors.Is(err, stop) || len(got) != 0 {
		t.Errorf("collectWhile = %v, %v; want [], stop", got, err)
	}
}

func TestCursor(t *testing.T) {
	c := newCursor("a\nλ")

	if c.peek() != 'a' {
		t.Fatalf("peek() = %q, want 'a'", c.peek())
	}

	if r := c.advance(); r != '\n' {
		t.Errorf("advance() = %q, want newline", r)
	}

	if r := c.advance(); r != 'λ' {
		t.Errorf("advance() = %q, want 'λ'", r)
	}

	if got := c.position(); got.Line != 2 || got.Column != 1 || got.Offset != 2 {
		t.Errorf("position() = %+v, want {2 2 1}", got)
	}

	if r := c.advance(); r != eof {
		t.Errorf("advance() = %q, want eof", r)
	}

	if r := c.advance(); r != eof {
		t.Errorf("advance() past end = %q, want eof", r)
	}
}

package lang

import (
	"strconv"
	"unicode/utf8"
)

// eof is returned by the cursor once the input is exhausted.
const eof rune = -1

// Position identifies a location in source text.
// Line and Column are 1-based; Offset is a 0-based byte offset.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// String returns the position as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// cursor is a single-pass rune reader over source text.
// It never backtracks; the parser re-reads the current rune with peek.
type cursor struct {
	src string
	pos Position
}

func newCursor(src string) *cursor {
	return &cursor{src: src, pos: Position{Line: 1, Column: 1}}
}

// peek returns the rune at the current position, or eof.
func (c *cursor) peek() rune {
	if c.done() {
		return eof
	}

	r, _ := utf8.DecodeRuneInString(c.src[c.pos.Offset:])

	return r
}

// advance moves past the current rune and returns the next one.
func (c *cursor) advance() rune {
	if c.done() {
		return eof
	}

	r, n := utf8.DecodeRuneInString(c.src[c.pos.Offset:])

	c.pos.Offset += n

	if r == '\n' {
		c.pos.Line++
		c.pos.Column = 1
	} else {
		c.pos.Column++
	}

	return c.peek()
}

func (c *cursor) done() bool { return c.pos.Offset >= len(c.src) }

func (c *cursor) position() Position { return c.pos }

// collectWhile repeatedly calls step while input remains and allowed holds
// for the current rune, collecting every element step produces.
//
// step reports false to produce nothing for an iteration. A step that
// produces nothing must either consume input or leave the cursor on a rune
// for which allowed fails; otherwise the loop would not terminate.
func collectWhile[T any](
	c *cursor,
	allowed func(rune) bool,
	step func() (T, bool, error),
) ([]T, error) {
	var out []T

	for !c.done() && allowed(c.peek()) {
		elem, ok, err := step()
		if err != nil {
			return out, err
		}

		if ok {
			out = append(out, elem)
		}
	}

	return out, nil
}

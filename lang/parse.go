package lang

import (
	"context"
	"log/slog"
	"strconv"
	"unicode"

	"github.com/ardnew/tlisp/log"
)

// Parse parses source text into a [Program] without consulting the cache.
//
// By default malformed input is not an error: unexpected runes are skipped,
// and an unterminated list or string yields the part parsed so far. With
// [WithStrict] the same inputs are reported as [ErrParse].
func Parse(source string, opts ...Option) (*Program, error) {
	cfg := makeConfig(opts...)

	return parse(context.Background(), source, cfg)
}

// ParseString parses source text into a [Program].
// Results are cached by content unless caching is disabled with [WithCache].
func ParseString(
	ctx context.Context,
	source string,
	opts ...Option,
) (*Program, error) {
	cfg := makeConfig(opts...)

	if !cfg.cache {
		return parse(ctx, source, cfg)
	}

	return parseCached(ctx, source, cfg)
}

func parse(ctx context.Context, source string, cfg config) (*Program, error) {
	p := &parser{
		c:      newCursor(source),
		strict: cfg.strict,
		logger: cfg.logger,
	}

	prog, err := p.parseProgram()
	if err != nil {
		p.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("source_bytes", len(source)),
		slog.Int("expression_count", len(prog.Expressions)))

	return prog, nil
}

// parser holds the parser state.
type parser struct {
	c      *cursor
	strict bool
	logger log.Logger
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || isDigit(r) || r == '-' || r == '!'
}

func always(rune) bool { return true }

func not(r rune) func(rune) bool {
	return func(c rune) bool { return c != r }
}

// parseProgram parses: expression*.
func (p *parser) parseProgram() (*Program, error) {
	start := p.c.position()

	exprs, err := collectWhile(p.c, always, p.parseExpression)
	if err != nil {
		return nil, err
	}

	return &Program{Expressions: exprs, Start: start}, nil
}

// parseExpression dispatches on the lead rune after skipping whitespace.
// It reports false when no expression starts at the cursor.
func (p *parser) parseExpression() (Node, bool, error) {
	p.skipSpace()

	switch r := p.c.peek(); {
	case r == eof:
		return nil, false, nil

	case isDigit(r):
		n, err := p.parseNumber()

		return n, err == nil, err

	case r == '"':
		s, err := p.parseString()

		return s, err == nil, err

	case r == '(':
		l, err := p.parseList()

		return l, err == nil, err

	case isIdentRune(r):
		id, err := p.parseIdentifier()

		return id, err == nil, err

	default:
		return nil, false, p.unexpected(r, "expression")
	}
}

// parseListElement is parseExpression that stops at a closing bracket.
func (p *parser) parseListElement() (Node, bool, error) {
	p.skipSpace()

	if p.c.peek() == ')' {
		return nil, false, nil
	}

	return p.parseExpression()
}

// parseNumber parses: digit+.
func (p *parser) parseNumber() (*NumberConst, error) {
	start := p.c.position()

	digits, err := collectWhile(p.c, isDigit, p.take)
	if err != nil {
		return nil, err
	}

	f, err := strconv.ParseFloat(string(digits), 64)
	if err != nil && p.strict {
		return nil, ErrParse.WithPosition(start).Wrap(err).
			With(slog.String("number", string(digits)))
	}

	return &NumberConst{Text: string(digits), Value: f, Start: start}, nil
}

// parseString parses: '"' (any-char-except '"')* '"'.
func (p *parser) parseString() (*StringConst, error) {
	start := p.c.position()

	p.c.advance() // opening quote

	text, err := collectWhile(p.c, not('"'), p.take)
	if err != nil {
		return nil, err
	}

	if p.c.peek() != '"' {
		if err := p.unterminated(start, "string"); err != nil {
			return nil, err
		}
	} else {
		p.c.advance()
	}

	return &StringConst{Text: string(text), Start: start}, nil
}

// parseIdentifier parses: (letter | digit | '-' | '!')+.
func (p *parser) parseIdentifier() (*Identifier, error) {
	start := p.c.position()

	text, err := collectWhile(p.c, isIdentRune, p.take)
	if err != nil {
		return nil, err
	}

	return &Identifier{Text: string(text), Start: start}, nil
}

// parseList parses: '(' expression* ')'.
func (p *parser) parseList() (*List, error) {
	start := p.c.position()

	p.c.advance() // opening bracket

	elems, err := collectWhile(p.c, not(')'), p.parseListElement)
	if err != nil {
		return nil, err
	}

	if p.c.peek() != ')' {
		if err := p.unterminated(start, "list"); err != nil {
			return nil, err
		}
	} else {
		p.c.advance()
	}

	return &List{Elements: elems, Start: start}, nil
}

// take consumes and produces the current rune.
func (p *parser) take() (rune, bool, error) {
	r := p.c.peek()
	p.c.advance()

	return r, true, nil
}

// skip consumes the current rune and produces nothing.
func (p *parser) skip() (struct{}, bool, error) {
	p.c.advance()

	return struct{}{}, false, nil
}

func (p *parser) skipSpace() {
	_, _ = collectWhile(p.c, isSpace, p.skip)
}

// unexpected skips r in lenient mode and reports it in strict mode.
func (p *parser) unexpected(r rune, expected string) error {
	pos := p.c.position()

	if p.strict {
		return ErrParse.WithPosition(pos).With(
			slog.String("unexpected", string(r)),
			slog.String("expected", expected),
		)
	}

	p.logger.Trace("skip unexpected rune",
		slog.String("rune", string(r)),
		slog.String("position", pos.String()))

	p.c.advance()

	return nil
}

func (p *parser) unterminated(start Position, what string) error {
	if !p.strict {
		return nil
	}

	return ErrParse.WithPosition(start).With(
		slog.String("unterminated", what),
	)
}

package lang

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

import (
	"math"
	"strconv"
	"strings"
)

// Kind discriminates the variants of [Node] and [Value].
type Kind int

const (
	KindNone       Kind = iota // none
	KindProgram                // program
	KindIdentifier             // identifier
	KindList                   // list
	KindString                 // string
	KindNumber                 // number
	KindFunction               // function
	KindBuiltin                // builtin
)

// Node is a syntax tree node produced by the parser.
//
// The set of nodes is closed: *[Program], *[Identifier], *[List],
// *[StringConst] and *[NumberConst]. Nodes are never modified after the
// parser returns them, so they may be shared between goroutines.
type Node interface {
	Kind() Kind
	Pos() Position
	// String renders the node as source text that parses back to an equal
	// tree.
	String() string

	node()
}

// Program is the root of a parsed source: a sequence of top-level
// expressions evaluated in order.
type Program struct {
	Expressions []Node
	Start       Position
}

// Identifier names a binding.
type Identifier struct {
	Text  string
	Start Position
}

// List is a parenthesized sequence. Whether it is data or a call is decided
// when it is evaluated.
type List struct {
	Elements []Node
	Start    Position
}

// StringConst is a double-quoted string literal.
type StringConst struct {
	Text  string
	Start Position
}

// NumberConst is a numeric literal. Text holds the source digits when the
// node came from the parser.
type NumberConst struct {
	Text  string
	Value float64
	Start Position
}

func (*Program) node()     {}
func (*Identifier) node()  {}
func (*List) node()        {}
func (*StringConst) node() {}
func (*NumberConst) node() {}

func (*Program) Kind() Kind     { return KindProgram }
func (*Identifier) Kind() Kind  { return KindIdentifier }
func (*List) Kind() Kind        { return KindList }
func (*StringConst) Kind() Kind { return KindString }
func (*NumberConst) Kind() Kind { return KindNumber }

func (n *Program) Pos() Position     { return n.Start }
func (n *Identifier) Pos() Position  { return n.Start }
func (n *List) Pos() Position        { return n.Start }
func (n *StringConst) Pos() Position { return n.Start }
func (n *NumberConst) Pos() Position { return n.Start }

func (n *Program) String() string { return joinNodes(n.Expressions, "\n") }

func (n *Identifier) String() string { return n.Text }

func (n *List) String() string {
	return "(" + joinNodes(n.Elements, " ") + ")"
}

func (n *StringConst) String() string { return `"` + n.Text + `"` }

// String renders Value canonically, or the source digits when Value
// overflowed float64.
func (n *NumberConst) String() string {
	if math.IsInf(n.Value, 0) && n.Text != "" {
		return n.Text
	}

	return formatNumber(n.Value)
}

// Len returns the number of elements in the list.
// A nil list is empty.
func (n *List) Len() int {
	if n == nil {
		return 0
	}

	return len(n.Elements)
}

// Head returns the first element of the list, or nil if it is empty.
func (n *List) Head() Node {
	if n.Len() == 0 {
		return nil
	}

	return n.Elements[0]
}

// Tail returns a list of every element after the first.
// The returned list shares its backing array with n.
func (n *List) Tail() *List {
	if n.Len() == 0 {
		return &List{}
	}

	start := n.Start
	if len(n.Elements) > 1 {
		start = n.Elements[1].Pos()
	}

	return &List{Elements: n.Elements[1:], Start: start}
}

func joinNodes(nodes []Node, sep string) string {
	var sb strings.Builder

	for i, n := range nodes {
		if i > 0 {
			sb.WriteString(sep)
		}

		sb.WriteString(n.String())
	}

	return sb.String()
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Package lang implements a small Lisp: a recursive-descent parser that
// turns source text into a syntax tree, and a tree-walking evaluator that
// runs the tree against a persistent chain of binding frames.
//
// # Grammar
//
// Informal EBNF:
//
//	program     → expression*
//	expression  → number | string | identifier | list
//	number      → digit+
//	string      → '"' (any rune except '"')* '"'
//	identifier  → (letter | digit | '-' | '!')+
//	list        → '(' expression* ')'
//
// Space, tab, newline and carriage return separate tokens. A lead digit
// always starts a number, so "1a" is the number 1 followed by the
// identifier a.
//
// # Evaluation
//
// Evaluation returns an environment as well as a value. define and defun
// return the environment extended with their binding, which is then visible
// to the expressions that follow them in the same program or function body:
//
//	(defun dumb-add (a b)
//	  (define a-other (add a 3))
//	  (define b-other (add b 5))
//	  (add a-other b-other))
//	(dumb-add 4 10) ; 22
//
// A list evaluates its head and calls the result with the remaining
// elements. Builtins receive those elements unevaluated; functions receive
// them evaluated left to right. A function call never leaks bindings to its
// caller. The empty list evaluates to none.
//
// # Builtins
//
// The base environment ([Base], [NewBaseEnv]) holds:
//
//	(add n...)                 sum of the numbers n, from 0
//	(define name value)        bind value to name
//	(defun name (p...) body...) bind a named function
//	(lambda (p...) body...)    anonymous function
//	(!log! expr...)            write each value on its own line
//	(!debug!)                  write all visible bindings
//
// [HostEnv] layers expr, getenv and path-prefix on top of any environment.
//
// # Scope
//
// Functions capture the environment they are defined in. Under
// [ScopeLexical], the default, a call binds its parameters in a frame over
// that environment. Under [ScopeDynamic] the frame is layered over the
// caller's environment instead, so a function sees the bindings of whoever
// calls it:
//
//	(define x 1)
//	(defun get-x () x)
//	(define x 2)
//	(get-x) ; 1 under ScopeLexical, 2 under ScopeDynamic
package lang

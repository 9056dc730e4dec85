package lang

import (
	"iter"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// Env is a persistent chain of binding frames.
//
// An Env is never modified after it is created: [Env.Extend] and [Env.Bind]
// return a new frame whose parent is the receiver. Any number of
// environments may share ancestor frames, and an Env may be used from
// multiple goroutines. A nil *Env is an empty environment.
type Env struct {
	bindings map[string]Value
	parent   *Env
	depth    int
}

// NewEnv returns a root environment holding a copy of bindings.
func NewEnv(bindings map[string]Value) *Env {
	return (*Env)(nil).Extend(bindings)
}

// Extend returns a new environment with a copy of bindings layered in front
// of e. Bindings in the new frame shadow those of the same name in e.
func (e *Env) Extend(bindings map[string]Value) *Env {
	return &Env{
		bindings: maps.Clone(bindings),
		parent:   e,
		depth:    e.Depth() + 1,
	}
}

// Bind returns a new environment with the single binding name → value
// layered in front of e.
func (e *Env) Bind(name string, value Value) *Env {
	return &Env{
		bindings: map[string]Value{name: value},
		parent:   e,
		depth:    e.Depth() + 1,
	}
}

// Lookup returns the innermost binding of name, or
// [ErrUnresolvedIdentifier] if no frame binds it.
func (e *Env) Lookup(name string) (Value, error) {
	for f := e; f != nil; f = f.parent {
		if v, ok := f.bindings[name]; ok {
			return v, nil
		}
	}

	return nil, ErrUnresolvedIdentifier.With(slog.String("name", name))
}

// Parent returns the environment e was extended from, or nil for a root.
func (e *Env) Parent() *Env {
	if e == nil {
		return nil
	}

	return e.parent
}

// Depth returns the number of frames in the chain.
func (e *Env) Depth() int {
	if e == nil {
		return 0
	}

	return e.depth
}

// All returns an iterator over the visible bindings of e, innermost frame
// first. A shadowed name is yielded once, with its innermost value. Names
// within a frame are yielded in sorted order.
func (e *Env) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		seen := make(map[string]struct{})

		for f := e; f != nil; f = f.parent {
			for _, name := range slices.Sorted(maps.Keys(f.bindings)) {
				if _, ok := seen[name]; ok {
					continue
				}

				seen[name] = struct{}{}

				if !yield(name, f.bindings[name]) {
					return
				}
			}
		}
	}
}

// Flatten returns a map of the visible bindings of e.
func (e *Env) Flatten() map[string]Value {
	return maps.Collect(e.All())
}

// Names returns the sorted names of the visible bindings of e.
func (e *Env) Names() []string {
	return slices.Sorted(maps.Keys(e.Flatten()))
}

// String renders the visible bindings of e sorted by name.
func (e *Env) String() string {
	var sb strings.Builder

	sb.WriteByte('{')

	flat := e.Flatten()

	for i, name := range slices.Sorted(maps.Keys(flat)) {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(FormatValue(flat[name]))
	}

	sb.WriteByte('}')

	return sb.String()
}

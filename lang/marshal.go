package lang

import (
	"encoding/json"
	"math"
)

// MarshalJSON implements json.Marshaler for Program.
func (n *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(ToNative(n))
}

// ToNative converts a node to a tree of native Go maps and slices.
//
// Every node becomes a map with a "kind" key naming its [Kind]. Leaves carry
// "text" or "value"; lists carry "elements" and programs "expressions".
func ToNative(node Node) map[string]any {
	switch n := node.(type) {
	case *Program:
		return map[string]any{
			"kind":        n.Kind().String(),
			"expressions": nativeSlice(n.Expressions),
		}

	case *List:
		return map[string]any{
			"kind":     n.Kind().String(),
			"elements": nativeSlice(n.Elements),
		}

	case *Identifier:
		return map[string]any{"kind": n.Kind().String(), "text": n.Text}

	case *StringConst:
		return map[string]any{"kind": n.Kind().String(), "text": n.Text}

	case *NumberConst:
		return map[string]any{"kind": n.Kind().String(), "value": nativeNumber(n.Value)}

	default:
		return map[string]any{"kind": KindNone.String()}
	}
}

func nativeSlice(nodes []Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = ToNative(n)
	}

	return out
}

// nativeNumber returns integral values as int64 so they encode without a
// fractional part.
func nativeNumber(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}

	return f
}

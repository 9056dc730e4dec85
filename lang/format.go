package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
)

// FormatWidth is the rendered width beyond which [Format] breaks a list
// across lines.
const FormatWidth = 80

// Format writes prog as source text, one top-level expression per line.
//
// With indent > 0, a list whose rendering would extend past [FormatWidth]
// is broken after its head, and each remaining element is written on its
// own line indented by indent spaces per level. With indent <= 0 every
// expression is written on a single line.
func Format(w io.Writer, prog *Program, indent int) error {
	for _, expr := range prog.Expressions {
		if err := formatNode(w, expr, indent, 0); err != nil {
			return err
		}

		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	return nil
}

func formatNode(w io.Writer, n Node, indent, depth int) error {
	flat := n.String()

	list, ok := n.(*List)
	if !ok || indent <= 0 || list.Len() < 2 ||
		depth*indent+len(flat) <= FormatWidth {
		_, err := fmt.Fprint(w, flat)

		return err
	}

	if _, err := fmt.Fprint(w, "(", list.Head().String()); err != nil {
		return err
	}

	pad := strings.Repeat(" ", (depth+1)*indent)

	for _, elem := range list.Elements[1:] {
		if _, err := fmt.Fprint(w, "\n", pad); err != nil {
			return err
		}

		if err := formatNode(w, elem, indent, depth+1); err != nil {
			return err
		}
	}

	_, err := fmt.Fprint(w, ")")

	return err
}

// FormatJSON writes the tree of node as JSON to the writer.
// See [ToNative] for its shape.
func FormatJSON(_ context.Context, w io.Writer, node Node, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(ToNative(node), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(ToNative(node))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the tree of node as YAML to the writer.
// With indent <= 0 the document is written in flow style.
func FormatYAML(ctx context.Context, w io.Writer, node Node, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, ToNative(node), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

func resultTypeName(value any) string {
	if value == nil {
		return "nil"
	}

	return reflect.TypeOf(value).String()
}

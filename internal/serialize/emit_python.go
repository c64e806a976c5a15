package serialize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rxtech-lab/argo-designer/internal/types"
)

// emitPython renders the semantic tree as a Python module declaring a
// single Strategy value. The keyword arguments mirror the YAML mapping
// one-to-one: name, when, signal, and optionally metadata. The body is
// a declarative literal; nothing in it is executed by the designer.
func emitPython(root []entry) string {
	var sb strings.Builder

	sb.WriteString("from argo.designer import Strategy\n\n")
	sb.WriteString("STRATEGY = Strategy(\n")

	for _, e := range root {
		if e.Key == "rules" {
			// The document model holds exactly one rule; its when and
			// signal become top-level keyword arguments.
			rules, _ := e.Value.([]any)
			if len(rules) == 0 {
				continue
			}

			rule, _ := rules[0].([]entry)
			for _, re := range rule {
				sb.WriteString(fmt.Sprintf("    %s=%s,\n", re.Key, pythonLiteral(re.Value, 1)))
			}

			continue
		}

		sb.WriteString(fmt.Sprintf("    %s=%s,\n", e.Key, pythonLiteral(e.Value, 1)))
	}

	sb.WriteString(")\n")

	return sb.String()
}

// pythonLiteral renders a value as a Python literal. Mappings and
// sequences are expanded over multiple lines at the given indent depth.
func pythonLiteral(v any, depth int) string {
	indent := strings.Repeat("    ", depth)
	inner := strings.Repeat("    ", depth+1)

	switch value := v.(type) {
	case []entry:
		if len(value) == 0 {
			return "{}"
		}

		var sb strings.Builder

		sb.WriteString("{\n")
		for _, e := range value {
			sb.WriteString(fmt.Sprintf("%s%s: %s,\n", inner, pythonString(e.Key), pythonLiteral(e.Value, depth+1)))
		}
		sb.WriteString(indent + "}")

		return sb.String()

	case []any:
		if len(value) == 0 {
			return "[]"
		}

		var sb strings.Builder

		sb.WriteString("[\n")
		for _, item := range value {
			sb.WriteString(fmt.Sprintf("%s%s,\n", inner, pythonLiteral(item, depth+1)))
		}
		sb.WriteString(indent + "]")

		return sb.String()

	case nil:
		return "None"

	case bool:
		if value {
			return "True"
		}

		return "False"

	case string:
		return pythonString(value)

	default:
		if d, ok := types.AsDecimal(v); ok {
			return d.String()
		}

		return pythonString(fmt.Sprintf("%v", v))
	}
}

// pythonString quotes a string as a double-quoted Python literal.
func pythonString(s string) string {
	return strconv.Quote(s)
}

package som

import (
	"fmt"
	"strings"
)

// Render produces the human-readable tree format used by inspection
// tooling (SPEC_FULL.md's Renderer): primitives render as
// "<label> : <value>", composites as "<label> {" or "[" followed by one
// indented, comma-terminated line per child and a closing brace/bracket.
// A node with nothing to show renders as its bare label. This mirrors the
// original_source's som2text.rs Display implementations: each node type
// has its own String method, which Render calls through fmt.Stringer.
func Render(n Node) string {
	if s, ok := n.(fmt.Stringer); ok {
		return s.String()
	}
	return "?"
}

// label returns meta's rendered name — "name (description)" when both are
// set, "name" alone when description is empty, or fallback (the node's
// Kind word) when no name was ever attached.
func label(meta Meta, fallback string) string {
	if meta.Name == "" {
		return fallback
	}
	if meta.Description == "" {
		return meta.Name
	}
	return fmt.Sprintf("%s (%s)", meta.Name, meta.Description)
}

func renderPrimitive(kind Kind, meta Meta, hasValue bool, value string) string {
	l := label(meta, kind.String())
	if !hasValue {
		return l
	}
	return fmt.Sprintf("%s : %s", l, value)
}

func (n *BoolNode) String() string {
	v, ok := n.Get()
	return renderPrimitive(n.Kind(), n.Meta, ok, fmt.Sprintf("%v", v))
}

func (n *U8Node) String() string {
	v, ok := n.Get()
	return renderPrimitive(n.Kind(), n.Meta, ok, fmt.Sprintf("%d", v))
}

func (n *I8Node) String() string {
	v, ok := n.Get()
	return renderPrimitive(n.Kind(), n.Meta, ok, fmt.Sprintf("%d", v))
}

func (n *U16Node) String() string {
	v, ok := n.Get()
	return renderPrimitive(n.Kind(), n.Meta, ok, fmt.Sprintf("%d", v))
}

func (n *I16Node) String() string {
	v, ok := n.Get()
	return renderPrimitive(n.Kind(), n.Meta, ok, fmt.Sprintf("%d", v))
}

func (n *U24Node) String() string {
	v, ok := n.Get()
	return renderPrimitive(n.Kind(), n.Meta, ok, fmt.Sprintf("%d", v))
}

func (n *I24Node) String() string {
	v, ok := n.Get()
	return renderPrimitive(n.Kind(), n.Meta, ok, fmt.Sprintf("%d", v))
}

func (n *U32Node) String() string {
	v, ok := n.Get()
	return renderPrimitive(n.Kind(), n.Meta, ok, fmt.Sprintf("%d", v))
}

func (n *I32Node) String() string {
	v, ok := n.Get()
	return renderPrimitive(n.Kind(), n.Meta, ok, fmt.Sprintf("%d", v))
}

func (n *U64Node) String() string {
	v, ok := n.Get()
	return renderPrimitive(n.Kind(), n.Meta, ok, fmt.Sprintf("%d", v))
}

func (n *I64Node) String() string {
	v, ok := n.Get()
	return renderPrimitive(n.Kind(), n.Meta, ok, fmt.Sprintf("%d", v))
}

func (n *F32Node) String() string {
	v, ok := n.Get()
	return renderPrimitive(n.Kind(), n.Meta, ok, fmt.Sprintf("%v", v))
}

func (n *F64Node) String() string {
	v, ok := n.Get()
	return renderPrimitive(n.Kind(), n.Meta, ok, fmt.Sprintf("%v", v))
}

// indentChild prepends each line of s with one indent level, matching
// the nested-brace indentation of structs and arrays of arrays.
func indentChild(s string) string {
	return "\n    " + strings.ReplaceAll(s, "\n", "\n    ")
}

func wrap(l, open, close, body string) string {
	if body == "" {
		return l
	}
	if l == "" {
		return fmt.Sprintf("%s%s\n%s", open, body, close)
	}
	return fmt.Sprintf("%s %s%s\n%s", l, open, body, close)
}

func (n *ArrayNode) String() string {
	l := label(n.Meta, n.Kind().String())
	var body strings.Builder
	for _, item := range n.items {
		body.WriteString(indentChild(Render(item)))
		body.WriteString(",")
	}
	return wrap(l, "[", "]", body.String())
}

func (n *StructNode) String() string {
	l := label(n.Meta, n.Kind().String())
	var body strings.Builder
	for _, m := range n.Members {
		body.WriteString(indentChild(Render(m)))
		body.WriteString(",")
	}
	return wrap(l, "{", "}", body.String())
}

func (n *EnumNode) String() string {
	l := label(n.Meta, n.Kind().String())
	if len(n.Variants) == 0 {
		return l
	}
	var child string
	if v, ok := n.Selected(); ok {
		child = fmt.Sprintf("'%s' : %d", v.Name, v.Value)
	} else {
		child = "'?'"
	}
	return wrap(l, "{", "}", indentChild(child)+",")
}

func (n *StringNode) String() string {
	l := label(n.Meta, n.Kind().String())
	v, _ := n.Get()
	if v == "" {
		return l
	}
	return fmt.Sprintf("%s : '%s'", l, v)
}

func (n *UnionNode) String() string {
	l := label(n.Meta, n.Kind().String())
	if len(n.Members) == 0 {
		return l
	}
	var child string
	if _, active := n.Active(); active != nil {
		child = Render(active)
	} else {
		child = "?"
	}
	return wrap(l, "{", "}", indentChild(child)+",")
}

func (n *OptionalNode) String() string {
	l := label(n.Meta, n.Kind().String())
	var body strings.Builder
	for _, e := range n.Entries {
		v, ok := n.Get(e.WireKey)
		if !ok {
			continue
		}
		body.WriteString(indentChild(fmt.Sprintf("<%d> %s", e.WireKey, Render(v))))
		body.WriteString(",")
	}
	return wrap(l, "{", "}", body.String())
}

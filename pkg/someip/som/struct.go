package som

// StructNode is an ordered, fixed set of named members serialized back to
// back with no length prefix or padding of its own (spec.md §4.4) — mirrors
// the source's SOMStruct<T>, generalized from a single homogeneous element
// type to heterogeneous Node members via the Kind tag.
type StructNode struct {
	Meta
	Members []Node
}

// NewStruct builds a StructNode over members in declaration order.
func NewStruct(members ...Node) *StructNode {
	return &StructNode{Members: members}
}

func (n *StructNode) Kind() Kind { return KindStruct }

func (n *StructNode) Size() int {
	total := 0
	for _, m := range n.Members {
		total += m.Size()
	}
	return total
}

func (n *StructNode) Serialize(c *Cursor) (int, error) {
	offset := c.Offset()
	for _, m := range n.Members {
		if _, err := m.Serialize(c); err != nil {
			return 0, err
		}
	}
	return c.Offset() - offset, nil
}

func (n *StructNode) Parse(c *Cursor) (int, error) {
	offset := c.Offset()
	for _, m := range n.Members {
		if _, err := m.Parse(c); err != nil {
			return 0, err
		}
	}
	return c.Offset() - offset, nil
}

// Member looks up a member by its Meta.Name, for callers that address
// struct fields by FIBEX name rather than position.
func (n *StructNode) Member(name string) (Node, bool) {
	for _, m := range n.Members {
		if named, ok := m.(interface{ MetaName() string }); ok && named.MetaName() == name {
			return m, true
		}
	}
	return nil, false
}

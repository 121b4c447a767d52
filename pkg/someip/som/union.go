package som

import "github.com/marmos91/someip/pkg/someip/codec"

// UnionMember is one 1-indexed arm of a UnionNode. Tag 0 is reserved to
// mean "no value is active" and is never assigned to a member.
type UnionMember struct {
	Tag  uint32
	Node func() Node
}

// UnionNode selects at most one of its Members by a written selector tag,
// followed by a length prefix over the selected member's bytes (spec.md
// §4.7). Parse rejects a tag that names no member with InvalidPayloadError.
type UnionNode struct {
	Meta
	TypeFieldWidth   int // 1, 2, or 4 bytes
	LengthFieldWidth int // 1, 2, or 4 bytes
	Members          []UnionMember

	tag    uint32
	active Node
}

// NewUnion builds a UnionNode with the given selector and length-field
// widths over members, each reachable by its 1-indexed Tag.
func NewUnion(typeFieldWidth, lengthFieldWidth int, members ...UnionMember) *UnionNode {
	return &UnionNode{TypeFieldWidth: typeFieldWidth, LengthFieldWidth: lengthFieldWidth, Members: members}
}

func (n *UnionNode) Kind() Kind { return KindUnion }

// SetActive selects the member identified by tag and returns its Node for
// the caller to populate. tag 0 clears the union to "absent".
func (n *UnionNode) SetActive(tag uint32) (Node, error) {
	if tag == 0 {
		n.tag = 0
		n.active = nil
		return nil, nil
	}
	for _, m := range n.Members {
		if m.Tag == tag {
			n.tag = tag
			n.active = m.Node()
			return n.active, nil
		}
	}
	return nil, codec.NewInvalidTypeError("unknown union member tag")
}

// Active returns the currently selected member's tag and Node, or
// (0, nil) if absent.
func (n *UnionNode) Active() (uint32, Node) { return n.tag, n.active }

func (n *UnionNode) Size() int {
	size := n.TypeFieldWidth + n.LengthFieldWidth
	if n.active != nil {
		size += n.active.Size()
	}
	return size
}

func (n *UnionNode) Serialize(c *Cursor) (int, error) {
	start := c.Offset()
	if err := n.writeSelector(c, n.tag); err != nil {
		return 0, err
	}
	placeholder := c.Offset()
	if err := reserveLengthField(c, n.LengthFieldWidth); err != nil {
		return 0, err
	}
	bodyStart := c.Offset()
	if n.active != nil {
		if _, err := n.active.Serialize(c); err != nil {
			return 0, err
		}
	}
	patchLengthField(c, placeholder, n.LengthFieldWidth, c.Offset()-bodyStart)
	return c.Offset() - start, nil
}

func (n *UnionNode) Parse(c *Cursor) (int, error) {
	start := c.Offset()
	tag, err := n.readSelector(c)
	if err != nil {
		return 0, err
	}
	length, err := readLengthField(c, n.LengthFieldWidth)
	if err != nil {
		return 0, err
	}

	if tag == 0 {
		if length != 0 {
			return 0, codec.NewInvalidPayloadError(start, "absent union must carry a zero-length body")
		}
		n.tag = 0
		n.active = nil
		return c.Offset() - start, nil
	}

	var member *UnionMember
	for i := range n.Members {
		if n.Members[i].Tag == tag {
			member = &n.Members[i]
			break
		}
	}
	if member == nil {
		return 0, codec.NewInvalidPayloadError(start, "unknown union member tag")
	}

	bodyStart := c.Offset()
	node := member.Node()
	if _, err := node.Parse(c); err != nil {
		return 0, err
	}
	if c.Offset()-bodyStart != length {
		return 0, codec.NewInvalidPayloadError(bodyStart, "union member did not consume its declared length")
	}
	n.tag = tag
	n.active = node
	return c.Offset() - start, nil
}

func (n *UnionNode) writeSelector(c *Cursor, v uint32) error {
	switch n.TypeFieldWidth {
	case 1:
		return c.WriteU8(uint8(v))
	case 2:
		return c.WriteU16(uint16(v), BigEndian)
	case 4:
		return c.WriteU32(v, BigEndian)
	default:
		return codec.NewInvalidTypeError("unsupported union type-field width")
	}
}

func (n *UnionNode) readSelector(c *Cursor) (uint32, error) {
	switch n.TypeFieldWidth {
	case 1:
		v, err := c.ReadU8()
		return uint32(v), err
	case 2:
		v, err := c.ReadU16(BigEndian)
		return uint32(v), err
	case 4:
		return c.ReadU32(BigEndian)
	default:
		return 0, codec.NewInvalidTypeError("unsupported union type-field width")
	}
}

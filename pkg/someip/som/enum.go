package som

import "github.com/marmos91/someip/pkg/someip/codec"

// EnumVariant names one (symbolic-name, numeric-value) pair of an
// EnumNode. Names and values are each unique within an EnumNode.
type EnumVariant struct {
	Name  string
	Value uint64
}

// EnumNode is a named-variant leaf backed by an unsigned primitive width
// (u8/u16/u32/u64) per spec.md §4.5. The selector is written/read as that
// primitive; on the wire only the numeric value ever appears.
type EnumNode struct {
	Meta
	Width    Kind // one of KindU8, KindU16, KindU32, KindU64
	Endian   Endian
	Variants []EnumVariant

	selected *EnumVariant
}

// NewEnum builds an EnumNode of the given unsigned primitive width. width
// must be KindU8, KindU16, KindU32, or KindU64; anything else is a caller
// error surfaced by Serialize and Parse (SetByName/SetByValue do not check
// the width).
func NewEnum(width Kind, e Endian, variants ...EnumVariant) *EnumNode {
	return &EnumNode{Width: width, Endian: e, Variants: variants}
}

func (n *EnumNode) Kind() Kind { return KindEnum }

func (n *EnumNode) Size() int {
	switch n.Width {
	case KindU8:
		return 1
	case KindU16:
		return 2
	case KindU32:
		return 4
	case KindU64:
		return 8
	default:
		return 0
	}
}

// SetByName selects the variant with the given symbolic name, or fails if
// none matches.
func (n *EnumNode) SetByName(name string) error {
	for i := range n.Variants {
		if n.Variants[i].Name == name {
			n.selected = &n.Variants[i]
			return nil
		}
	}
	return codec.NewInvalidTypeError("unknown enum variant name: " + name)
}

// SetByValue selects the variant with the given numeric value, or fails if
// none matches.
func (n *EnumNode) SetByValue(v uint64) error {
	for i := range n.Variants {
		if n.Variants[i].Value == v {
			n.selected = &n.Variants[i]
			return nil
		}
	}
	return codec.NewInvalidTypeError("unknown enum variant value")
}

// Selected returns the currently selected variant, if any.
func (n *EnumNode) Selected() (EnumVariant, bool) {
	if n.selected == nil {
		return EnumVariant{}, false
	}
	return *n.selected, true
}

func (n *EnumNode) Serialize(c *Cursor) (int, error) {
	offset := c.Offset()
	if n.selected == nil {
		return 0, codec.NewUninitializedTypeError(offset)
	}
	if err := n.writeWidth(c, n.selected.Value); err != nil {
		return 0, err
	}
	return c.Offset() - offset, nil
}

func (n *EnumNode) Parse(c *Cursor) (int, error) {
	offset := c.Offset()
	v, err := n.readWidth(c)
	if err != nil {
		return 0, err
	}
	for i := range n.Variants {
		if n.Variants[i].Value == v {
			n.selected = &n.Variants[i]
			return c.Offset() - offset, nil
		}
	}
	return 0, codec.NewInvalidPayloadError(offset, "unknown enum value on wire")
}

func (n *EnumNode) writeWidth(c *Cursor, v uint64) error {
	switch n.Width {
	case KindU8:
		return c.WriteU8(uint8(v))
	case KindU16:
		return c.WriteU16(uint16(v), n.Endian)
	case KindU32:
		return c.WriteU32(uint32(v), n.Endian)
	case KindU64:
		return c.WriteU64(v, n.Endian)
	default:
		return codec.NewInvalidTypeError("enum must be backed by an unsigned primitive width")
	}
}

func (n *EnumNode) readWidth(c *Cursor) (uint64, error) {
	switch n.Width {
	case KindU8:
		v, err := c.ReadU8()
		return uint64(v), err
	case KindU16:
		v, err := c.ReadU16(n.Endian)
		return uint64(v), err
	case KindU32:
		v, err := c.ReadU32(n.Endian)
		return uint64(v), err
	case KindU64:
		return c.ReadU64(n.Endian)
	default:
		return 0, codec.NewInvalidTypeError("enum must be backed by an unsigned primitive width")
	}
}

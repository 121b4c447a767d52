package som

import "github.com/marmos91/someip/pkg/someip/codec"

// ArrayNode is either a fixed-length array (construct with NewFixedArray)
// or a dynamic, length-field-prefixed array (NewDynamicArray) of a single
// element schema, cloned per element (spec.md §4.3). A nested ArrayNode as
// Element expresses a multi-dimensional array, each dimension carrying its
// own length-field when dynamic.
type ArrayNode struct {
	Meta
	// LengthFieldWidth is 0 for fixed arrays, else 1/2/4 bytes.
	LengthFieldWidth int
	// Count is the element count for a fixed array; ignored for dynamic.
	Count int
	// Min and Max bound the element count for a dynamic array.
	Min, Max int
	// Element is the prototype cloned to produce each element's Node.
	Element func() Node

	items []Node
}

// NewFixedArray builds an array of exactly count elements with no
// length-field; serializing any other count is InvalidType.
func NewFixedArray(count int, element func() Node) *ArrayNode {
	return &ArrayNode{Count: count, Element: element}
}

// NewDynamicArray builds a length-field-prefixed array whose element count
// at serialize time must satisfy min <= n <= max. lengthFieldWidth must be
// 1, 2, or 4.
func NewDynamicArray(lengthFieldWidth, min, max int, element func() Node) *ArrayNode {
	return &ArrayNode{LengthFieldWidth: lengthFieldWidth, Min: min, Max: max, Element: element}
}

func (n *ArrayNode) Kind() Kind { return KindArray }

func (n *ArrayNode) isDynamic() bool { return n.LengthFieldWidth != 0 }

// Items returns the array's current elements.
func (n *ArrayNode) Items() []Node { return n.items }

// SetItems replaces the array's current elements.
func (n *ArrayNode) SetItems(items []Node) { n.items = items }

func (n *ArrayNode) Size() int {
	total := n.LengthFieldWidth
	for _, it := range n.items {
		total += it.Size()
	}
	return total
}

func (n *ArrayNode) Serialize(c *Cursor) (int, error) {
	start := c.Offset()

	if n.isDynamic() {
		if len(n.items) < n.Min || len(n.items) > n.Max {
			return 0, codec.NewInvalidTypeError("array element count out of bounds")
		}
		placeholder := c.Offset()
		if err := reserveLengthField(c, n.LengthFieldWidth); err != nil {
			return 0, err
		}
		bodyStart := c.Offset()
		for _, it := range n.items {
			if _, err := it.Serialize(c); err != nil {
				return 0, err
			}
		}
		patchLengthField(c, placeholder, n.LengthFieldWidth, c.Offset()-bodyStart)
		return c.Offset() - start, nil
	}

	if len(n.items) != n.Count {
		return 0, codec.NewInvalidTypeError("fixed array element count does not match declared size")
	}
	for _, it := range n.items {
		if _, err := it.Serialize(c); err != nil {
			return 0, err
		}
	}
	return c.Offset() - start, nil
}

func (n *ArrayNode) Parse(c *Cursor) (int, error) {
	start := c.Offset()

	if n.isDynamic() {
		length, err := readLengthField(c, n.LengthFieldWidth)
		if err != nil {
			return 0, err
		}
		end := c.Offset() + length
		var items []Node
		for c.Offset() < end {
			el := n.Element()
			if _, err := el.Parse(c); err != nil {
				return 0, err
			}
			if c.Offset() > end {
				return 0, codec.NewInvalidPayloadError(start, "array element overran its length-field region")
			}
			items = append(items, el)
		}
		if len(items) < n.Min || len(items) > n.Max {
			return 0, codec.NewInvalidPayloadError(start, "array element count out of bounds")
		}
		n.items = items
		return c.Offset() - start, nil
	}

	items := make([]Node, n.Count)
	for i := 0; i < n.Count; i++ {
		el := n.Element()
		if _, err := el.Parse(c); err != nil {
			return 0, err
		}
		items[i] = el
	}
	n.items = items
	return c.Offset() - start, nil
}

// reserveLengthField writes a zero placeholder of the given width (0 means
// no field at all, which is a caller error for any length-prefixed form).
func reserveLengthField(c *Cursor, width int) error {
	switch width {
	case 1:
		return c.WriteU8(0)
	case 2:
		return c.WriteU16(0, BigEndian)
	case 4:
		return c.WriteU32(0, BigEndian)
	default:
		return codec.NewInvalidTypeError("unsupported length-field width")
	}
}

func patchLengthField(c *Cursor, placeholder, width, length int) {
	switch width {
	case 1:
		c.PatchLengthU8(placeholder, uint8(length))
	case 2:
		c.PatchLengthU16(placeholder, uint16(length))
	case 4:
		c.PatchLengthU32(placeholder, uint32(length))
	}
}

func readLengthField(c *Cursor, width int) (int, error) {
	switch width {
	case 1:
		v, err := c.ReadU8()
		return int(v), err
	case 2:
		v, err := c.ReadU16(BigEndian)
		return int(v), err
	case 4:
		v, err := c.ReadU32(BigEndian)
		return int(v), err
	default:
		return 0, codec.NewInvalidTypeError("unsupported length-field width")
	}
}

package som

import "github.com/marmos91/someip/pkg/someip/codec"

// tlvWireType is the 3-bit code written in the top bits of a TLV record's
// 16-bit tag. It tells a decoder how to find the end of a record's body
// without understanding the member's schema, so unknown wire-keys can
// still be skipped (spec.md §4.8). Fixed-width primitives get a code that
// implies their byte count; every variable-length or odd-width kind gets a
// code that implies an explicit length prefix instead.
type tlvWireType uint8

const (
	tlvFixed1   tlvWireType = 0 // bool, u8, i8, or a u8-backed enum
	tlvFixed2   tlvWireType = 1 // u16, i16, or a u16-backed enum
	tlvFixed4   tlvWireType = 2 // u32, i32, f32, or a u32-backed enum
	tlvFixed8   tlvWireType = 3 // u64, i64, f64, or a u64-backed enum
	tlvLenU8    tlvWireType = 4 // u24/i24 (length always 3) or any 8-bit-length body
	tlvLenU16   tlvWireType = 5 // string or a nested optional
	tlvLenU32   tlvWireType = 6 // array or union
	tlvComplex  tlvWireType = 7 // struct; body length is the member's own Size()
)

// wireTypeFor reports the TLV wire-type code a member's Kind maps to. This
// is the one table both the encoder and the decoder consult, so a mismatch
// between what was written and what the entry expects is always
// detectable.
func wireTypeFor(n Node) (tlvWireType, error) {
	switch n.Kind() {
	case KindBool, KindU8, KindI8:
		return tlvFixed1, nil
	case KindU16, KindI16:
		return tlvFixed2, nil
	case KindU32, KindI32, KindF32:
		return tlvFixed4, nil
	case KindU64, KindI64, KindF64:
		return tlvFixed8, nil
	case KindU24, KindI24:
		return tlvLenU8, nil
	case KindEnum:
		switch n.Size() {
		case 1:
			return tlvFixed1, nil
		case 2:
			return tlvFixed2, nil
		case 4:
			return tlvFixed4, nil
		case 8:
			return tlvFixed8, nil
		default:
			return 0, codec.NewInvalidTypeError("enum has an unsupported backing width")
		}
	case KindString, KindOptional:
		return tlvLenU16, nil
	case KindArray, KindUnion:
		return tlvLenU32, nil
	case KindStruct:
		return tlvComplex, nil
	default:
		return 0, codec.NewInvalidTypeError("unsupported TLV member kind")
	}
}

func (t tlvWireType) lengthWidth() int {
	switch t {
	case tlvLenU8:
		return 1
	case tlvLenU16:
		return 2
	case tlvLenU32:
		return 4
	default:
		return 0
	}
}

// OptionalEntry is one TLV record slot: a stable wire-key (spec.md §4.8
// requires it be >= 1, since key 0 is reserved by the 13-bit field being
// otherwise indistinguishable from "no entries"), a factory producing a
// fresh member Node, and whether it must be present on the wire.
type OptionalEntry struct {
	WireKey  uint16
	Node     func() Node
	Required bool
}

// OptionalNode is a TLV-framed set of named, independently present-or-absent
// members (spec.md §4.8) — the generalization FIBEX calls an "optional
// field set" or "extensible struct".
type OptionalNode struct {
	Meta
	LengthFieldWidth int // 1, 2, or 4 bytes
	Entries          []OptionalEntry

	values map[uint16]Node
}

// NewOptional builds an OptionalNode with the given outer length-field
// width over entries.
func NewOptional(lengthFieldWidth int, entries ...OptionalEntry) *OptionalNode {
	return &OptionalNode{LengthFieldWidth: lengthFieldWidth, Entries: entries, values: map[uint16]Node{}}
}

func (n *OptionalNode) Kind() Kind { return KindOptional }

// Set assigns the Node for the entry identified by wireKey, marking it
// present. It returns the freshly created Node for the caller to populate,
// or an error if wireKey names no configured entry.
func (n *OptionalNode) Set(wireKey uint16) (Node, error) {
	for _, e := range n.Entries {
		if e.WireKey == wireKey {
			if n.values == nil {
				n.values = map[uint16]Node{}
			}
			node := e.Node()
			n.values[wireKey] = node
			return node, nil
		}
	}
	return nil, codec.NewInvalidTypeError("unknown optional entry wire-key")
}

// Get returns the Node currently set for wireKey, if present.
func (n *OptionalNode) Get(wireKey uint16) (Node, bool) {
	v, ok := n.values[wireKey]
	return v, ok
}

func (n *OptionalNode) Size() int {
	total := n.LengthFieldWidth
	for _, node := range n.values {
		wt, err := wireTypeFor(node)
		if err != nil {
			continue
		}
		total += 2 // tag
		if lw := wt.lengthWidth(); lw > 0 {
			total += lw
		}
		total += node.Size()
	}
	return total
}

func (n *OptionalNode) Serialize(c *Cursor) (int, error) {
	start := c.Offset()
	placeholder := c.Offset()
	if err := reserveLengthField(c, n.LengthFieldWidth); err != nil {
		return 0, err
	}
	bodyStart := c.Offset()

	for _, e := range n.Entries {
		node, set := n.values[e.WireKey]
		if !set {
			if e.Required {
				return 0, codec.NewUninitializedTypeError(c.Offset())
			}
			continue
		}
		wt, err := wireTypeFor(node)
		if err != nil {
			return 0, err
		}
		tag := uint16(wt)<<13 | (e.WireKey & 0x1FFF)
		if err := c.WriteU16(tag, BigEndian); err != nil {
			return 0, err
		}
		if lw := wt.lengthWidth(); lw > 0 {
			bodyLenOffset := c.Offset()
			if err := reserveLengthField(c, lw); err != nil {
				return 0, err
			}
			memberStart := c.Offset()
			if _, err := node.Serialize(c); err != nil {
				return 0, err
			}
			patchLengthField(c, bodyLenOffset, lw, c.Offset()-memberStart)
		} else {
			if _, err := node.Serialize(c); err != nil {
				return 0, err
			}
		}
	}

	patchLengthField(c, placeholder, n.LengthFieldWidth, c.Offset()-bodyStart)
	return c.Offset() - start, nil
}

func (n *OptionalNode) Parse(c *Cursor) (int, error) {
	start := c.Offset()
	length, err := readLengthField(c, n.LengthFieldWidth)
	if err != nil {
		return 0, err
	}
	end := c.Offset() + length

	n.values = map[uint16]Node{}
	seen := map[uint16]bool{}

	for c.Offset() < end {
		tag, err := c.ReadU16(BigEndian)
		if err != nil {
			return 0, err
		}
		wt := tlvWireType(tag >> 13)
		key := tag & 0x1FFF

		var entry *OptionalEntry
		for i := range n.Entries {
			if n.Entries[i].WireKey == key {
				entry = &n.Entries[i]
				break
			}
		}

		if entry == nil {
			// Unknown wire-key: skip its body using only the wire-type.
			if err := skipUnknownTLVBody(c, wt); err != nil {
				return 0, err
			}
			continue
		}

		node := entry.Node()
		expected, err := wireTypeFor(node)
		if err != nil {
			return 0, err
		}
		if expected != wt {
			return 0, codec.NewInvalidPayloadError(start, "TLV wire-type does not match entry's declared kind")
		}

		if lw := wt.lengthWidth(); lw > 0 {
			memberLen, err := readLengthField(c, lw)
			if err != nil {
				return 0, err
			}
			memberStart := c.Offset()
			if _, err := node.Parse(c); err != nil {
				return 0, err
			}
			if c.Offset()-memberStart != memberLen {
				return 0, codec.NewInvalidPayloadError(memberStart, "TLV member did not consume its declared length")
			}
		} else {
			if _, err := node.Parse(c); err != nil {
				return 0, err
			}
		}

		if c.Offset() > end {
			return 0, codec.NewInvalidPayloadError(start, "TLV record overran its outer length")
		}
		n.values[key] = node
		seen[key] = true
	}

	for _, e := range n.Entries {
		if e.Required && !seen[e.WireKey] {
			return 0, codec.NewInvalidPayloadError(start, "required TLV entry missing on wire")
		}
	}

	return c.Offset() - start, nil
}

// skipUnknownTLVBody advances past a TLV record body whose wire-key names
// no configured entry, using only its wire-type code.
func skipUnknownTLVBody(c *Cursor, wt tlvWireType) error {
	switch wt {
	case tlvFixed1:
		return c.Skip(1)
	case tlvFixed2:
		return c.Skip(2)
	case tlvFixed4:
		return c.Skip(4)
	case tlvFixed8:
		return c.Skip(8)
	case tlvLenU8, tlvLenU16, tlvLenU32:
		n, err := readLengthField(c, wt.lengthWidth())
		if err != nil {
			return err
		}
		return c.Skip(n)
	default:
		return codec.NewInvalidPayloadError(c.Offset(), "cannot skip a complex-kind TLV record of unknown wire-key")
	}
}

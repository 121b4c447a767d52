package som

import (
	"unicode/utf16"

	"github.com/marmos91/someip/pkg/someip/codec"
)

// StringEncoding selects the code-unit width and byte order for a
// StringNode's payload (spec.md §4.6).
type StringEncoding uint8

const (
	UTF8 StringEncoding = iota
	UTF16BE
	UTF16LE
)

// StringFormat selects which of the optional BOM/terminator framing parts
// are present around a StringNode's payload.
type StringFormat uint8

const (
	Plain StringFormat = iota
	WithBOM
	WithTermination
	WithBOMAndTermination
)

func (f StringFormat) hasBOM() bool {
	return f == WithBOM || f == WithBOMAndTermination
}

func (f StringFormat) hasTermination() bool {
	return f == WithTermination || f == WithBOMAndTermination
}

var boms = map[StringEncoding][]byte{
	UTF8:    {0xEF, 0xBB, 0xBF},
	UTF16BE: {0xFE, 0xFF},
	UTF16LE: {0xFF, 0xFE},
}

func terminatorLen(enc StringEncoding) int {
	if enc == UTF8 {
		return 1
	}
	return 2
}

// StringNode is a BOM/terminator-framed, Fixed- or Dynamic-sized text leaf
// (spec.md §4.6). Sizes are always byte counts, never character counts.
type StringNode struct {
	Meta
	Encoding StringEncoding
	Format   StringFormat

	// fixedSize is the exact wire size in bytes for a Fixed string, or 0
	// for Dynamic (dynamic is selected by lengthFieldWidth != 0).
	fixedSize        int
	lengthFieldWidth int
	minBytes         int
	maxBytes         int

	value *string
}

// NewFixedString builds a string occupying exactly sizeBytes on the wire.
func NewFixedString(enc StringEncoding, format StringFormat, sizeBytes int) (*StringNode, error) {
	if enc != UTF8 && enc != UTF16BE && enc != UTF16LE {
		return nil, codec.NewInvalidTypeError("unsupported string encoding")
	}
	return &StringNode{Encoding: enc, Format: format, fixedSize: sizeBytes}, nil
}

// NewDynamicString builds a length-field-prefixed string whose encoded
// length must satisfy minBytes <= n <= maxBytes.
func NewDynamicString(enc StringEncoding, format StringFormat, lengthFieldWidth, minBytes, maxBytes int) (*StringNode, error) {
	if enc != UTF8 && enc != UTF16BE && enc != UTF16LE {
		return nil, codec.NewInvalidTypeError("unsupported string encoding")
	}
	return &StringNode{
		Encoding:         enc,
		Format:           format,
		lengthFieldWidth: lengthFieldWidth,
		minBytes:         minBytes,
		maxBytes:         maxBytes,
	}, nil
}

func (n *StringNode) Kind() Kind { return KindString }

func (n *StringNode) isDynamic() bool { return n.lengthFieldWidth != 0 }

func (n *StringNode) Set(v string) { n.value = &v }

func (n *StringNode) Get() (string, bool) { return deref(n.value) }

func (n *StringNode) encode(v string) ([]byte, error) {
	var payload []byte
	switch n.Encoding {
	case UTF8:
		payload = []byte(v)
	case UTF16BE, UTF16LE:
		units := utf16.Encode([]rune(v))
		payload = make([]byte, 2*len(units))
		for i, u := range units {
			if n.Encoding == UTF16BE {
				payload[2*i] = byte(u >> 8)
				payload[2*i+1] = byte(u)
			} else {
				payload[2*i] = byte(u)
				payload[2*i+1] = byte(u >> 8)
			}
		}
	}

	var out []byte
	if n.Format.hasBOM() {
		out = append(out, boms[n.Encoding]...)
	}
	out = append(out, payload...)
	if n.Format.hasTermination() {
		out = append(out, make([]byte, terminatorLen(n.Encoding))...)
	}
	return out, nil
}

func (n *StringNode) decode(raw []byte) (string, error) {
	body := raw
	if n.Format.hasBOM() {
		bom := boms[n.Encoding]
		if len(body) < len(bom) {
			return "", codec.NewInvalidPayloadError(0, "string shorter than its declared BOM")
		}
		for i, b := range bom {
			if body[i] != b {
				return "", codec.NewInvalidPayloadError(0, "BOM does not match declared string encoding")
			}
		}
		body = body[len(bom):]
	}
	if n.Format.hasTermination() {
		idx := findTerminator(body, n.Encoding)
		if idx < 0 {
			return "", codec.NewInvalidPayloadError(0, "string is missing its declared terminator")
		}
		body = body[:idx]
	}

	switch n.Encoding {
	case UTF8:
		return string(body), nil
	case UTF16BE, UTF16LE:
		if len(body)%2 != 0 {
			return "", codec.NewInvalidPayloadError(0, "UTF-16 string payload has odd byte length")
		}
		units := make([]uint16, len(body)/2)
		for i := range units {
			if n.Encoding == UTF16BE {
				units[i] = uint16(body[2*i])<<8 | uint16(body[2*i+1])
			} else {
				units[i] = uint16(body[2*i]) | uint16(body[2*i+1])<<8
			}
		}
		return string(utf16.Decode(units)), nil
	default:
		return "", codec.NewInvalidTypeError("unsupported string encoding")
	}
}

func (n *StringNode) Size() int {
	if !n.isDynamic() {
		return n.fixedSize
	}
	if n.value == nil {
		return n.lengthFieldWidth
	}
	body, _ := n.encode(*n.value)
	return n.lengthFieldWidth + len(body)
}

func (n *StringNode) Serialize(c *Cursor) (int, error) {
	start := c.Offset()
	if n.value == nil {
		return 0, codec.NewUninitializedTypeError(start)
	}
	body, err := n.encode(*n.value)
	if err != nil {
		return 0, err
	}

	if n.isDynamic() {
		if len(body) < n.minBytes || len(body) > n.maxBytes {
			return 0, codec.NewInvalidTypeError("string encoded length out of bounds")
		}
		placeholder := c.Offset()
		if err := reserveLengthField(c, n.lengthFieldWidth); err != nil {
			return 0, err
		}
		if err := c.WriteBytes(body); err != nil {
			return 0, err
		}
		patchLengthField(c, placeholder, n.lengthFieldWidth, len(body))
		return c.Offset() - start, nil
	}

	if len(body) > n.fixedSize {
		return 0, codec.NewInvalidTypeError("fixed string payload exceeds its declared size")
	}
	if err := c.WriteBytes(body); err != nil {
		return 0, err
	}
	if pad := n.fixedSize - len(body); pad > 0 {
		if err := c.WriteBytes(make([]byte, pad)); err != nil {
			return 0, err
		}
	}
	return c.Offset() - start, nil
}

func (n *StringNode) Parse(c *Cursor) (int, error) {
	start := c.Offset()

	var raw []byte
	var err error
	if n.isDynamic() {
		length, lerr := readLengthField(c, n.lengthFieldWidth)
		if lerr != nil {
			return 0, lerr
		}
		raw, err = c.ReadBytes(length)
	} else {
		raw, err = c.ReadBytes(n.fixedSize)
	}
	if err != nil {
		return 0, err
	}

	v, err := n.decode(raw)
	if err != nil {
		return 0, err
	}
	if n.isDynamic() && (len(raw) < n.minBytes || len(raw) > n.maxBytes) {
		return 0, codec.NewInvalidPayloadError(start, "string encoded length out of bounds")
	}
	n.value = &v
	return c.Offset() - start, nil
}

// findTerminator locates the first terminator code unit in body, so a
// Fixed string's trailing zero padding (added to reach size_bytes) is
// distinguished from the terminator itself rather than assumed to sit in
// the buffer's final bytes. Returns -1 if no terminator is present.
func findTerminator(body []byte, enc StringEncoding) int {
	tl := terminatorLen(enc)
	for i := 0; i+tl <= len(body); i += tl {
		allZero := true
		for j := 0; j < tl; j++ {
			if body[i+j] != 0 {
				allZero = false
				break
			}
		}
		if allZero {
			return i
		}
	}
	return -1
}

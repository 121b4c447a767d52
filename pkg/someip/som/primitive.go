package som

import "github.com/marmos91/someip/pkg/someip/codec"

// Each primitive leaf below mirrors the source's monomorphized
// SOMPrimitive<T> (som.rs): bounds-checked, byte-order-aware, and
// UninitializedTypeError on a Serialize with no assigned value.

// BoolNode is a 1-byte boolean leaf; 0x00=false, 0x01=true on the wire.
type BoolNode struct {
	Meta
	value *bool
}

func NewBool() *BoolNode                { return &BoolNode{} }
func NewBoolValue(v bool) *BoolNode     { return &BoolNode{value: &v} }
func (n *BoolNode) Set(v bool)          { n.value = &v }
func (n *BoolNode) Get() (bool, bool)   { return deref(n.value) }
func (n *BoolNode) Kind() Kind          { return KindBool }
func (n *BoolNode) Size() int           { return 1 }
func (n *BoolNode) Serialize(c *Cursor) (int, error) {
	offset := c.Offset()
	if n.value == nil {
		return 0, codec.NewUninitializedTypeError(offset)
	}
	if err := c.WriteBool(*n.value); err != nil {
		return 0, err
	}
	return c.Offset() - offset, nil
}
func (n *BoolNode) Parse(c *Cursor) (int, error) {
	offset := c.Offset()
	v, err := c.ReadBool()
	if err != nil {
		return 0, err
	}
	n.value = &v
	return c.Offset() - offset, nil
}

func deref[T any](p *T) (T, bool) {
	var zero T
	if p == nil {
		return zero, false
	}
	return *p, true
}

// U8Node is an unsigned 8-bit integer leaf.
type U8Node struct {
	Meta
	value *uint8
}

func NewU8() *U8Node              { return &U8Node{} }
func NewU8Value(v uint8) *U8Node  { return &U8Node{value: &v} }
func (n *U8Node) Set(v uint8)     { n.value = &v }
func (n *U8Node) Get() (uint8, bool) { return deref(n.value) }
func (n *U8Node) Kind() Kind      { return KindU8 }
func (n *U8Node) Size() int       { return 1 }
func (n *U8Node) Serialize(c *Cursor) (int, error) {
	offset := c.Offset()
	if n.value == nil {
		return 0, codec.NewUninitializedTypeError(offset)
	}
	if err := c.WriteU8(*n.value); err != nil {
		return 0, err
	}
	return c.Offset() - offset, nil
}
func (n *U8Node) Parse(c *Cursor) (int, error) {
	offset := c.Offset()
	v, err := c.ReadU8()
	if err != nil {
		return 0, err
	}
	n.value = &v
	return c.Offset() - offset, nil
}

// I8Node is a signed 8-bit integer leaf.
type I8Node struct {
	Meta
	value *int8
}

func NewI8() *I8Node             { return &I8Node{} }
func NewI8Value(v int8) *I8Node  { return &I8Node{value: &v} }
func (n *I8Node) Set(v int8)     { n.value = &v }
func (n *I8Node) Get() (int8, bool) { return deref(n.value) }
func (n *I8Node) Kind() Kind      { return KindI8 }
func (n *I8Node) Size() int       { return 1 }
func (n *I8Node) Serialize(c *Cursor) (int, error) {
	offset := c.Offset()
	if n.value == nil {
		return 0, codec.NewUninitializedTypeError(offset)
	}
	if err := c.WriteI8(*n.value); err != nil {
		return 0, err
	}
	return c.Offset() - offset, nil
}
func (n *I8Node) Parse(c *Cursor) (int, error) {
	offset := c.Offset()
	v, err := c.ReadI8()
	if err != nil {
		return 0, err
	}
	n.value = &v
	return c.Offset() - offset, nil
}

// U16Node is an unsigned 16-bit integer leaf with a byte order.
type U16Node struct {
	Meta
	Endian Endian
	value  *uint16
}

func NewU16(e Endian) *U16Node            { return &U16Node{Endian: e} }
func NewU16Value(e Endian, v uint16) *U16Node { return &U16Node{Endian: e, value: &v} }
func (n *U16Node) Set(v uint16)           { n.value = &v }
func (n *U16Node) Get() (uint16, bool)    { return deref(n.value) }
func (n *U16Node) Kind() Kind             { return KindU16 }
func (n *U16Node) Size() int              { return 2 }
func (n *U16Node) Serialize(c *Cursor) (int, error) {
	offset := c.Offset()
	if n.value == nil {
		return 0, codec.NewUninitializedTypeError(offset)
	}
	if err := c.WriteU16(*n.value, n.Endian); err != nil {
		return 0, err
	}
	return c.Offset() - offset, nil
}
func (n *U16Node) Parse(c *Cursor) (int, error) {
	offset := c.Offset()
	v, err := c.ReadU16(n.Endian)
	if err != nil {
		return 0, err
	}
	n.value = &v
	return c.Offset() - offset, nil
}

// I16Node is a signed 16-bit integer leaf with a byte order.
type I16Node struct {
	Meta
	Endian Endian
	value  *int16
}

func NewI16(e Endian) *I16Node            { return &I16Node{Endian: e} }
func NewI16Value(e Endian, v int16) *I16Node { return &I16Node{Endian: e, value: &v} }
func (n *I16Node) Set(v int16)            { n.value = &v }
func (n *I16Node) Get() (int16, bool)     { return deref(n.value) }
func (n *I16Node) Kind() Kind             { return KindI16 }
func (n *I16Node) Size() int              { return 2 }
func (n *I16Node) Serialize(c *Cursor) (int, error) {
	offset := c.Offset()
	if n.value == nil {
		return 0, codec.NewUninitializedTypeError(offset)
	}
	if err := c.WriteI16(*n.value, n.Endian); err != nil {
		return 0, err
	}
	return c.Offset() - offset, nil
}
func (n *I16Node) Parse(c *Cursor) (int, error) {
	offset := c.Offset()
	v, err := c.ReadI16(n.Endian)
	if err != nil {
		return 0, err
	}
	n.value = &v
	return c.Offset() - offset, nil
}

// U24Node is an unsigned 24-bit integer leaf, carried as a distinct type
// with explicit 3-byte I/O to avoid padding or sign-extension bugs
// (spec.md §9). The in-memory representation is uint32; values are
// truncated to 24 significant bits on write, not range-checked on read.
type U24Node struct {
	Meta
	Endian Endian
	value  *uint32
}

func NewU24(e Endian) *U24Node { return &U24Node{Endian: e} }

// NewU24Value constructs a U24Node with v range-checked to fit 24 bits.
func NewU24Value(e Endian, v uint32) (*U24Node, error) {
	if v > 0x00FFFFFF {
		return nil, codec.NewInvalidTypeError("u24 value out of range")
	}
	return &U24Node{Endian: e, value: &v}, nil
}
func (n *U24Node) Set(v uint32) error {
	if v > 0x00FFFFFF {
		return codec.NewInvalidTypeError("u24 value out of range")
	}
	n.value = &v
	return nil
}
func (n *U24Node) Get() (uint32, bool) { return deref(n.value) }
func (n *U24Node) Kind() Kind          { return KindU24 }
func (n *U24Node) Size() int           { return 3 }
func (n *U24Node) Serialize(c *Cursor) (int, error) {
	offset := c.Offset()
	if n.value == nil {
		return 0, codec.NewUninitializedTypeError(offset)
	}
	if err := c.WriteU24(*n.value, n.Endian); err != nil {
		return 0, err
	}
	return c.Offset() - offset, nil
}
func (n *U24Node) Parse(c *Cursor) (int, error) {
	offset := c.Offset()
	v, err := c.ReadU24(n.Endian)
	if err != nil {
		return 0, err
	}
	n.value = &v
	return c.Offset() - offset, nil
}

// I24Node is a signed 24-bit integer leaf, carried as a distinct type
// represented as an int32 whose value is guaranteed to fit 24 bits.
type I24Node struct {
	Meta
	Endian Endian
	value  *int32
}

func NewI24(e Endian) *I24Node { return &I24Node{Endian: e} }

// NewI24Value constructs an I24Node with v range-checked to fit 24 bits.
func NewI24Value(e Endian, v int32) (*I24Node, error) {
	if v < -0x00800000 || v > 0x007FFFFF {
		return nil, codec.NewInvalidTypeError("i24 value out of range")
	}
	return &I24Node{Endian: e, value: &v}, nil
}
func (n *I24Node) Set(v int32) error {
	if v < -0x00800000 || v > 0x007FFFFF {
		return codec.NewInvalidTypeError("i24 value out of range")
	}
	n.value = &v
	return nil
}
func (n *I24Node) Get() (int32, bool) { return deref(n.value) }
func (n *I24Node) Kind() Kind         { return KindI24 }
func (n *I24Node) Size() int          { return 3 }
func (n *I24Node) Serialize(c *Cursor) (int, error) {
	offset := c.Offset()
	if n.value == nil {
		return 0, codec.NewUninitializedTypeError(offset)
	}
	if err := c.WriteI24(*n.value, n.Endian); err != nil {
		return 0, err
	}
	return c.Offset() - offset, nil
}
func (n *I24Node) Parse(c *Cursor) (int, error) {
	offset := c.Offset()
	v, err := c.ReadI24(n.Endian)
	if err != nil {
		return 0, err
	}
	n.value = &v
	return c.Offset() - offset, nil
}

// U32Node is an unsigned 32-bit integer leaf with a byte order.
type U32Node struct {
	Meta
	Endian Endian
	value  *uint32
}

func NewU32(e Endian) *U32Node               { return &U32Node{Endian: e} }
func NewU32Value(e Endian, v uint32) *U32Node { return &U32Node{Endian: e, value: &v} }
func (n *U32Node) Set(v uint32)              { n.value = &v }
func (n *U32Node) Get() (uint32, bool)       { return deref(n.value) }
func (n *U32Node) Kind() Kind                { return KindU32 }
func (n *U32Node) Size() int                 { return 4 }
func (n *U32Node) Serialize(c *Cursor) (int, error) {
	offset := c.Offset()
	if n.value == nil {
		return 0, codec.NewUninitializedTypeError(offset)
	}
	if err := c.WriteU32(*n.value, n.Endian); err != nil {
		return 0, err
	}
	return c.Offset() - offset, nil
}
func (n *U32Node) Parse(c *Cursor) (int, error) {
	offset := c.Offset()
	v, err := c.ReadU32(n.Endian)
	if err != nil {
		return 0, err
	}
	n.value = &v
	return c.Offset() - offset, nil
}

// I32Node is a signed 32-bit integer leaf with a byte order.
type I32Node struct {
	Meta
	Endian Endian
	value  *int32
}

func NewI32(e Endian) *I32Node               { return &I32Node{Endian: e} }
func NewI32Value(e Endian, v int32) *I32Node { return &I32Node{Endian: e, value: &v} }
func (n *I32Node) Set(v int32)               { n.value = &v }
func (n *I32Node) Get() (int32, bool)        { return deref(n.value) }
func (n *I32Node) Kind() Kind                { return KindI32 }
func (n *I32Node) Size() int                 { return 4 }
func (n *I32Node) Serialize(c *Cursor) (int, error) {
	offset := c.Offset()
	if n.value == nil {
		return 0, codec.NewUninitializedTypeError(offset)
	}
	if err := c.WriteI32(*n.value, n.Endian); err != nil {
		return 0, err
	}
	return c.Offset() - offset, nil
}
func (n *I32Node) Parse(c *Cursor) (int, error) {
	offset := c.Offset()
	v, err := c.ReadI32(n.Endian)
	if err != nil {
		return 0, err
	}
	n.value = &v
	return c.Offset() - offset, nil
}

// U64Node is an unsigned 64-bit integer leaf with a byte order.
type U64Node struct {
	Meta
	Endian Endian
	value  *uint64
}

func NewU64(e Endian) *U64Node               { return &U64Node{Endian: e} }
func NewU64Value(e Endian, v uint64) *U64Node { return &U64Node{Endian: e, value: &v} }
func (n *U64Node) Set(v uint64)              { n.value = &v }
func (n *U64Node) Get() (uint64, bool)       { return deref(n.value) }
func (n *U64Node) Kind() Kind                { return KindU64 }
func (n *U64Node) Size() int                 { return 8 }
func (n *U64Node) Serialize(c *Cursor) (int, error) {
	offset := c.Offset()
	if n.value == nil {
		return 0, codec.NewUninitializedTypeError(offset)
	}
	if err := c.WriteU64(*n.value, n.Endian); err != nil {
		return 0, err
	}
	return c.Offset() - offset, nil
}
func (n *U64Node) Parse(c *Cursor) (int, error) {
	offset := c.Offset()
	v, err := c.ReadU64(n.Endian)
	if err != nil {
		return 0, err
	}
	n.value = &v
	return c.Offset() - offset, nil
}

// I64Node is a signed 64-bit integer leaf with a byte order.
type I64Node struct {
	Meta
	Endian Endian
	value  *int64
}

func NewI64(e Endian) *I64Node               { return &I64Node{Endian: e} }
func NewI64Value(e Endian, v int64) *I64Node { return &I64Node{Endian: e, value: &v} }
func (n *I64Node) Set(v int64)               { n.value = &v }
func (n *I64Node) Get() (int64, bool)        { return deref(n.value) }
func (n *I64Node) Kind() Kind                { return KindI64 }
func (n *I64Node) Size() int                 { return 8 }
func (n *I64Node) Serialize(c *Cursor) (int, error) {
	offset := c.Offset()
	if n.value == nil {
		return 0, codec.NewUninitializedTypeError(offset)
	}
	if err := c.WriteI64(*n.value, n.Endian); err != nil {
		return 0, err
	}
	return c.Offset() - offset, nil
}
func (n *I64Node) Parse(c *Cursor) (int, error) {
	offset := c.Offset()
	v, err := c.ReadI64(n.Endian)
	if err != nil {
		return 0, err
	}
	n.value = &v
	return c.Offset() - offset, nil
}

// F32Node is an IEEE-754 single-precision float leaf with a byte order.
type F32Node struct {
	Meta
	Endian Endian
	value  *float32
}

func NewF32(e Endian) *F32Node                { return &F32Node{Endian: e} }
func NewF32Value(e Endian, v float32) *F32Node { return &F32Node{Endian: e, value: &v} }
func (n *F32Node) Set(v float32)              { n.value = &v }
func (n *F32Node) Get() (float32, bool)       { return deref(n.value) }
func (n *F32Node) Kind() Kind                 { return KindF32 }
func (n *F32Node) Size() int                  { return 4 }
func (n *F32Node) Serialize(c *Cursor) (int, error) {
	offset := c.Offset()
	if n.value == nil {
		return 0, codec.NewUninitializedTypeError(offset)
	}
	if err := c.WriteF32(*n.value, n.Endian); err != nil {
		return 0, err
	}
	return c.Offset() - offset, nil
}
func (n *F32Node) Parse(c *Cursor) (int, error) {
	offset := c.Offset()
	v, err := c.ReadF32(n.Endian)
	if err != nil {
		return 0, err
	}
	n.value = &v
	return c.Offset() - offset, nil
}

// F64Node is an IEEE-754 double-precision float leaf with a byte order.
type F64Node struct {
	Meta
	Endian Endian
	value  *float64
}

func NewF64(e Endian) *F64Node                { return &F64Node{Endian: e} }
func NewF64Value(e Endian, v float64) *F64Node { return &F64Node{Endian: e, value: &v} }
func (n *F64Node) Set(v float64)              { n.value = &v }
func (n *F64Node) Get() (float64, bool)       { return deref(n.value) }
func (n *F64Node) Kind() Kind                 { return KindF64 }
func (n *F64Node) Size() int                  { return 8 }
func (n *F64Node) Serialize(c *Cursor) (int, error) {
	offset := c.Offset()
	if n.value == nil {
		return 0, codec.NewUninitializedTypeError(offset)
	}
	if err := c.WriteF64(*n.value, n.Endian); err != nil {
		return 0, err
	}
	return c.Offset() - offset, nil
}
func (n *F64Node) Parse(c *Cursor) (int, error) {
	offset := c.Offset()
	v, err := c.ReadF64(n.Endian)
	if err != nil {
		return 0, err
	}
	n.value = &v
	return c.Offset() - offset, nil
}

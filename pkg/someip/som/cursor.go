// Package som implements the SOME/IP binary payload codec: a schema-driven
// tree of typed nodes (primitives, arrays, structs, enums, strings, unions,
// optionals) that serialize to and parse from a byte buffer.
package som

import (
	"encoding/binary"
	"math"

	"github.com/marmos91/someip/pkg/someip/codec"
)

// Endian selects the byte order used to encode multi-byte integers and
// IEEE-754 floats. Unlike encoding/binary's ByteOrder interface, a value of
// this type is carried per-node so a single codec tree can mix byte orders
// across siblings (spec.md §4.2).
type Endian uint8

const (
	BigEndian Endian = iota
	LittleEndian
)

func (e Endian) order() binary.ByteOrder {
	if e == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// Cursor tracks a single forward-moving byte offset over a fixed-size
// buffer, for both reads and writes. It never retries or seeks on its own;
// callers snapshot Offset() before an operation to compute bytes consumed
// or written. The one exception is PatchLength, used by composite nodes to
// overwrite an already-written length-field placeholder (spec.md §9).
type Cursor struct {
	buf    []byte
	offset int
}

// NewCursor wraps buf for parsing (reads) or serializing (writes) starting
// at offset 0.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Offset returns the current byte offset.
func (c *Cursor) Offset() int { return c.offset }

// Len returns the total buffer length.
func (c *Cursor) Len() int { return len(c.buf) }

// Bytes returns the underlying buffer.
func (c *Cursor) Bytes() []byte { return c.buf }

func (c *Cursor) checkSize(size int) error {
	if len(c.buf) < c.offset+size {
		return codec.NewBufferExhaustedError(c.offset, size)
	}
	return nil
}

// WriteBool writes 0x00/0x01 for false/true.
func (c *Cursor) WriteBool(v bool) error {
	if err := c.checkSize(1); err != nil {
		return err
	}
	if v {
		c.buf[c.offset] = 1
	} else {
		c.buf[c.offset] = 0
	}
	c.offset++
	return nil
}

// ReadBool reads a byte and requires it to be exactly 0x00 or 0x01.
func (c *Cursor) ReadBool() (bool, error) {
	if err := c.checkSize(1); err != nil {
		return false, err
	}
	v := c.buf[c.offset]
	switch v {
	case 0:
		c.offset++
		return false, nil
	case 1:
		c.offset++
		return true, nil
	default:
		return false, codec.NewInvalidPayloadError(c.offset, "bool value must be 0x00 or 0x01")
	}
}

// WriteU8 writes a single byte.
func (c *Cursor) WriteU8(v uint8) error {
	if err := c.checkSize(1); err != nil {
		return err
	}
	c.buf[c.offset] = v
	c.offset++
	return nil
}

// ReadU8 reads a single byte.
func (c *Cursor) ReadU8() (uint8, error) {
	if err := c.checkSize(1); err != nil {
		return 0, err
	}
	v := c.buf[c.offset]
	c.offset++
	return v, nil
}

// WriteI8 writes a signed byte.
func (c *Cursor) WriteI8(v int8) error { return c.WriteU8(uint8(v)) }

// ReadI8 reads a signed byte.
func (c *Cursor) ReadI8() (int8, error) {
	v, err := c.ReadU8()
	return int8(v), err
}

// WriteU16 writes a 16-bit unsigned integer in the given byte order.
func (c *Cursor) WriteU16(v uint16, e Endian) error {
	if err := c.checkSize(2); err != nil {
		return err
	}
	e.order().PutUint16(c.buf[c.offset:], v)
	c.offset += 2
	return nil
}

// ReadU16 reads a 16-bit unsigned integer in the given byte order.
func (c *Cursor) ReadU16(e Endian) (uint16, error) {
	if err := c.checkSize(2); err != nil {
		return 0, err
	}
	v := e.order().Uint16(c.buf[c.offset:])
	c.offset += 2
	return v, nil
}

// WriteI16 writes a 16-bit signed integer in the given byte order.
func (c *Cursor) WriteI16(v int16, e Endian) error { return c.WriteU16(uint16(v), e) }

// ReadI16 reads a 16-bit signed integer in the given byte order.
func (c *Cursor) ReadI16(e Endian) (int16, error) {
	v, err := c.ReadU16(e)
	return int16(v), err
}

// WriteU24 writes the low 24 bits of v as 3 bytes in the given byte order.
func (c *Cursor) WriteU24(v uint32, e Endian) error {
	if err := c.checkSize(3); err != nil {
		return err
	}
	v &= 0x00FFFFFF
	if e == LittleEndian {
		c.buf[c.offset] = byte(v)
		c.buf[c.offset+1] = byte(v >> 8)
		c.buf[c.offset+2] = byte(v >> 16)
	} else {
		c.buf[c.offset] = byte(v >> 16)
		c.buf[c.offset+1] = byte(v >> 8)
		c.buf[c.offset+2] = byte(v)
	}
	c.offset += 3
	return nil
}

// ReadU24 reads 3 bytes in the given byte order, zero-extended to 32 bits.
func (c *Cursor) ReadU24(e Endian) (uint32, error) {
	if err := c.checkSize(3); err != nil {
		return 0, err
	}
	var v uint32
	if e == LittleEndian {
		v = uint32(c.buf[c.offset]) | uint32(c.buf[c.offset+1])<<8 | uint32(c.buf[c.offset+2])<<16
	} else {
		v = uint32(c.buf[c.offset])<<16 | uint32(c.buf[c.offset+1])<<8 | uint32(c.buf[c.offset+2])
	}
	c.offset += 3
	return v, nil
}

// WriteI24 writes the low 24 bits of v as 3 bytes in the given byte order.
func (c *Cursor) WriteI24(v int32, e Endian) error { return c.WriteU24(uint32(v), e) }

// ReadI24 reads 3 bytes in the given byte order, sign-extended to 32 bits.
func (c *Cursor) ReadI24(e Endian) (int32, error) {
	v, err := c.ReadU24(e)
	if err != nil {
		return 0, err
	}
	if v&0x00800000 != 0 {
		v |= 0xFF000000
	}
	return int32(v), nil
}

// WriteU32 writes a 32-bit unsigned integer in the given byte order.
func (c *Cursor) WriteU32(v uint32, e Endian) error {
	if err := c.checkSize(4); err != nil {
		return err
	}
	e.order().PutUint32(c.buf[c.offset:], v)
	c.offset += 4
	return nil
}

// ReadU32 reads a 32-bit unsigned integer in the given byte order.
func (c *Cursor) ReadU32(e Endian) (uint32, error) {
	if err := c.checkSize(4); err != nil {
		return 0, err
	}
	v := e.order().Uint32(c.buf[c.offset:])
	c.offset += 4
	return v, nil
}

// WriteI32 writes a 32-bit signed integer in the given byte order.
func (c *Cursor) WriteI32(v int32, e Endian) error { return c.WriteU32(uint32(v), e) }

// ReadI32 reads a 32-bit signed integer in the given byte order.
func (c *Cursor) ReadI32(e Endian) (int32, error) {
	v, err := c.ReadU32(e)
	return int32(v), err
}

// WriteU64 writes a 64-bit unsigned integer in the given byte order.
func (c *Cursor) WriteU64(v uint64, e Endian) error {
	if err := c.checkSize(8); err != nil {
		return err
	}
	e.order().PutUint64(c.buf[c.offset:], v)
	c.offset += 8
	return nil
}

// ReadU64 reads a 64-bit unsigned integer in the given byte order.
func (c *Cursor) ReadU64(e Endian) (uint64, error) {
	if err := c.checkSize(8); err != nil {
		return 0, err
	}
	v := e.order().Uint64(c.buf[c.offset:])
	c.offset += 8
	return v, nil
}

// WriteI64 writes a 64-bit signed integer in the given byte order.
func (c *Cursor) WriteI64(v int64, e Endian) error { return c.WriteU64(uint64(v), e) }

// ReadI64 reads a 64-bit signed integer in the given byte order.
func (c *Cursor) ReadI64(e Endian) (int64, error) {
	v, err := c.ReadU64(e)
	return int64(v), err
}

// WriteF32 writes an IEEE-754 single-precision float in the given byte order.
func (c *Cursor) WriteF32(v float32, e Endian) error {
	return c.WriteU32(math.Float32bits(v), e)
}

// ReadF32 reads an IEEE-754 single-precision float in the given byte order.
func (c *Cursor) ReadF32(e Endian) (float32, error) {
	v, err := c.ReadU32(e)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// WriteF64 writes an IEEE-754 double-precision float in the given byte order.
func (c *Cursor) WriteF64(v float64, e Endian) error {
	return c.WriteU64(math.Float64bits(v), e)
}

// ReadF64 reads an IEEE-754 double-precision float in the given byte order.
func (c *Cursor) ReadF64(e Endian) (float64, error) {
	v, err := c.ReadU64(e)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// WriteBytes copies raw bytes into the buffer.
func (c *Cursor) WriteBytes(b []byte) error {
	if err := c.checkSize(len(b)); err != nil {
		return err
	}
	copy(c.buf[c.offset:], b)
	c.offset += len(b)
	return nil
}

// ReadBytes reads n raw bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.checkSize(n); err != nil {
		return nil, err
	}
	b := c.buf[c.offset : c.offset+n]
	c.offset += n
	return b, nil
}

// Skip advances the cursor by n bytes without reading them, used by
// length-delimited decoders to detect region underflow.
func (c *Cursor) Skip(n int) error {
	if err := c.checkSize(n); err != nil {
		return err
	}
	c.offset += n
	return nil
}

// PatchLengthU8 overwrites a 1-byte length-field placeholder at offset
// with v. Used for length-field back-patching (spec.md §9): the caller
// writes a placeholder, records its offset, serializes the value region,
// then calls this with the measured length.
func (c *Cursor) PatchLengthU8(offset int, v uint8) {
	c.buf[offset] = v
}

// PatchLengthU16 overwrites a 2-byte big-endian length-field placeholder.
func (c *Cursor) PatchLengthU16(offset int, v uint16) {
	binary.BigEndian.PutUint16(c.buf[offset:], v)
}

// PatchLengthU32 overwrites a 4-byte big-endian length-field placeholder.
func (c *Cursor) PatchLengthU32(offset int, v uint32) {
	binary.BigEndian.PutUint32(c.buf[offset:], v)
}

package som

import (
	"testing"

	"github.com/marmos91/someip/pkg/someip/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Bool
// ============================================================================

func TestCursor_Bool_RoundTrip(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 2)
	c := NewCursor(buf)
	require.NoError(t, c.WriteBool(true))
	require.NoError(t, c.WriteBool(false))
	assert.Equal(t, []byte{1, 0}, buf)

	c = NewCursor(buf)
	v, err := c.ReadBool()
	require.NoError(t, err)
	assert.True(t, v)
	v, err = c.ReadBool()
	require.NoError(t, err)
	assert.False(t, v)
}

func TestCursor_Bool_InvalidValue(t *testing.T) {
	t.Parallel()

	c := NewCursor([]byte{2})
	_, err := c.ReadBool()
	require.Error(t, err)
	assert.True(t, codec.IsInvalidPayload(err))
}

// ============================================================================
// Fixed-width integers
// ============================================================================

func TestCursor_U8I8_RoundTrip(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 2)
	c := NewCursor(buf)
	require.NoError(t, c.WriteU8(0xAB))
	require.NoError(t, c.WriteI8(-1))

	c = NewCursor(buf)
	u, err := c.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), u)
	i, err := c.ReadI8()
	require.NoError(t, err)
	assert.Equal(t, int8(-1), i)
}

func TestCursor_U16_RoundTrip_BothEndians(t *testing.T) {
	t.Parallel()

	for _, e := range []Endian{BigEndian, LittleEndian} {
		buf := make([]byte, 2)
		c := NewCursor(buf)
		require.NoError(t, c.WriteU16(0x1234, e))

		c = NewCursor(buf)
		v, err := c.ReadU16(e)
		require.NoError(t, err)
		assert.Equal(t, uint16(0x1234), v)
	}

	buf := make([]byte, 2)
	c := NewCursor(buf)
	require.NoError(t, c.WriteU16(0x1234, BigEndian))
	assert.Equal(t, []byte{0x12, 0x34}, buf)

	c = NewCursor(buf)
	require.NoError(t, c.WriteU16(0x1234, LittleEndian))
	assert.Equal(t, []byte{0x34, 0x12}, buf)
}

func TestCursor_I16_RoundTrip(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 2)
	c := NewCursor(buf)
	require.NoError(t, c.WriteI16(-2, BigEndian))

	c = NewCursor(buf)
	v, err := c.ReadI16(BigEndian)
	require.NoError(t, err)
	assert.Equal(t, int16(-2), v)
}

func TestCursor_U32I32_RoundTrip(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 8)
	c := NewCursor(buf)
	require.NoError(t, c.WriteU32(0xDEADBEEF, BigEndian))
	require.NoError(t, c.WriteI32(-100, LittleEndian))

	c = NewCursor(buf)
	u, err := c.ReadU32(BigEndian)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u)
	i, err := c.ReadI32(LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, int32(-100), i)
}

func TestCursor_U64I64_RoundTrip(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 16)
	c := NewCursor(buf)
	require.NoError(t, c.WriteU64(0x0102030405060708, BigEndian))
	require.NoError(t, c.WriteI64(-1, LittleEndian))

	c = NewCursor(buf)
	u, err := c.ReadU64(BigEndian)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), u)
	i, err := c.ReadI64(LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), i)
}

func TestCursor_F32F64_RoundTrip(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 12)
	c := NewCursor(buf)
	require.NoError(t, c.WriteF32(3.5, BigEndian))
	require.NoError(t, c.WriteF64(-2.25, LittleEndian))

	c = NewCursor(buf)
	f32, err := c.ReadF32(BigEndian)
	require.NoError(t, err)
	assert.Equal(t, float32(3.5), f32)
	f64, err := c.ReadF64(LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, -2.25, f64)
}

// ============================================================================
// 24-bit integers
// ============================================================================

func TestCursor_U24_RoundTrip_BothEndians(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 3)
	c := NewCursor(buf)
	require.NoError(t, c.WriteU24(0x00ABCDEF&0x00FFFFFF, BigEndian))
	assert.Equal(t, []byte{0xAB, 0xCD, 0xEF}, buf)

	c = NewCursor(buf)
	v, err := c.ReadU24(BigEndian)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xABCDEF), v)

	buf2 := make([]byte, 3)
	c = NewCursor(buf2)
	require.NoError(t, c.WriteU24(0xABCDEF, LittleEndian))
	assert.Equal(t, []byte{0xEF, 0xCD, 0xAB}, buf2)

	c = NewCursor(buf2)
	v, err = c.ReadU24(LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xABCDEF), v)
}

func TestCursor_U24_TruncatesHighBits(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 3)
	c := NewCursor(buf)
	require.NoError(t, c.WriteU24(0xFFABCDEF, BigEndian))

	c = NewCursor(buf)
	v, err := c.ReadU24(BigEndian)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xABCDEF), v)
}

func TestCursor_I24_SignExtension(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 3)
	c := NewCursor(buf)
	require.NoError(t, c.WriteI24(-1, BigEndian))
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF}, buf)

	c = NewCursor(buf)
	v, err := c.ReadI24(BigEndian)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), v)

	buf2 := make([]byte, 3)
	c = NewCursor(buf2)
	require.NoError(t, c.WriteI24(-0x00800000, LittleEndian))
	c = NewCursor(buf2)
	v, err = c.ReadI24(LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, int32(-0x00800000), v)
}

func TestCursor_I24_PositiveDoesNotSignExtend(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 3)
	c := NewCursor(buf)
	require.NoError(t, c.WriteI24(0x007FFFFF, BigEndian))

	c = NewCursor(buf)
	v, err := c.ReadI24(BigEndian)
	require.NoError(t, err)
	assert.Equal(t, int32(0x007FFFFF), v)
}

// ============================================================================
// Bytes, Skip, buffer exhaustion
// ============================================================================

func TestCursor_Bytes_RoundTrip(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 4)
	c := NewCursor(buf)
	require.NoError(t, c.WriteBytes([]byte{1, 2, 3, 4}))

	c = NewCursor(buf)
	b, err := c.ReadBytes(4)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, b)
}

func TestCursor_Skip(t *testing.T) {
	t.Parallel()

	c := NewCursor(make([]byte, 4))
	require.NoError(t, c.Skip(3))
	assert.Equal(t, 3, c.Offset())
	require.Error(t, c.Skip(2))
}

func TestCursor_BufferExhausted(t *testing.T) {
	t.Parallel()

	c := NewCursor(make([]byte, 1))
	_, err := c.ReadU32(BigEndian)
	require.Error(t, err)
	assert.True(t, codec.IsBufferExhausted(err))

	c2 := NewCursor(make([]byte, 1))
	err = c2.WriteU16(1, BigEndian)
	require.Error(t, err)
	assert.True(t, codec.IsBufferExhausted(err))
}

// ============================================================================
// Length-field patching
// ============================================================================

func TestCursor_PatchLength(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 7)
	c := NewCursor(buf)
	c.PatchLengthU8(0, 0xFF)
	c.PatchLengthU16(1, 0x1234)
	c.PatchLengthU32(3, 0xAABBCCDD)

	assert.Equal(t, byte(0xFF), buf[0])
	assert.Equal(t, []byte{0x12, 0x34}, buf[1:3])
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD}, buf[3:7])
}

func TestCursor_Len_And_Bytes(t *testing.T) {
	t.Parallel()

	buf := []byte{1, 2, 3}
	c := NewCursor(buf)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, buf, c.Bytes())
}

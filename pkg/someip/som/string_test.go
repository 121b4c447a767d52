package som

import (
	"testing"

	"github.com/marmos91/someip/pkg/someip/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringNode_Dynamic_UTF8_Plain_RoundTrip(t *testing.T) {
	t.Parallel()

	n, err := NewDynamicString(UTF8, Plain, 1, 0, 255)
	require.NoError(t, err)
	n.Set("hello")

	buf := make([]byte, n.Size())
	_, err = n.Serialize(NewCursor(buf))
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 'h', 'e', 'l', 'l', 'o'}, buf)

	out, err := NewDynamicString(UTF8, Plain, 1, 0, 255)
	require.NoError(t, err)
	_, err = out.Parse(NewCursor(buf))
	require.NoError(t, err)
	v, ok := out.Get()
	require.True(t, ok)
	assert.Equal(t, "hello", v)
}

func TestStringNode_Dynamic_WithBOM(t *testing.T) {
	t.Parallel()

	n, err := NewDynamicString(UTF16BE, WithBOM, 2, 0, 255)
	require.NoError(t, err)
	n.Set("AB")

	buf := make([]byte, n.Size())
	_, err = n.Serialize(NewCursor(buf))
	require.NoError(t, err)
	// length field (2) + BOM (2) + 2 UTF-16BE code units (4)
	assert.Equal(t, []byte{0x00, 0x06, 0xFE, 0xFF, 0x00, 'A', 0x00, 'B'}, buf)

	out, err := NewDynamicString(UTF16BE, WithBOM, 2, 0, 255)
	require.NoError(t, err)
	_, err = out.Parse(NewCursor(buf))
	require.NoError(t, err)
	v, ok := out.Get()
	require.True(t, ok)
	assert.Equal(t, "AB", v)
}

func TestStringNode_Dynamic_WithBOM_Mismatch(t *testing.T) {
	t.Parallel()

	out, err := NewDynamicString(UTF16BE, WithBOM, 2, 0, 255)
	require.NoError(t, err)
	// Length field says 4 bytes, but the first 2 don't match the UTF-16BE BOM.
	buf := []byte{0x00, 0x04, 0x00, 0x00, 0x00, 'A'}
	_, err = out.Parse(NewCursor(buf))
	require.Error(t, err)
	assert.True(t, codec.IsInvalidPayload(err))
}

func TestStringNode_Fixed_PadsAndTruncatesOnDecode(t *testing.T) {
	t.Parallel()

	n, err := NewFixedString(UTF8, WithTermination, 8)
	require.NoError(t, err)
	n.Set("ab")

	buf := make([]byte, n.Size())
	_, err = n.Serialize(NewCursor(buf))
	require.NoError(t, err)
	assert.Equal(t, []byte{'a', 'b', 0, 0, 0, 0, 0, 0}, buf)

	out, err := NewFixedString(UTF8, WithTermination, 8)
	require.NoError(t, err)
	_, err = out.Parse(NewCursor(buf))
	require.NoError(t, err)
	v, ok := out.Get()
	require.True(t, ok)
	assert.Equal(t, "ab", v)
}

func TestStringNode_Fixed_BodyExceedsDeclaredSize(t *testing.T) {
	t.Parallel()

	n, err := NewFixedString(UTF8, Plain, 2)
	require.NoError(t, err)
	n.Set("abc")
	_, err = n.Serialize(NewCursor(make([]byte, 2)))
	require.Error(t, err)
	assert.True(t, codec.IsInvalidType(err))
}

func TestStringNode_Fixed_MissingTerminator(t *testing.T) {
	t.Parallel()

	out, err := NewFixedString(UTF8, WithTermination, 4)
	require.NoError(t, err)
	_, err = out.Parse(NewCursor([]byte{'a', 'b', 'c', 'd'}))
	require.Error(t, err)
	assert.True(t, codec.IsInvalidPayload(err))
}

func TestStringNode_Dynamic_OutOfBoundsOnSerialize(t *testing.T) {
	t.Parallel()

	n, err := NewDynamicString(UTF8, Plain, 1, 3, 5)
	require.NoError(t, err)
	n.Set("ab")
	_, err = n.Serialize(NewCursor(make([]byte, 3)))
	require.Error(t, err)
	assert.True(t, codec.IsInvalidType(err))
}

func TestStringNode_UTF16LE_RoundTrip(t *testing.T) {
	t.Parallel()

	n, err := NewDynamicString(UTF16LE, WithBOMAndTermination, 2, 0, 255)
	require.NoError(t, err)
	n.Set("x")

	buf := make([]byte, n.Size())
	_, err = n.Serialize(NewCursor(buf))
	require.NoError(t, err)

	out, err := NewDynamicString(UTF16LE, WithBOMAndTermination, 2, 0, 255)
	require.NoError(t, err)
	_, err = out.Parse(NewCursor(buf))
	require.NoError(t, err)
	v, ok := out.Get()
	require.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestNewString_RejectsUnsupportedEncoding(t *testing.T) {
	t.Parallel()

	_, err := NewFixedString(StringEncoding(99), Plain, 4)
	require.Error(t, err)
	assert.True(t, codec.IsInvalidType(err))

	_, err = NewDynamicString(StringEncoding(99), Plain, 1, 0, 4)
	require.Error(t, err)
	assert.True(t, codec.IsInvalidType(err))
}

func TestStringNode_UninitializedSerialize(t *testing.T) {
	t.Parallel()

	n, err := NewDynamicString(UTF8, Plain, 1, 0, 10)
	require.NoError(t, err)
	_, err = n.Serialize(NewCursor(make([]byte, 1)))
	require.Error(t, err)
	assert.True(t, codec.IsUninitializedType(err))
}

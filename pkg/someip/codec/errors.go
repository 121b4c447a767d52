// Package codec defines the error taxonomy shared by the SOME/IP payload
// codec (pkg/someip/som) and its FIBEX-driven builder (pkg/someip/fibex2som).
//
// Each kind is a distinct struct carrying the structured fields a caller
// needs to inspect with errors.As, grounded on the teacher's StoreError
// pattern (pkg/metadata/errors.go): one struct type per kind plus factory
// functions, rather than sentinel values compared directly.
package codec

import "fmt"

// BufferExhaustedError reports a cursor read or write that would run past
// the end of its buffer.
type BufferExhaustedError struct {
	AtOffset int
	Needed   int
}

func (e *BufferExhaustedError) Error() string {
	return fmt.Sprintf("buffer exhausted at offset %d, needed %d bytes", e.AtOffset, e.Needed)
}

// NewBufferExhaustedError builds a BufferExhaustedError.
func NewBufferExhaustedError(atOffset, needed int) *BufferExhaustedError {
	return &BufferExhaustedError{AtOffset: atOffset, Needed: needed}
}

// InvalidPayloadError reports that decoded bytes violate a wire contract:
// a bool outside {0,1}, an unknown enum value, an unknown union tag, a BOM
// that doesn't match the declared string encoding, a length-delimited
// region that underflows, or an array size outside [min,max].
type InvalidPayloadError struct {
	AtOffset int
	Reason   string
}

func (e *InvalidPayloadError) Error() string {
	return fmt.Sprintf("invalid payload at offset %d: %s", e.AtOffset, e.Reason)
}

// NewInvalidPayloadError builds an InvalidPayloadError.
func NewInvalidPayloadError(atOffset int, reason string) *InvalidPayloadError {
	return &InvalidPayloadError{AtOffset: atOffset, Reason: reason}
}

// InvalidTypeError reports that a caller-supplied codec tree is internally
// inconsistent: a fixed array serialized with the wrong element count, an
// over-long fixed string, an enum over an unsupported primitive, or a bad
// length-field width.
type InvalidTypeError struct {
	Reason string
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("invalid type: %s", e.Reason)
}

// NewInvalidTypeError builds an InvalidTypeError.
func NewInvalidTypeError(reason string) *InvalidTypeError {
	return &InvalidTypeError{Reason: reason}
}

// UninitializedTypeError reports that Serialize was called on a required
// leaf with no assigned value.
type UninitializedTypeError struct {
	AtOffset int
}

func (e *UninitializedTypeError) Error() string {
	return fmt.Sprintf("uninitialized type at offset %d", e.AtOffset)
}

// NewUninitializedTypeError builds an UninitializedTypeError.
func NewUninitializedTypeError(atOffset int) *UninitializedTypeError {
	return &UninitializedTypeError{AtOffset: atOffset}
}

// IsBufferExhausted reports whether err is a BufferExhaustedError.
func IsBufferExhausted(err error) bool {
	_, ok := err.(*BufferExhaustedError)
	return ok
}

// IsInvalidPayload reports whether err is an InvalidPayloadError.
func IsInvalidPayload(err error) bool {
	_, ok := err.(*InvalidPayloadError)
	return ok
}

// IsInvalidType reports whether err is an InvalidTypeError.
func IsInvalidType(err error) bool {
	_, ok := err.(*InvalidTypeError)
	return ok
}

// IsUninitializedType reports whether err is an UninitializedTypeError.
func IsUninitializedType(err error) bool {
	_, ok := err.(*UninitializedTypeError)
	return ok
}

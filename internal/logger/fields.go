package logger

import (
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements for log aggregation and querying.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// SOME/IP message identity
	// ========================================================================
	KeyServiceID     = "service_id"     // SOME/IP service identifier
	KeyMethodID      = "method_id"      // SOME/IP method identifier
	KeyClientID      = "client_id"      // SOME/IP request client id
	KeySessionID     = "session_id"     // SOME/IP request session id
	KeyMessageType   = "message_type"   // Request, Response, Notification, ...
	KeyReturnCode    = "return_code"    // SOME/IP return code
	KeyDirection     = "direction"      // "request" or "response"
	KeyMajorVersion  = "major_version"  // Service major version
	KeyMinorVersion  = "minor_version"  // Service minor version

	// ========================================================================
	// Codec / schema
	// ========================================================================
	KeyOffset       = "offset"        // Cursor offset into a buffer
	KeyNeeded       = "needed"        // Bytes needed but unavailable
	KeyNodeKind     = "node_kind"     // Codec node kind (struct, array, enum, ...)
	KeyWireKey      = "wire_key"      // TLV optional wire key
	KeyWireType     = "wire_type"     // TLV optional wire-type code
	KeyEncodedSize  = "encoded_size"  // Bytes written/consumed by a node
	KeyTag          = "tag"           // Union/enum discriminant value

	// ========================================================================
	// FIBEX model loading
	// ========================================================================
	KeyModelFile  = "model_file"  // Path or name of the FIBEX document being loaded
	KeyElement    = "element"     // XML local element name
	KeyTypeID     = "type_id"     // FIBEX type declaration/instance id
	KeyIDRef      = "id_ref"      // Unresolved or resolved FIBEX ID-REF
	KeyStrict     = "strict"      // Whether strict model loading is enabled
	KeyLocation   = "location"    // Byte offset or line in the XML stream

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyErrorCode  = "error_code"  // Numeric error code
	KeyOperation  = "operation"   // Sub-operation type for complex operations
	KeyAttempt    = "attempt"     // Retry attempt number
)

// ============================================================================
// Field constructors for type safety
// ============================================================================

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// ServiceID returns a slog.Attr for a SOME/IP service id
func ServiceID(id uint16) slog.Attr {
	return slog.Any(KeyServiceID, id)
}

// MethodID returns a slog.Attr for a SOME/IP method id
func MethodID(id uint16) slog.Attr {
	return slog.Any(KeyMethodID, id)
}

// ClientID returns a slog.Attr for a SOME/IP request client id
func ClientID(id uint16) slog.Attr {
	return slog.Any(KeyClientID, id)
}

// SessionID returns a slog.Attr for a SOME/IP request session id
func SessionID(id uint16) slog.Attr {
	return slog.Any(KeySessionID, id)
}

// MessageType returns a slog.Attr for a SOME/IP message type
func MessageType(t string) slog.Attr {
	return slog.String(KeyMessageType, t)
}

// ReturnCode returns a slog.Attr for a SOME/IP return code
func ReturnCode(rc string) slog.Attr {
	return slog.String(KeyReturnCode, rc)
}

// Direction returns a slog.Attr for request/response direction
func Direction(d string) slog.Attr {
	return slog.String(KeyDirection, d)
}

// Offset returns a slog.Attr for a cursor offset
func Offset(off int) slog.Attr {
	return slog.Int(KeyOffset, off)
}

// Needed returns a slog.Attr for bytes needed but unavailable
func Needed(n int) slog.Attr {
	return slog.Int(KeyNeeded, n)
}

// NodeKind returns a slog.Attr for a codec node kind
func NodeKind(kind string) slog.Attr {
	return slog.String(KeyNodeKind, kind)
}

// WireKey returns a slog.Attr for a TLV optional wire key
func WireKey(key uint16) slog.Attr {
	return slog.Any(KeyWireKey, key)
}

// WireType returns a slog.Attr for a TLV optional wire-type code
func WireType(wt uint8) slog.Attr {
	return slog.Any(KeyWireType, wt)
}

// EncodedSize returns a slog.Attr for the encoded size of a node
func EncodedSize(n int) slog.Attr {
	return slog.Int(KeyEncodedSize, n)
}

// Tag returns a slog.Attr for a union/enum discriminant
func Tag(tag uint64) slog.Attr {
	return slog.Any(KeyTag, tag)
}

// ModelFile returns a slog.Attr for the FIBEX document being loaded
func ModelFile(path string) slog.Attr {
	return slog.String(KeyModelFile, path)
}

// Element returns a slog.Attr for an XML local element name
func Element(name string) slog.Attr {
	return slog.String(KeyElement, name)
}

// TypeID returns a slog.Attr for a FIBEX type id
func TypeID(id string) slog.Attr {
	return slog.String(KeyTypeID, id)
}

// IDRef returns a slog.Attr for a FIBEX ID-REF
func IDRef(ref string) slog.Attr {
	return slog.String(KeyIDRef, ref)
}

// Strict returns a slog.Attr for strict model loading
func Strict(strict bool) slog.Attr {
	return slog.Bool(KeyStrict, strict)
}

// Location returns a slog.Attr for a location within an XML stream
func Location(loc string) slog.Attr {
	return slog.String(KeyLocation, loc)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorCode returns a slog.Attr for a numeric error code
func ErrorCode(code int) slog.Attr {
	return slog.Int(KeyErrorCode, code)
}

// Operation returns a slog.Attr for a sub-operation type
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Attempt returns a slog.Attr for a retry attempt number
func Attempt(n int) slog.Attr {
	return slog.Int(KeyAttempt, n)
}

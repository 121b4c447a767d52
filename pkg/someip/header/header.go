package header

import (
	"encoding/binary"
	"io"
)

// Length is the fixed wire size of a SOME/IP header in bytes.
const Length = 16

// Header is the fixed 16-byte SOME/IP message header, encoded big-endian
// throughout (spec.md §4.11).
type Header struct {
	MessageID         MessageID
	Length            uint32 // bytes following the length field itself
	RequestID         RequestID
	ProtocolVersion   ProtocolVersion
	InterfaceVersion  InterfaceVersion
	MessageType       MessageType
	ReturnCode        ReturnCode
}

// MessageLen returns the total message length, header included.
func (h Header) MessageLen() uint32 { return h.Length + 8 }

// PayloadLen returns the length of the payload following the header.
func (h Header) PayloadLen() uint32 { return h.Length - 8 }

// IsSD reports whether h is the fixed header SOME/IP Service Discovery
// notifications always use: service 0xFFFF, method 0x8100, protocol
// version 1, interface version 1, a Notification, and Ok.
func (h Header) IsSD() bool {
	return h.MessageID.ServiceID == 0xFFFF &&
		h.MessageID.MethodID == 0x8100 &&
		h.ProtocolVersion == 1 &&
		h.InterfaceVersion == 1 &&
		h.MessageType == Notification &&
		h.ReturnCode == Ok
}

// Encode writes h's 16-byte wire representation to buf, which must be at
// least Length bytes.
func (h Header) Encode(buf []byte) {
	binary.BigEndian.PutUint32(buf[0:4], h.MessageID.Uint32())
	binary.BigEndian.PutUint32(buf[4:8], h.Length)
	binary.BigEndian.PutUint32(buf[8:12], h.RequestID.Uint32())
	buf[12] = h.ProtocolVersion
	buf[13] = h.InterfaceVersion
	buf[14] = uint8(h.MessageType)
	buf[15] = h.ReturnCode.Byte()
}

// Decode parses a 16-byte header from buf, which must be at least Length
// bytes.
func Decode(buf []byte) (Header, error) {
	if len(buf) < Length {
		return Header{}, NewMalformedError("header", "fewer than 16 bytes available")
	}
	mt, err := ParseMessageType(buf[14])
	if err != nil {
		return Header{}, err
	}
	rc, err := ParseReturnCode(buf[15])
	if err != nil {
		return Header{}, err
	}
	return Header{
		MessageID:        MessageIDFromUint32(binary.BigEndian.Uint32(buf[0:4])),
		Length:           binary.BigEndian.Uint32(buf[4:8]),
		RequestID:        RequestIDFromUint32(binary.BigEndian.Uint32(buf[8:12])),
		ProtocolVersion:  buf[12],
		InterfaceVersion: buf[13],
		MessageType:      mt,
		ReturnCode:       rc,
	}, nil
}

// ClientMagicCookie and ServerMagicCookie are the two fixed headers used
// as transport keep-alives; neither carries a payload.
var (
	ClientMagicCookie = Header{
		MessageID:        MessageID{ServiceID: 0xFFFF, MethodID: 0x0000},
		Length:           8,
		RequestID:        RequestID{ClientID: 0xDEAD, SessionID: 0xBEEF},
		ProtocolVersion:  1,
		InterfaceVersion: 1,
		MessageType:      RequestNoReturn,
		ReturnCode:       Ok,
	}
	ServerMagicCookie = Header{
		MessageID:        MessageID{ServiceID: 0xFFFF, MethodID: 0x8000},
		Length:           8,
		RequestID:        RequestID{ClientID: 0xDEAD, SessionID: 0xBEEF},
		ProtocolVersion:  1,
		InterfaceVersion: 1,
		MessageType:      Notification,
		ReturnCode:       Ok,
	}
)

// IsClientMagicCookie reports whether h matches the client keep-alive
// header exactly.
func (h Header) IsClientMagicCookie() bool { return h == ClientMagicCookie }

// IsServerMagicCookie reports whether h matches the server keep-alive
// header exactly.
func (h Header) IsServerMagicCookie() bool { return h == ServerMagicCookie }

// MessageKind tags the three shapes a decoded message can take over the
// same 16-byte header (spec.md's SUPPLEMENTED FEATURES message envelope).
type MessageKind uint8

const (
	// KindRPC is an ordinary request/response/notification carrying an
	// opaque payload, decoded separately by a fibex2som codec tree.
	KindRPC MessageKind = iota
	// KindSD is a Service Discovery notification carrying an SdPayload.
	KindSD
	// KindClientCookie and KindServerCookie are the two magic-cookie
	// keep-alives, carrying no payload.
	KindClientCookie
	KindServerCookie
)

// Message is a decoded header together with its typed payload. Exactly
// one of Payload/SD is populated, determined by Kind.
type Message struct {
	Header  Header
	Kind    MessageKind
	Payload []byte
	SD      SdPayload
}

// ReadMessage reads one header-plus-payload message from r as raw bytes,
// without classifying it. The header's Length field determines how many
// payload bytes follow.
func ReadMessage(r io.Reader) (Header, []byte, error) {
	buf := make([]byte, Length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Header{}, nil, err
	}
	h, err := Decode(buf)
	if err != nil {
		return Header{}, nil, err
	}
	payload := make([]byte, h.PayloadLen())
	if len(payload) > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Header{}, nil, err
		}
	}
	return h, payload, nil
}

// DecodeMessage reads one message from r and classifies it: a magic
// cookie if the header matches exactly, a Service Discovery notification
// if Header.IsSD(), else a raw RPC payload.
func DecodeMessage(r io.Reader) (Message, error) {
	h, payload, err := ReadMessage(r)
	if err != nil {
		return Message{}, err
	}

	switch {
	case h.IsClientMagicCookie():
		return Message{Header: h, Kind: KindClientCookie}, nil
	case h.IsServerMagicCookie():
		return Message{Header: h, Kind: KindServerCookie}, nil
	case h.IsSD():
		sd, err := DecodeSdPayload(payload)
		if err != nil {
			return Message{}, err
		}
		return Message{Header: h, Kind: KindSD, SD: sd}, nil
	default:
		return Message{Header: h, Kind: KindRPC, Payload: payload}, nil
	}
}

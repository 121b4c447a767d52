package header

import (
	"encoding/binary"
	"net"
)

// InstanceID, EventgroupID, MajorVersion, MinorVersion and TTL are the
// scalar fields carried by SD entries.
type InstanceID = uint16
type EventgroupID = uint16
type MajorVersion = uint8
type MinorVersion = uint32
type TTL = uint32

// SdEntryType is the wire byte identifying an SdEntry's concrete shape.
type SdEntryType uint8

const (
	FindServiceEntry            SdEntryType = 0x00
	OfferServiceEntry           SdEntryType = 0x01
	SubscribeEventgroupEntry    SdEntryType = 0x06
	SubscribeEventgroupAckEntry SdEntryType = 0x07
)

// IsServiceEntry reports whether t is a service-kind entry (Find/Offer) as
// opposed to an eventgroup-kind entry (Subscribe/SubscribeAck).
func (t SdEntryType) IsServiceEntry() bool { return t < 0x04 }

// SdEntryLength is the fixed wire size of one SD entry.
const SdEntryLength = 16

// SdOptionRef names two (index, count) ranges into the payload's shared
// options list — the first and second options lists an entry references.
type SdOptionRef struct {
	Index1, Index2 uint8
	Num1, Num2     uint8
}

// SdServiceEntry is the body of a FindService or OfferService entry.
type SdServiceEntry struct {
	ServiceID    ServiceID
	InstanceID   InstanceID
	MajorVersion MajorVersion
	MinorVersion MinorVersion
	TTL          TTL
	Options      SdOptionRef
}

// HasTTL reports whether e announces a non-zero time-to-live.
func (e SdServiceEntry) HasTTL() bool { return e.TTL != 0 }

// SdEventgroupEntry is the body of a SubscribeEventgroup or
// SubscribeEventgroupAck entry. Unlike SdServiceEntry it carries no
// minor version.
type SdEventgroupEntry struct {
	ServiceID    ServiceID
	InstanceID   InstanceID
	EventgroupID EventgroupID
	MajorVersion MajorVersion
	TTL          TTL
	Options      SdOptionRef
}

// HasTTL reports whether e announces a non-zero time-to-live.
func (e SdEventgroupEntry) HasTTL() bool { return e.TTL != 0 }

// SdEntry is the tagged variant of the four entry kinds a Service
// Discovery payload carries.
type SdEntry struct {
	Type       SdEntryType
	Service    SdServiceEntry    // valid when Type is Find/OfferService
	Eventgroup SdEventgroupEntry // valid when Type is Subscribe(Ack)
}

// IpProto identifies the transport protocol of an SdEndpointOption.
type IpProto uint8

const (
	ProtoUDP IpProto = 0x11
	ProtoTCP IpProto = 0x06
)

func (p IpProto) String() string {
	switch p {
	case ProtoUDP:
		return "UDP"
	case ProtoTCP:
		return "TCP"
	default:
		return "Unknown"
	}
}

// ParseIpProto maps a wire byte to an IpProto.
func ParseIpProto(b uint8) (IpProto, error) {
	switch IpProto(b) {
	case ProtoUDP, ProtoTCP:
		return IpProto(b), nil
	default:
		return 0, NewMalformedError("ip_proto", "unrecognized transport protocol byte")
	}
}

// SdOptionType is the wire byte identifying an SdOption's concrete shape.
type SdOptionType uint8

const (
	Ip4UnicastOption   SdOptionType = 0x04
	Ip6UnicastOption   SdOptionType = 0x06
	Ip4MulticastOption SdOptionType = 0x14
	Ip6MulticastOption SdOptionType = 0x16
)

func (t SdOptionType) isIP4() bool       { return t == Ip4UnicastOption || t == Ip4MulticastOption }
func (t SdOptionType) isIP6() bool       { return t == Ip6UnicastOption || t == Ip6MulticastOption }
func (t SdOptionType) isMulticast() bool { return t == Ip4MulticastOption || t == Ip6MulticastOption }

// Len returns the option's total wire length, header included: 12 bytes
// for IPv4 endpoint options, 24 for IPv6.
func (t SdOptionType) Len() int {
	if t.isIP6() {
		return 24
	}
	return 12
}

// SdEndpointOption is the common shape of all four SD option kinds: an IP
// endpoint and a transport protocol.
type SdEndpointOption struct {
	IP    net.IP
	Port  uint16
	Proto IpProto
}

// SdOption is the tagged variant of the four option kinds a Service
// Discovery payload's options list carries.
type SdOption struct {
	Type     SdOptionType
	Endpoint SdEndpointOption
}

// SdPayload is the body of a Service Discovery notification: a reboot and
// unicast flag, an entries list, and a shared options list entries
// reference by index range (spec.md §4.11, original_source/src/types.rs).
type SdPayload struct {
	RebootFlag  bool
	UnicastFlag bool
	Entries     []SdEntry
	Options     []SdOption
}

// Len returns the SD payload's total wire length: 4 bytes of flags and
// reserved bits, 4 bytes of entries-array length, the entries themselves,
// 4 bytes of options-array length, and the options themselves.
func (p SdPayload) Len() int {
	total := 12
	total += len(p.Entries) * SdEntryLength
	for _, o := range p.Options {
		total += o.Type.Len()
	}
	return total
}

// OptionsFor resolves entry's two (index, count) ranges into slices of p's
// shared options list.
func (p SdPayload) OptionsFor(entry SdEntry) (first, second []SdOption) {
	var ref SdOptionRef
	if entry.Type.IsServiceEntry() {
		ref = entry.Service.Options
	} else {
		ref = entry.Eventgroup.Options
	}
	first = sliceOptions(p.Options, ref.Index1, ref.Num1)
	second = sliceOptions(p.Options, ref.Index2, ref.Num2)
	return first, second
}

func sliceOptions(options []SdOption, index, num uint8) []SdOption {
	start := int(index)
	end := start + int(num)
	if start >= len(options) || end > len(options) || start > end {
		return nil
	}
	return options[start:end]
}

// EncodeFlags packs RebootFlag into bit 7 and UnicastFlag into bit 6 of
// the SD payload's flags byte.
func (p SdPayload) EncodeFlags() uint8 {
	var f uint8
	if p.RebootFlag {
		f |= 0x80
	}
	if p.UnicastFlag {
		f |= 0x40
	}
	return f
}

// DecodeFlags unpacks a flags byte into RebootFlag and UnicastFlag.
func DecodeFlags(b uint8) (reboot, unicast bool) {
	return b&0x80 != 0, b&0x40 != 0
}

// Encode writes p's wire representation: flags + 3 reserved bytes, a
// 32-bit entries-array byte length, the entries, a 32-bit options-array
// byte length, and the options.
func (p SdPayload) Encode(buf []byte) error {
	if len(buf) < p.Len() {
		return NewMalformedError("sd_payload", "buffer too small")
	}
	buf[0] = p.EncodeFlags()
	buf[1], buf[2], buf[3] = 0, 0, 0
	binary.BigEndian.PutUint32(buf[4:8], uint32(len(p.Entries)*SdEntryLength))

	off := 8
	for _, e := range p.Entries {
		encodeSdEntry(buf[off:off+SdEntryLength], e)
		off += SdEntryLength
	}

	optionsLenOffset := off
	off += 4
	optionsStart := off
	for _, o := range p.Options {
		n := o.Type.Len()
		if err := encodeSdOption(buf[off:off+n], o); err != nil {
			return err
		}
		off += n
	}
	binary.BigEndian.PutUint32(buf[optionsLenOffset:optionsLenOffset+4], uint32(off-optionsStart))
	return nil
}

// DecodeSdPayload parses an SdPayload from buf.
func DecodeSdPayload(buf []byte) (SdPayload, error) {
	if len(buf) < 12 {
		return SdPayload{}, NewMalformedError("sd_payload", "fewer than 12 bytes available")
	}
	reboot, unicast := DecodeFlags(buf[0])
	entriesLen := binary.BigEndian.Uint32(buf[4:8])
	if int(entriesLen)%SdEntryLength != 0 {
		return SdPayload{}, NewMalformedError("sd_payload", "entries length is not a multiple of the entry size")
	}
	off := 8
	entryCount := int(entriesLen) / SdEntryLength
	entries := make([]SdEntry, entryCount)
	for i := 0; i < entryCount; i++ {
		if off+SdEntryLength > len(buf) {
			return SdPayload{}, NewMalformedError("sd_payload", "entries array runs past the buffer")
		}
		e, err := decodeSdEntry(buf[off : off+SdEntryLength])
		if err != nil {
			return SdPayload{}, err
		}
		entries[i] = e
		off += SdEntryLength
	}

	if off+4 > len(buf) {
		return SdPayload{}, NewMalformedError("sd_payload", "missing options-array length")
	}
	optionsLen := binary.BigEndian.Uint32(buf[off : off+4])
	off += 4
	end := off + int(optionsLen)
	if end > len(buf) {
		return SdPayload{}, NewMalformedError("sd_payload", "options array runs past the buffer")
	}

	var options []SdOption
	for off < end {
		if off+3 > end {
			return SdPayload{}, NewMalformedError("sd_payload", "truncated option header")
		}
		optType := SdOptionType(buf[off+2])
		n := optType.Len()
		if off+n > end {
			return SdPayload{}, NewMalformedError("sd_payload", "option runs past the options array")
		}
		o, err := decodeSdOption(buf[off : off+n])
		if err != nil {
			return SdPayload{}, err
		}
		options = append(options, o)
		off += n
	}

	return SdPayload{RebootFlag: reboot, UnicastFlag: unicast, Entries: entries, Options: options}, nil
}

func encodeSdEntry(buf []byte, e SdEntry) {
	buf[0] = uint8(e.Type)
	if e.Type.IsServiceEntry() {
		s := e.Service
		buf[1] = s.Options.Index1
		buf[2] = s.Options.Index2
		buf[3] = s.Options.Num1<<4 | s.Options.Num2&0x0F
		binary.BigEndian.PutUint16(buf[4:6], s.ServiceID)
		binary.BigEndian.PutUint16(buf[6:8], s.InstanceID)
		buf[8] = s.MajorVersion
		putU24(buf[9:12], s.TTL)
		binary.BigEndian.PutUint32(buf[12:16], s.MinorVersion)
	} else {
		g := e.Eventgroup
		buf[1] = g.Options.Index1
		buf[2] = g.Options.Index2
		buf[3] = g.Options.Num1<<4 | g.Options.Num2&0x0F
		binary.BigEndian.PutUint16(buf[4:6], g.ServiceID)
		binary.BigEndian.PutUint16(buf[6:8], g.InstanceID)
		buf[8] = g.MajorVersion
		putU24(buf[9:12], g.TTL)
		buf[12], buf[13] = 0, 0
		binary.BigEndian.PutUint16(buf[14:16], g.EventgroupID)
	}
}

func decodeSdEntry(buf []byte) (SdEntry, error) {
	t := SdEntryType(buf[0])
	ref := SdOptionRef{
		Index1: buf[1],
		Index2: buf[2],
		Num1:   buf[3] >> 4,
		Num2:   buf[3] & 0x0F,
	}
	serviceID := binary.BigEndian.Uint16(buf[4:6])
	instanceID := binary.BigEndian.Uint16(buf[6:8])
	majorVersion := buf[8]

	switch t {
	case FindServiceEntry, OfferServiceEntry:
		return SdEntry{Type: t, Service: SdServiceEntry{
			ServiceID:    serviceID,
			InstanceID:   instanceID,
			MajorVersion: majorVersion,
			TTL:          getU24(buf[9:12]),
			MinorVersion: binary.BigEndian.Uint32(buf[12:16]),
			Options:      ref,
		}}, nil
	case SubscribeEventgroupEntry, SubscribeEventgroupAckEntry:
		return SdEntry{Type: t, Eventgroup: SdEventgroupEntry{
			ServiceID:    serviceID,
			InstanceID:   instanceID,
			MajorVersion: majorVersion,
			TTL:          getU24(buf[9:12]),
			EventgroupID: binary.BigEndian.Uint16(buf[14:16]),
			Options:      ref,
		}}, nil
	default:
		return SdEntry{}, NewMalformedError("sd_entry", "unrecognized entry type byte")
	}
}

func encodeSdOption(buf []byte, o SdOption) error {
	binary.BigEndian.PutUint16(buf[0:2], uint16(len(buf)-3))
	buf[2] = uint8(o.Type)
	buf[3] = 0 // reserved

	ip := o.Endpoint.IP
	if o.Type.isIP4() {
		v4 := ip.To4()
		if v4 == nil {
			return NewMalformedError("sd_option", "IPv4 option endpoint has no IPv4 address")
		}
		copy(buf[4:8], v4)
		buf[8] = 0 // reserved
		buf[9] = uint8(o.Endpoint.Proto)
		binary.BigEndian.PutUint16(buf[10:12], o.Endpoint.Port)
		return nil
	}

	v6 := ip.To16()
	if v6 == nil {
		return NewMalformedError("sd_option", "IPv6 option endpoint has no IPv6 address")
	}
	copy(buf[4:20], v6)
	buf[20] = 0 // reserved
	buf[21] = uint8(o.Endpoint.Proto)
	binary.BigEndian.PutUint16(buf[22:24], o.Endpoint.Port)
	return nil
}

func decodeSdOption(buf []byte) (SdOption, error) {
	optType := SdOptionType(buf[2])
	if optType.isIP4() {
		proto, err := ParseIpProto(buf[9])
		if err != nil {
			return SdOption{}, err
		}
		return SdOption{Type: optType, Endpoint: SdEndpointOption{
			IP:    net.IP(append([]byte(nil), buf[4:8]...)),
			Proto: proto,
			Port:  binary.BigEndian.Uint16(buf[10:12]),
		}}, nil
	}
	if optType.isIP6() {
		proto, err := ParseIpProto(buf[21])
		if err != nil {
			return SdOption{}, err
		}
		return SdOption{Type: optType, Endpoint: SdEndpointOption{
			IP:    net.IP(append([]byte(nil), buf[4:20]...)),
			Proto: proto,
			Port:  binary.BigEndian.Uint16(buf[22:24]),
		}}, nil
	}
	return SdOption{}, NewMalformedError("sd_option", "unrecognized option type byte")
}

func putU24(buf []byte, v uint32) {
	buf[0] = byte(v >> 16)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v)
}

func getU24(buf []byte) uint32 {
	return uint32(buf[0])<<16 | uint32(buf[1])<<8 | uint32(buf[2])
}

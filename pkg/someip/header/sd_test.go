package header

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSdPayload_EncodeDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	payload := SdPayload{
		RebootFlag:  true,
		UnicastFlag: false,
		Entries: []SdEntry{
			{
				Type: OfferServiceEntry,
				Service: SdServiceEntry{
					ServiceID:    0x1234,
					InstanceID:   0x0001,
					MajorVersion: 1,
					MinorVersion: 0,
					TTL:          3,
					Options:      SdOptionRef{Index1: 0, Num1: 1},
				},
			},
			{
				Type: SubscribeEventgroupEntry,
				Eventgroup: SdEventgroupEntry{
					ServiceID:    0x1234,
					InstanceID:   0x0001,
					EventgroupID: 0x0005,
					MajorVersion: 1,
					TTL:          3,
				},
			},
		},
		Options: []SdOption{
			{
				Type: Ip4UnicastOption,
				Endpoint: SdEndpointOption{
					IP:    net.IPv4(192, 168, 0, 1),
					Port:  30509,
					Proto: ProtoUDP,
				},
			},
		},
	}

	buf := make([]byte, payload.Len())
	require.NoError(t, payload.Encode(buf))

	decoded, err := DecodeSdPayload(buf)
	require.NoError(t, err)

	assert.True(t, decoded.RebootFlag)
	assert.False(t, decoded.UnicastFlag)
	require.Len(t, decoded.Entries, 2)
	assert.Equal(t, OfferServiceEntry, decoded.Entries[0].Type)
	assert.Equal(t, ServiceID(0x1234), decoded.Entries[0].Service.ServiceID)
	assert.True(t, decoded.Entries[0].Service.HasTTL())
	assert.Equal(t, SubscribeEventgroupEntry, decoded.Entries[1].Type)
	assert.Equal(t, EventgroupID(0x0005), decoded.Entries[1].Eventgroup.EventgroupID)

	require.Len(t, decoded.Options, 1)
	assert.Equal(t, ProtoUDP, decoded.Options[0].Endpoint.Proto)
	assert.Equal(t, uint16(30509), decoded.Options[0].Endpoint.Port)
	assert.True(t, decoded.Options[0].Endpoint.IP.Equal(net.IPv4(192, 168, 0, 1)))
}

func TestSdPayload_OptionsFor(t *testing.T) {
	t.Parallel()

	opts := []SdOption{
		{Type: Ip4UnicastOption, Endpoint: SdEndpointOption{IP: net.IPv4(1, 1, 1, 1), Proto: ProtoUDP}},
		{Type: Ip4UnicastOption, Endpoint: SdEndpointOption{IP: net.IPv4(2, 2, 2, 2), Proto: ProtoTCP}},
	}
	payload := SdPayload{Options: opts}
	entry := SdEntry{
		Type: OfferServiceEntry,
		Service: SdServiceEntry{
			Options: SdOptionRef{Index1: 0, Num1: 1, Index2: 1, Num2: 1},
		},
	}

	first, second := payload.OptionsFor(entry)
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.True(t, first[0].Endpoint.IP.Equal(net.IPv4(1, 1, 1, 1)))
	assert.True(t, second[0].Endpoint.IP.Equal(net.IPv4(2, 2, 2, 2)))
}

func TestSdPayload_OptionsFor_OutOfRange(t *testing.T) {
	t.Parallel()

	payload := SdPayload{Options: []SdOption{{}}}
	entry := SdEntry{
		Type: OfferServiceEntry,
		Service: SdServiceEntry{
			Options: SdOptionRef{Index1: 5, Num1: 1},
		},
	}
	first, second := payload.OptionsFor(entry)
	assert.Nil(t, first)
	assert.Nil(t, second)
}

func TestDecodeSdPayload_TooShort(t *testing.T) {
	t.Parallel()

	_, err := DecodeSdPayload(make([]byte, 4))
	require.Error(t, err)
	assert.True(t, IsMalformedError(err))
}

func TestDecodeSdPayload_EntriesLengthNotMultiple(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 12)
	buf[4], buf[5], buf[6], buf[7] = 0, 0, 0, 5 // 5 is not a multiple of SdEntryLength
	_, err := DecodeSdPayload(buf)
	require.Error(t, err)
	assert.True(t, IsMalformedError(err))
}

func TestSdEntryType_IsServiceEntry(t *testing.T) {
	t.Parallel()

	assert.True(t, FindServiceEntry.IsServiceEntry())
	assert.True(t, OfferServiceEntry.IsServiceEntry())
	assert.False(t, SubscribeEventgroupEntry.IsServiceEntry())
	assert.False(t, SubscribeEventgroupAckEntry.IsServiceEntry())
}

func TestSdOptionType_Len(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 12, Ip4UnicastOption.Len())
	assert.Equal(t, 12, Ip4MulticastOption.Len())
	assert.Equal(t, 24, Ip6UnicastOption.Len())
	assert.Equal(t, 24, Ip6MulticastOption.Len())
}

func TestSdPayload_IPv6Option_RoundTrip(t *testing.T) {
	t.Parallel()

	payload := SdPayload{
		Options: []SdOption{
			{
				Type: Ip6UnicastOption,
				Endpoint: SdEndpointOption{
					IP:    net.ParseIP("2001:db8::1"),
					Port:  1234,
					Proto: ProtoTCP,
				},
			},
		},
	}
	buf := make([]byte, payload.Len())
	require.NoError(t, payload.Encode(buf))

	decoded, err := DecodeSdPayload(buf)
	require.NoError(t, err)
	require.Len(t, decoded.Options, 1)
	assert.True(t, decoded.Options[0].Endpoint.IP.Equal(net.ParseIP("2001:db8::1")))
	assert.Equal(t, ProtoTCP, decoded.Options[0].Endpoint.Proto)
}

func TestParseIpProto(t *testing.T) {
	t.Parallel()

	p, err := ParseIpProto(0x11)
	require.NoError(t, err)
	assert.Equal(t, ProtoUDP, p)

	_, err = ParseIpProto(0xFF)
	require.Error(t, err)
	assert.True(t, IsMalformedError(err))
}

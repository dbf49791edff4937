package packet

import (
	"bytes"
	"errors"
	"testing"

	"github.com/arkfall/nexus-server/pkg/protocol"
)

func TestServerRealmListRoundTrip(t *testing.T) {
	list := ServerRealmList{Realms: []Realm{
		{ID: 1, Population: PopulationMedium, Online: true, Name: "Bezgelor"},
		{ID: 8191, Population: PopulationFull, Online: false, Name: "Widow's Watch"},
		{ID: 42, Population: PopulationLow, Online: true, Name: "Orbis"},
	}}

	reg := buildTestRegistry(t)
	op, payload := reg.Encode(list)
	if op != OpServerRealmList {
		t.Fatalf("opcode = %s", op)
	}

	m, err := reg.Decode(op, payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, ok := m.(ServerRealmList)
	if !ok {
		t.Fatalf("decoded %T", m)
	}
	if len(got.Realms) != len(list.Realms) {
		t.Fatalf("decoded %d realms, want %d", len(got.Realms), len(list.Realms))
	}
	for i := range list.Realms {
		if got.Realms[i] != list.Realms[i] {
			t.Errorf("realm %d = %+v, want %+v", i, got.Realms[i], list.Realms[i])
		}
	}
}

func TestServerRealmListTruncated(t *testing.T) {
	reg := buildTestRegistry(t)
	_, payload := reg.Encode(ServerRealmList{Realms: []Realm{
		{ID: 1, Population: PopulationHigh, Online: true, Name: "Bezgelor"},
	}})

	if _, err := reg.Decode(OpServerRealmList, payload[:len(payload)-3]); !errors.Is(err, protocol.ErrUnderrun) {
		t.Errorf("truncated list: err = %v, want ErrUnderrun", err)
	}
}

func TestRealmRedirectAddressIsNetworkOrder(t *testing.T) {
	redirect, err := NewRealmRedirect("192.168.1.50", 24000, 3, [16]byte{})
	if err != nil {
		t.Fatal(err)
	}

	w := protocol.NewWriter()
	redirect.Encode(w)
	payload := w.Finish()

	// Address big-endian, then the port little-endian: the documented
	// exception sits right next to the rule.
	want := []byte{192, 168, 1, 50, 0xC0, 0x5D}
	if !bytes.Equal(payload[:6], want) {
		t.Errorf("redirect head = %x, want %x", payload[:6], want)
	}
}

func TestRealmRedirectRoundTrip(t *testing.T) {
	key := [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	redirect, err := NewRealmRedirect("10.0.0.7", 24001, 5, key)
	if err != nil {
		t.Fatal(err)
	}

	reg := buildTestRegistry(t)
	op, payload := reg.Encode(redirect)

	m, err := reg.Decode(op, payload)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := m.(ServerRealmRedirect)
	if !ok {
		t.Fatalf("decoded %T", m)
	}
	if got != redirect {
		t.Errorf("round trip = %+v, want %+v", got, redirect)
	}
}

func TestNewRealmRedirectRejectsBadHost(t *testing.T) {
	if _, err := NewRealmRedirect("not-an-ip", 1, 0, [16]byte{}); err == nil {
		t.Error("hostname accepted as realm address")
	}
	if _, err := NewRealmRedirect("::1", 1, 0, [16]byte{}); err == nil {
		t.Error("IPv6 address accepted for an IPv4-only field")
	}
}

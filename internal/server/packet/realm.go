package packet

import (
	"fmt"
	"net/netip"

	"github.com/arkfall/nexus-server/pkg/protocol"
)

// Realm population bands shown in the client's realm picker.
const (
	PopulationLow    uint8 = 0
	PopulationMedium uint8 = 1
	PopulationHigh   uint8 = 2
	PopulationFull   uint8 = 3
)

// Realm is one entry in the realm list. The whole entry is bit-packed: a
// 14-bit id, a 3-bit population band, an online bit and the name embedded
// mid-stream under a 7-bit code-unit count.
type Realm struct {
	ID         uint16
	Population uint8
	Online     bool
	Name       string
}

func writeRealm(w *protocol.Writer, rl Realm) {
	w.WriteBits(uint64(rl.ID), 14)
	w.WriteBits(uint64(rl.Population), 3)
	w.WriteBit(rl.Online)
	w.WriteWideStringBits(rl.Name, 7)
}

func readRealm(r *protocol.Reader) (Realm, error) {
	var rl Realm
	id, err := r.ReadBits(14)
	if err != nil {
		return rl, err
	}
	pop, err := r.ReadBits(3)
	if err != nil {
		return rl, err
	}
	online, err := r.ReadBit()
	if err != nil {
		return rl, err
	}
	name, err := r.ReadWideStringBits(7)
	if err != nil {
		return rl, err
	}
	return Realm{ID: uint16(id), Population: uint8(pop), Online: online, Name: name}, nil
}

// ClientRealmList asks for the realm list; it carries no payload.
type ClientRealmList struct{}

func (ClientRealmList) Opcode() protocol.Opcode { return OpClientRealmList }

func decodeClientRealmList(*protocol.Reader) (protocol.Message, error) {
	return ClientRealmList{}, nil
}

// ServerRealmList carries every advertised realm, entries packed back to
// back with no alignment between them.
type ServerRealmList struct {
	Realms []Realm
}

func (ServerRealmList) Opcode() protocol.Opcode { return OpServerRealmList }

func (m ServerRealmList) Encode(w *protocol.Writer) {
	w.WriteBits(uint64(len(m.Realms)), 5)
	protocol.WriteSlice(w, m.Realms, writeRealm)
}

func decodeServerRealmList(r *protocol.Reader) (protocol.Message, error) {
	count, err := r.ReadBits(5)
	if err != nil {
		return nil, fmt.Errorf("realm count: %w", err)
	}
	realms, err := protocol.ReadSlice(r, int(count), readRealm)
	if err != nil {
		return nil, err
	}
	return ServerRealmList{Realms: realms}, nil
}

// ClientRealmSelect picks a realm from the list by id.
type ClientRealmSelect struct {
	RealmID uint16
}

func (ClientRealmSelect) Opcode() protocol.Opcode { return OpClientRealmSelect }

func decodeClientRealmSelect(r *protocol.Reader) (protocol.Message, error) {
	id, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	return ClientRealmSelect{RealmID: id}, nil
}

// ServerRealmRedirect hands the client to the selected world server. The
// address and port are aligned, with the address in network (big-endian)
// order; the gateway flags and session key continue as one continuous bit
// stream, the key embedded unaligned via the raw-bytes path.
type ServerRealmRedirect struct {
	Addr       netip.Addr
	Port       uint16
	Flags      uint8 // 3 bits
	SessionKey [16]byte
}

func (ServerRealmRedirect) Opcode() protocol.Opcode { return OpServerRealmRedirect }

func (m ServerRealmRedirect) Encode(w *protocol.Writer) {
	w.WriteIPv4(m.Addr)
	w.WriteU16(m.Port)
	w.WriteBits(uint64(m.Flags), 3)
	w.WriteBytesBits(m.SessionKey[:])
}

func decodeServerRealmRedirect(r *protocol.Reader) (protocol.Message, error) {
	var m ServerRealmRedirect
	var err error
	if m.Addr, err = r.ReadIPv4(); err != nil {
		return nil, fmt.Errorf("address: %w", err)
	}
	if m.Port, err = r.ReadU16(); err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	flags, err := r.ReadBits(3)
	if err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	m.Flags = uint8(flags)
	key, err := r.ReadBytesBits(len(m.SessionKey))
	if err != nil {
		return nil, fmt.Errorf("session key: %w", err)
	}
	copy(m.SessionKey[:], key)
	return m, nil
}

// NewRealmRedirect builds the redirect for one configured realm. Realm
// settings arrive as parameters so the packet layer never reads process
// config.
func NewRealmRedirect(host string, port uint16, flags uint8, key [16]byte) (ServerRealmRedirect, error) {
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return ServerRealmRedirect{}, fmt.Errorf("parse realm host %q: %w", host, err)
	}
	if !addr.Is4() {
		return ServerRealmRedirect{}, fmt.Errorf("realm host %q is not an IPv4 address", host)
	}
	return ServerRealmRedirect{Addr: addr, Port: port, Flags: flags, SessionKey: key}, nil
}

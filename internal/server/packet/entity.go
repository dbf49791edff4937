package packet

import "github.com/arkfall/nexus-server/pkg/protocol"

// ClientEntitySelect targets a unit by guid. One aligned little-endian
// uint32, the oldest layout in the protocol.
type ClientEntitySelect struct {
	Guid uint32
}

func (ClientEntitySelect) Opcode() protocol.Opcode { return OpClientEntitySelect }

func (m ClientEntitySelect) Encode(w *protocol.Writer) {
	w.WriteU32(m.Guid)
}

func decodeClientEntitySelect(r *protocol.Reader) (protocol.Message, error) {
	guid, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	return ClientEntitySelect{Guid: guid}, nil
}

// Entity destroy reasons.
const (
	DestroyDespawn    uint8 = 0
	DestroyDeath      uint8 = 1
	DestroyOutOfRange uint8 = 2
)

// ServerEntityDestroy removes a unit from the client's world view.
type ServerEntityDestroy struct {
	Guid   uint32
	Reason uint8
}

func (ServerEntityDestroy) Opcode() protocol.Opcode { return OpServerEntityDestroy }

func (m ServerEntityDestroy) Encode(w *protocol.Writer) {
	w.WriteU32(m.Guid)
	w.WriteU8(m.Reason)
}

package packet

import (
	"fmt"

	"github.com/arkfall/nexus-server/pkg/protocol"
)

// Movement state flags, 3 bits on the wire.
const (
	MoveFalling  uint8 = 1 << 0
	MoveSwimming uint8 = 1 << 1
	MoveMounted  uint8 = 1 << 2
)

// ClientMovement is the client's position update. The whole packet is one
// continuous bit stream: the guid and floats go through the unaligned
// paths, the position and heading quantized to halve the update size. An
// aligned write anywhere in here would shift every following field.
type ClientMovement struct {
	Guid     uint32
	Position protocol.Vector3
	Heading  float32
	Flags    uint8
}

func (ClientMovement) Opcode() protocol.Opcode { return OpClientMovement }

func decodeClientMovement(r *protocol.Reader) (protocol.Message, error) {
	var m ClientMovement
	var err error
	if m.Guid, err = r.ReadU32Bits(); err != nil {
		return nil, fmt.Errorf("guid: %w", err)
	}
	if m.Position, err = r.ReadPackedVector3(); err != nil {
		return nil, fmt.Errorf("position: %w", err)
	}
	if m.Heading, err = r.ReadPackedFloat(); err != nil {
		return nil, fmt.Errorf("heading: %w", err)
	}
	flags, err := r.ReadBits(3)
	if err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	m.Flags = uint8(flags)
	return m, nil
}

// ServerEntityMove pushes another unit's movement to the client; same
// layout as ClientMovement.
type ServerEntityMove struct {
	Guid     uint32
	Position protocol.Vector3
	Heading  float32
	Flags    uint8
}

func (ServerEntityMove) Opcode() protocol.Opcode { return OpServerEntityMove }

func (m ServerEntityMove) Encode(w *protocol.Writer) {
	w.WriteU32Bits(m.Guid)
	w.WritePackedVector3(m.Position)
	w.WritePackedFloat(m.Heading)
	w.WriteBits(uint64(m.Flags), 3)
}

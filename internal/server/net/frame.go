package net

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/arkfall/nexus-server/pkg/protocol"
)

// Frame envelope: a little-endian uint32 frame length covering the opcode
// and payload, then a little-endian uint16 opcode, then the payload body.
// The codec never sees the envelope; it is handed the payload and opcode
// separately.

// MaxFrameSize caps a single frame at 2MB. Anything larger from a client is
// a protocol violation, not a legitimate packet.
const MaxFrameSize = 1 << 21

const opcodeSize = 2

// ReadFrame reads one full frame and splits it into opcode and payload.
func ReadFrame(r io.Reader) (protocol.Opcode, []byte, error) {
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return 0, nil, err
	}

	length := binary.LittleEndian.Uint32(head[:])
	if length < opcodeSize {
		return 0, nil, fmt.Errorf("frame length too small: %d", length)
	}
	if length > MaxFrameSize {
		return 0, nil, fmt.Errorf("frame too large: %d bytes", length)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, fmt.Errorf("read frame body: %w", err)
	}

	op := protocol.Opcode(binary.LittleEndian.Uint16(body[:opcodeSize]))
	return op, body[opcodeSize:], nil
}

// WriteFrame frames a payload under op and writes it in a single Write call
// so concurrent writers never interleave partial frames.
func WriteFrame(w io.Writer, op protocol.Opcode, payload []byte) error {
	if len(payload) > MaxFrameSize-opcodeSize {
		return fmt.Errorf("payload too large for one frame: %d bytes", len(payload))
	}

	buf := make([]byte, 4+opcodeSize+len(payload))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(opcodeSize+len(payload)))
	binary.LittleEndian.PutUint16(buf[4:6], uint16(op))
	copy(buf[6:], payload)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("flush frame %s: %w", op, err)
	}
	return nil
}

// WriteMessage encodes m through the registry and frames the result.
func WriteMessage(w io.Writer, reg *protocol.Registry, m protocol.Encodable) error {
	op, payload := reg.Encode(m)
	return WriteFrame(w, op, payload)
}

package packet

import (
	"fmt"

	"github.com/arkfall/nexus-server/pkg/protocol"
)

// Chat channels.
const (
	ChatSay   uint16 = 0
	ChatYell  uint16 = 1
	ChatZone  uint16 = 2
	ChatTrade uint16 = 3
)

// ClientChat is an outgoing chat line. Localized text always travels as a
// wide string.
type ClientChat struct {
	Channel uint16
	Message string
}

func (ClientChat) Opcode() protocol.Opcode { return OpClientChat }

func decodeClientChat(r *protocol.Reader) (protocol.Message, error) {
	channel, err := r.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("channel: %w", err)
	}
	msg, err := r.ReadWideString()
	if err != nil {
		return nil, fmt.Errorf("message: %w", err)
	}
	return ClientChat{Channel: channel, Message: msg}, nil
}

// ServerChat relays a chat line to a client.
type ServerChat struct {
	Channel uint16
	Speaker string
	Message string
}

func (ServerChat) Opcode() protocol.Opcode { return OpServerChat }

func (m ServerChat) Encode(w *protocol.Writer) {
	w.WriteU16(m.Channel)
	w.WriteWideString(m.Speaker)
	w.WriteWideString(m.Message)
}

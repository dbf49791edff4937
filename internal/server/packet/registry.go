package packet

import "github.com/arkfall/nexus-server/pkg/protocol"

// RawCapture holds a client packet that has been observed in captures but
// whose layout is not mapped yet. The session layer logs these instead of
// dropping the connection.
type RawCapture struct {
	Op   protocol.Opcode
	Data []byte
}

func (m RawCapture) Opcode() protocol.Opcode { return m.Op }

func decodeRawCapture(op protocol.Opcode) protocol.DecodeFunc {
	return func(r *protocol.Reader) (protocol.Message, error) {
		data, err := r.ReadBytes(r.BitsRemaining() / 8)
		if err != nil {
			return nil, err
		}
		return RawCapture{Op: op, Data: data}, nil
	}
}

// BuildRegistry assembles the full opcode table. It runs once at startup;
// a duplicate opcode fails the build and the process must not come up.
func BuildRegistry() (*protocol.Registry, error) {
	return protocol.NewRegistry([]protocol.Spec{
		{Op: OpServerHello, Name: "ServerHello", Encodable: true},
		{Op: OpServerRealmRedirect, Name: "ServerRealmRedirect", Decode: decodeServerRealmRedirect, Encodable: true},
		{Op: OpClientPing, Name: "ClientPing", Decode: decodeClientPing},
		{Op: OpServerPong, Name: "ServerPong", Encodable: true},
		{Op: OpClientEntitySelect, Name: "ClientEntitySelect", Decode: decodeClientEntitySelect, Encodable: true},
		{Op: OpClientHelloAuth, Name: "ClientHelloAuth", Decode: decodeClientHelloAuth},
		{Op: OpServerAuthResult, Name: "ServerAuthResult", Encodable: true},
		{Op: OpClientRealmList, Name: "ClientRealmList", Decode: decodeClientRealmList},
		{Op: OpServerRealmList, Name: "ServerRealmList", Decode: decodeServerRealmList, Encodable: true},
		{Op: OpClientRealmSelect, Name: "ClientRealmSelect", Decode: decodeClientRealmSelect},
		{Op: OpServerEntityDestroy, Name: "ServerEntityDestroy", Encodable: true},
		{Op: OpServerEntityMove, Name: "ServerEntityMove", Encodable: true},
		{Op: OpClientMovement, Name: "ClientMovement", Decode: decodeClientMovement},
		{Op: OpClientCharacterList, Name: "ClientCharacterList", Decode: decodeClientCharacterList},
		{Op: OpServerCharacterList, Name: "ServerCharacterList", Decode: decodeServerCharacterList, Encodable: true},
		{Op: OpClientCharacterSelect, Name: "ClientCharacterSelect", Decode: decodeClientCharacterSelect},
		{Op: OpClientChat, Name: "ClientChat", Decode: decodeClientChat},
		{Op: OpServerChat, Name: "ServerChat", Encodable: true},

		// Seen in captures, not yet named in the opcode table.
		{Op: 0x0636, Decode: decodeRawCapture(0x0636)},
		{Op: 0x03F1, Decode: decodeRawCapture(0x03F1)},
	})
}

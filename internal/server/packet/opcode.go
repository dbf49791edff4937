package packet

import "github.com/arkfall/nexus-server/pkg/protocol"

// Opcodes carried by the client build this gateway targets. Values are fixed
// by the client binary; renumbering anything here breaks interop.
const (
	OpServerHello           protocol.Opcode = 0x0076
	OpServerRealmRedirect   protocol.Opcode = 0x0077
	OpClientPing            protocol.Opcode = 0x0079
	OpServerPong            protocol.Opcode = 0x007A
	OpClientEntitySelect    protocol.Opcode = 0x0111
	OpClientHelloAuth       protocol.Opcode = 0x0191
	OpServerAuthResult      protocol.Opcode = 0x01A2
	OpClientRealmList       protocol.Opcode = 0x01AB
	OpServerRealmList       protocol.Opcode = 0x01AC
	OpClientRealmSelect     protocol.Opcode = 0x01AD
	OpServerEntityDestroy   protocol.Opcode = 0x0231
	OpServerEntityMove      protocol.Opcode = 0x0232
	OpClientMovement        protocol.Opcode = 0x0233
	OpClientCharacterList   protocol.Opcode = 0x0302
	OpServerCharacterList   protocol.Opcode = 0x0303
	OpClientCharacterSelect protocol.Opcode = 0x0304
	OpClientChat            protocol.Opcode = 0x0401
	OpServerChat            protocol.Opcode = 0x0402
)

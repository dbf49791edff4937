package packet

import (
	"fmt"

	"github.com/arkfall/nexus-server/pkg/protocol"
)

// ServerHello is the first frame on every new connection: it announces the
// gateway's auth protocol version and carries the salt the client mixes
// into its credential hash.
type ServerHello struct {
	AuthVersion uint32
	StartupTime uint64
	Salt        [16]byte
}

func (ServerHello) Opcode() protocol.Opcode { return OpServerHello }

func (m ServerHello) Encode(w *protocol.Writer) {
	w.WriteU32(m.AuthVersion)
	w.WriteU64(m.StartupTime)
	w.WriteBytes(m.Salt[:])
}

// ClientHelloAuth is the client's reply: its build number and the account
// it is logging in as.
type ClientHelloAuth struct {
	Build   uint32
	Account string
}

func (ClientHelloAuth) Opcode() protocol.Opcode { return OpClientHelloAuth }

func decodeClientHelloAuth(r *protocol.Reader) (protocol.Message, error) {
	build, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	account, err := r.ReadWideString()
	if err != nil {
		return nil, fmt.Errorf("account: %w", err)
	}
	return ClientHelloAuth{Build: build, Account: account}, nil
}

// Auth result codes understood by the client.
const (
	AuthOk             uint8 = 0
	AuthOutOfDateBuild uint8 = 1
	AuthDenied         uint8 = 2
)

// ServerAuthResult accepts or rejects the hello.
type ServerAuthResult struct {
	Result uint8
}

func (ServerAuthResult) Opcode() protocol.Opcode { return OpServerAuthResult }

func (m ServerAuthResult) Encode(w *protocol.Writer) {
	w.WriteU8(m.Result)
}

// ClientPing is the keepalive heartbeat; the gateway echoes the timestamp
// back in ServerPong.
type ClientPing struct {
	Timestamp uint64
}

func (ClientPing) Opcode() protocol.Opcode { return OpClientPing }

func decodeClientPing(r *protocol.Reader) (protocol.Message, error) {
	ts, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	return ClientPing{Timestamp: ts}, nil
}

// ServerPong answers a ClientPing.
type ServerPong struct {
	Timestamp uint64
}

func (ServerPong) Opcode() protocol.Opcode { return OpServerPong }

func (m ServerPong) Encode(w *protocol.Writer) {
	w.WriteU64(m.Timestamp)
}

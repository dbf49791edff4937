package conn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arkfall/nexus-server/internal/observability"
	"github.com/arkfall/nexus-server/internal/server/config"
	gwnet "github.com/arkfall/nexus-server/internal/server/net"
	"github.com/arkfall/nexus-server/internal/server/packet"
	"github.com/arkfall/nexus-server/pkg/protocol"
)

// State represents the connection state.
type State int

const (
	// StateAuth: waiting for the client's hello after ours.
	StateAuth State = iota
	// StateLobby: authenticated, picking realm and character.
	StateLobby
	// StateWorld: in the world with a character.
	StateWorld
)

// Connection manages a single client through the session state machine.
// Decoding happens on this connection's goroutine only; the registry is
// shared and read-only.
type Connection struct {
	conn   net.Conn
	cfg    *config.Config
	log    zerolog.Logger
	reg    *protocol.Registry
	ctx    context.Context
	cancel context.CancelFunc

	mu sync.Mutex // guards writes to conn

	state      State
	account    string
	sessionKey [16]byte

	// World state, only touched from the Handle goroutine.
	character  packet.Character
	targetGuid uint32
	position   protocol.Vector3
}

// NewConnection creates a Connection from a raw TCP connection.
func NewConnection(ctx context.Context, conn net.Conn, cfg *config.Config, log zerolog.Logger, reg *protocol.Registry) *Connection {
	ctx, cancel := context.WithCancel(ctx)
	return &Connection{
		conn:   conn,
		cfg:    cfg,
		log:    log.With().Str("addr", conn.RemoteAddr().String()).Logger(),
		reg:    reg,
		ctx:    ctx,
		cancel: cancel,
		state:  StateAuth,
	}
}

// Handle runs the connection lifecycle: send the hello, then read frames
// and dispatch them until the connection closes or the first protocol
// violation.
func (c *Connection) Handle() {
	observability.ActiveConnections.Inc()
	defer func() {
		observability.ActiveConnections.Dec()
		c.cancel()
		c.conn.Close()
		c.log.Info().Msg("connection closed")
	}()

	c.log.Info().Msg("connection accepted")

	if err := c.sendHello(); err != nil {
		c.log.Error().Err(err).Msg("send hello")
		return
	}

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		if err := c.handleNextFrame(); err != nil {
			if c.ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}
			c.dropWith(err)
			return
		}
	}
}

func (c *Connection) handleNextFrame() error {
	op, payload, err := gwnet.ReadFrame(c.conn)
	if err != nil {
		return err
	}

	m, err := c.reg.Decode(op, payload)
	if err != nil {
		return err
	}
	if sp, ok := c.reg.Lookup(op); ok {
		observability.FramesRead.WithLabelValues(sp.Label()).Inc()
	}

	// A few messages are state-independent.
	switch m := m.(type) {
	case packet.RawCapture:
		c.log.Debug().Stringer("opcode", m.Op).Int("bytes", len(m.Data)).Msg("unmapped packet")
		return nil
	case packet.ClientPing:
		return c.write(packet.ServerPong{Timestamp: m.Timestamp})
	}

	switch c.state {
	case StateAuth:
		return c.handleAuth(m)
	case StateLobby:
		return c.handleLobby(m)
	case StateWorld:
		return c.handleWorld(m)
	default:
		return fmt.Errorf("unknown state: %d", c.state)
	}
}

// write encodes and frames a message under the write lock.
func (c *Connection) write(m protocol.Encodable) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := gwnet.WriteMessage(c.conn, c.reg, m); err != nil {
		return err
	}
	if sp, ok := c.reg.Lookup(m.Opcode()); ok {
		observability.FramesWritten.WithLabelValues(sp.Label()).Inc()
	}
	return nil
}

// dropWith logs a protocol violation and records why the connection died.
// Malformed input never mutates session state, it only ends the session.
func (c *Connection) dropWith(err error) {
	reason := "io"
	switch {
	case errors.Is(err, protocol.ErrUnknownOpcode):
		reason = "unknown_opcode"
	case errors.Is(err, protocol.ErrUnderrun):
		reason = "underrun"
	}
	observability.DecodeFailures.WithLabelValues(reason).Inc()
	c.log.Warn().Err(err).Str("reason", reason).Msg("dropping connection")
}

package protocol

import (
	"fmt"
	"sort"
)

// Opcode identifies a message type on the wire.
type Opcode uint16

func (o Opcode) String() string {
	return fmt.Sprintf("0x%04X", uint16(o))
}

// Message is implemented by every protocol message and reports the opcode
// the transport layer frames it under.
type Message interface {
	Opcode() Opcode
}

// Encodable messages can be written to the wire. Encoding is infallible for
// a well-formed value: a field that does not fit its declared width is a
// programmer error, not a runtime condition.
type Encodable interface {
	Message
	Encode(w *Writer)
}

// DecodeFunc drives a Reader over a payload and produces a typed message.
type DecodeFunc func(r *Reader) (Message, error)

// Spec binds one message type to its opcode. Decode is nil for send-only
// messages; Encodable marks opcodes the server emits. Name is the symbolic
// name from the opcode table, or empty for packets known only by their raw
// numeric value.
type Spec struct {
	Op        Opcode
	Name      string
	Decode    DecodeFunc
	Encodable bool
}

// Label returns the symbolic name when known, else the hex opcode.
func (s Spec) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Op.String()
}

// Registry is the opcode dispatch table. It is built once at startup and
// immutable afterwards, so connections read it concurrently without locking.
type Registry struct {
	specs map[Opcode]Spec
}

// NewRegistry builds the dispatch table. Two specs claiming the same opcode
// or a spec with neither capability fail the build; callers abort startup
// on error.
func NewRegistry(specs []Spec) (*Registry, error) {
	m := make(map[Opcode]Spec, len(specs))
	for _, sp := range specs {
		if prev, ok := m[sp.Op]; ok {
			return nil, fmt.Errorf("opcode %s claimed by both %s and %s", sp.Op, prev.Label(), sp.Label())
		}
		if sp.Decode == nil && !sp.Encodable {
			return nil, fmt.Errorf("spec %s has no decode or encode capability", sp.Label())
		}
		m[sp.Op] = sp
	}
	return &Registry{specs: m}, nil
}

// Lookup returns the spec registered for op.
func (g *Registry) Lookup(op Opcode) (Spec, bool) {
	sp, ok := g.specs[op]
	return sp, ok
}

// Specs returns every registered spec ordered by opcode.
func (g *Registry) Specs() []Spec {
	out := make([]Spec, 0, len(g.specs))
	for _, sp := range g.specs {
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Op < out[j].Op })
	return out
}

// Decode resolves op and drives the spec's decoder over payload. An opcode
// with no decodable spec is a protocol violation from the peer and returns
// ErrUnknownOpcode. Any codec failure aborts with no partial message.
func (g *Registry) Decode(op Opcode, payload []byte) (Message, error) {
	sp, ok := g.specs[op]
	if !ok || sp.Decode == nil {
		return nil, fmt.Errorf("opcode %s: %w", op, ErrUnknownOpcode)
	}
	m, err := sp.Decode(NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", sp.Label(), err)
	}
	return m, nil
}

// Encode runs the message's encoder and pairs the payload with its opcode
// for the transport layer to frame. Encoding a message whose opcode was
// never registered as encodable panics: the value came from our own code,
// so that is a bug, not peer input.
func (g *Registry) Encode(m Encodable) (Opcode, []byte) {
	sp, ok := g.specs[m.Opcode()]
	if !ok || !sp.Encodable {
		panic(fmt.Sprintf("protocol: encode of unregistered message %T (opcode %s)", m, m.Opcode()))
	}
	w := NewWriter()
	m.Encode(w)
	return sp.Op, w.Finish()
}

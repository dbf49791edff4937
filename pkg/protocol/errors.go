package protocol

import "errors"

var (
	// ErrUnderrun is returned when a read needs more bits than remain in
	// the payload. A declared count that would run past the end of the
	// buffer surfaces as the same error.
	ErrUnderrun = errors.New("protocol: buffer underrun")

	// ErrUnknownOpcode is returned by the registry when an inbound opcode
	// has no registered decodable spec.
	ErrUnknownOpcode = errors.New("protocol: unknown opcode")
)

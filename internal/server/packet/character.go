package packet

import (
	"fmt"

	"github.com/arkfall/nexus-server/pkg/protocol"
)

// ItemVisual is one equipped-appearance entry on a character list row.
// Widths follow the client's item tables: slots fit 7 bits, display ids 15,
// colour sets 14; dye data is a full signed 32-bit field.
type ItemVisual struct {
	Slot      uint8
	DisplayID uint16
	ColourSet uint16
	DyeData   int32
}

func writeItemVisual(w *protocol.Writer, v ItemVisual) {
	w.WriteBits(uint64(v.Slot), 7)
	w.WriteBits(uint64(v.DisplayID), 15)
	w.WriteBits(uint64(v.ColourSet), 14)
	w.WriteSignedBits(int64(v.DyeData), 32)
}

func readItemVisual(r *protocol.Reader) (ItemVisual, error) {
	var v ItemVisual
	slot, err := r.ReadBits(7)
	if err != nil {
		return v, err
	}
	display, err := r.ReadBits(15)
	if err != nil {
		return v, err
	}
	colour, err := r.ReadBits(14)
	if err != nil {
		return v, err
	}
	dye, err := r.ReadSignedBits(32)
	if err != nil {
		return v, err
	}
	return ItemVisual{
		Slot:      uint8(slot),
		DisplayID: uint16(display),
		ColourSet: uint16(colour),
		DyeData:   int32(dye),
	}, nil
}

// Character is one row of the character select screen. The row is a single
// continuous bit stream: a 64-bit id, the name embedded under a 7-bit
// count, then the narrow enum fields and the visuals.
type Character struct {
	ID      uint64
	Name    string
	Sex     uint8 // 2 bits
	Race    uint8 // 5 bits
	Class   uint8 // 5 bits
	Level   uint8 // 7 bits
	Visuals []ItemVisual
}

func writeCharacter(w *protocol.Writer, c Character) {
	w.WriteU64Bits(c.ID)
	w.WriteWideStringBits(c.Name, 7)
	w.WriteBits(uint64(c.Sex), 2)
	w.WriteBits(uint64(c.Race), 5)
	w.WriteBits(uint64(c.Class), 5)
	w.WriteBits(uint64(c.Level), 7)
	w.WriteBits(uint64(len(c.Visuals)), 5)
	protocol.WriteSlice(w, c.Visuals, writeItemVisual)
}

func readCharacter(r *protocol.Reader) (Character, error) {
	var c Character
	var err error
	if c.ID, err = r.ReadU64Bits(); err != nil {
		return c, fmt.Errorf("id: %w", err)
	}
	if c.Name, err = r.ReadWideStringBits(7); err != nil {
		return c, fmt.Errorf("name: %w", err)
	}
	sex, err := r.ReadBits(2)
	if err != nil {
		return c, err
	}
	race, err := r.ReadBits(5)
	if err != nil {
		return c, err
	}
	class, err := r.ReadBits(5)
	if err != nil {
		return c, err
	}
	level, err := r.ReadBits(7)
	if err != nil {
		return c, err
	}
	count, err := r.ReadBits(5)
	if err != nil {
		return c, fmt.Errorf("visual count: %w", err)
	}
	visuals, err := protocol.ReadSlice(r, int(count), readItemVisual)
	if err != nil {
		return c, fmt.Errorf("visuals: %w", err)
	}
	c.Sex = uint8(sex)
	c.Race = uint8(race)
	c.Class = uint8(class)
	c.Level = uint8(level)
	c.Visuals = visuals
	return c, nil
}

// ClientCharacterSelect enters the world with the chosen character.
type ClientCharacterSelect struct {
	CharacterID uint64
}

func (ClientCharacterSelect) Opcode() protocol.Opcode { return OpClientCharacterSelect }

func decodeClientCharacterSelect(r *protocol.Reader) (protocol.Message, error) {
	id, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	return ClientCharacterSelect{CharacterID: id}, nil
}

// ClientCharacterList asks for the account's characters; no payload.
type ClientCharacterList struct{}

func (ClientCharacterList) Opcode() protocol.Opcode { return OpClientCharacterList }

func decodeClientCharacterList(*protocol.Reader) (protocol.Message, error) {
	return ClientCharacterList{}, nil
}

// ServerCharacterList carries the character select rows, packed back to
// back under a 4-bit count.
type ServerCharacterList struct {
	Characters []Character
}

func (ServerCharacterList) Opcode() protocol.Opcode { return OpServerCharacterList }

func (m ServerCharacterList) Encode(w *protocol.Writer) {
	w.WriteBits(uint64(len(m.Characters)), 4)
	protocol.WriteSlice(w, m.Characters, writeCharacter)
}

func decodeServerCharacterList(r *protocol.Reader) (protocol.Message, error) {
	count, err := r.ReadBits(4)
	if err != nil {
		return nil, fmt.Errorf("character count: %w", err)
	}
	chars, err := protocol.ReadSlice(r, int(count), readCharacter)
	if err != nil {
		return nil, err
	}
	return ServerCharacterList{Characters: chars}, nil
}

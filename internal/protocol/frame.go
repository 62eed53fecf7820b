package protocol

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/bft-labs/centronic/internal/domain"
)

// Framing bytes expected by the transmitter stick.
const (
	STX byte = 0x02
	ETX byte = 0x03
)

const (
	// PayloadLen is the length of an encoded payload in hex characters.
	PayloadLen = 40

	// MaxUnitID is the largest id that fits the 5 hex digit unit field.
	MaxUnitID = 0xFFFFF

	// MaxChannel is the largest value of the 2 hex digit channel field.
	MaxChannel = 0xFF

	// MaxWireCounter is the largest counter the 4 hex digit field carries
	// before it wraps.
	MaxWireCounter = 0xFFFF
)

// payloadFormat lays out header, unit id, counter, channel and opcode.
// The counter field holds the low 16 bits of the rolling counter.
const payloadFormat = "0000000002%05X21%04X000000%02X00%02X0000000"

// RawFrame is an encoded payload without checksum and framing.
type RawFrame string

// Encode packs channel, the unit's id and current counter, and the opcode.
// The unit is not modified.
func Encode(channel int, unit domain.Unit, op Opcode) (RawFrame, error) {
	if unit.ID() < 0 || unit.ID() > MaxUnitID {
		return "", fmt.Errorf("%w: unit id %d out of range", domain.ErrInvalidFrame, unit.ID())
	}
	if channel < 0 || channel > MaxChannel {
		return "", fmt.Errorf("%w: channel %d out of range", domain.ErrInvalidFrame, channel)
	}
	if !op.Valid() {
		return "", fmt.Errorf("%w: unknown opcode %s", domain.ErrInvalidFrame, op)
	}
	return RawFrame(fmt.Sprintf(payloadFormat, unit.ID(), unit.Counter()&MaxWireCounter, channel, byte(op))), nil
}

// Checksum returns the two's complement of the byte sum of the payload.
func Checksum(raw RawFrame) (byte, error) {
	b, err := hex.DecodeString(string(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidFrame, err)
	}
	var sum byte
	for _, v := range b {
		sum += v
	}
	return -sum, nil
}

// Finalize appends the checksum and wraps the payload in STX/ETX.
// The result is ready to be written to the transmitter.
func Finalize(raw RawFrame) ([]byte, error) {
	sum, err := Checksum(raw)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(raw)+4)
	out = append(out, STX)
	out = append(out, raw...)
	out = append(out, fmt.Sprintf("%02X", sum)...)
	out = append(out, ETX)
	return out, nil
}

// Build encodes and finalizes in one step.
func Build(channel int, unit domain.Unit, op Opcode) ([]byte, error) {
	raw, err := Encode(channel, unit, op)
	if err != nil {
		return nil, err
	}
	return Finalize(raw)
}

// Fields are the values packed into a payload.
type Fields struct {
	UnitID  int
	Counter uint16
	Channel int
	Opcode  Opcode
}

// Unframe strips STX/ETX from a finalized frame and verifies the checksum.
func Unframe(wire []byte) (RawFrame, error) {
	if len(wire) != PayloadLen+4 || wire[0] != STX || wire[len(wire)-1] != ETX {
		return "", fmt.Errorf("%w: bad framing", domain.ErrInvalidFrame)
	}
	raw := RawFrame(wire[1 : 1+PayloadLen])
	want, err := Checksum(raw)
	if err != nil {
		return "", err
	}
	if got := string(wire[1+PayloadLen : 3+PayloadLen]); got != fmt.Sprintf("%02X", want) {
		return "", fmt.Errorf("%w: checksum %s, want %02X", domain.ErrInvalidFrame, got, want)
	}
	return raw, nil
}

// Fields decodes the payload fields.
func (r RawFrame) Fields() (Fields, error) {
	if len(r) != PayloadLen || r[:10] != "0000000002" || r[15:17] != "21" {
		return Fields{}, fmt.Errorf("%w: malformed payload %q", domain.ErrInvalidFrame, string(r))
	}
	unitID, err := strconv.ParseUint(string(r[10:15]), 16, 32)
	if err != nil {
		return Fields{}, fmt.Errorf("%w: unit id: %v", domain.ErrInvalidFrame, err)
	}
	counter, err := strconv.ParseUint(string(r[17:21]), 16, 16)
	if err != nil {
		return Fields{}, fmt.Errorf("%w: counter: %v", domain.ErrInvalidFrame, err)
	}
	channel, err := strconv.ParseUint(string(r[27:29]), 16, 8)
	if err != nil {
		return Fields{}, fmt.Errorf("%w: channel: %v", domain.ErrInvalidFrame, err)
	}
	op, err := strconv.ParseUint(string(r[31:33]), 16, 8)
	if err != nil {
		return Fields{}, fmt.Errorf("%w: opcode: %v", domain.ErrInvalidFrame, err)
	}
	return Fields{
		UnitID:  int(unitID),
		Counter: uint16(counter),
		Channel: int(channel),
		Opcode:  Opcode(op),
	}, nil
}

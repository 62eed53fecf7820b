package protocol

import "fmt"

// Opcode is the command byte carried by a frame.
type Opcode byte

const (
	OpHalt Opcode = 0x10

	OpUp  Opcode = 0x20
	OpUp2 Opcode = 0x21
	OpUp3 Opcode = 0x22
	OpUp4 Opcode = 0x23
	OpUp5 Opcode = 0x24 // intermediate position "up"

	OpDown  Opcode = 0x40
	OpDown2 Opcode = 0x41
	OpDown3 Opcode = 0x42
	OpDown4 Opcode = 0x43
	OpDown5 Opcode = 0x44 // intermediate position "down" (sun protection)

	OpPair  Opcode = 0x80 // pair button press
	OpPair2 Opcode = 0x81 // pair button held 3s
	OpPair3 Opcode = 0x82 // pair button held 6s
	OpPair4 Opcode = 0x83 // pair button held 10s

	OpClearPos  Opcode = 0x90
	OpClearPos2 Opcode = 0x91
	OpClearPos3 Opcode = 0x92
	OpClearPos4 Opcode = 0x93
)

var opcodeNames = map[Opcode]string{
	OpHalt:      "HALT",
	OpUp:        "UP",
	OpUp2:       "UP2",
	OpUp3:       "UP3",
	OpUp4:       "UP4",
	OpUp5:       "UP5",
	OpDown:      "DOWN",
	OpDown2:     "DOWN2",
	OpDown3:     "DOWN3",
	OpDown4:     "DOWN4",
	OpDown5:     "DOWN5",
	OpPair:      "PAIR",
	OpPair2:     "PAIR2",
	OpPair3:     "PAIR3",
	OpPair4:     "PAIR4",
	OpClearPos:  "CLEARPOS",
	OpClearPos2: "CLEARPOS2",
	OpClearPos3: "CLEARPOS3",
	OpClearPos4: "CLEARPOS4",
}

// Valid reports whether the opcode is part of the supported set.
func (o Opcode) Valid() bool {
	_, ok := opcodeNames[o]
	return ok
}

// String returns the opcode name, or its hex value if unknown.
func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", byte(o))
}

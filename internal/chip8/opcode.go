package chip8

// opcodeSize is the size of CHIP-8 instructions in bytes.
const opcodeSize = 2

// Nibble returns the 4 bit slice of the opcode at the given position,
// numbered 1 (highest) to 4 (lowest). Positions outside that range return 0.
func Nibble(opcode uint16, position int) uint8 {
	if position < 1 || position > 4 {
		return 0
	}
	shift := uint(4-position) * 4
	return uint8(opcode>>shift) & 0x0F
}

// HighByte returns the upper 8 bits of the opcode.
func HighByte(opcode uint16) uint8 {
	return uint8(opcode >> 8)
}

// LowByte returns the lower 8 bits of the opcode, the NN immediate.
func LowByte(opcode uint16) uint8 {
	return uint8(opcode & 0x00FF)
}

// X returns the register index encoded in the second nibble.
func X(opcode uint16) int {
	return int(Nibble(opcode, 2))
}

// Y returns the register index encoded in the third nibble.
func Y(opcode uint16) int {
	return int(Nibble(opcode, 3))
}

// N returns the lowest nibble of the opcode.
func N(opcode uint16) uint8 {
	return Nibble(opcode, 4)
}

// NNN returns the 12 bit address encoded in the opcode.
func NNN(opcode uint16) uint16 {
	return opcode & 0x0FFF
}

// decodeOpcode combines two big-endian bytes into an opcode.
func decodeOpcode(high, low byte) uint16 {
	return uint16(high)<<8 | uint16(low)
}

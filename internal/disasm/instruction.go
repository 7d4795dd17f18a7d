// Package disasm provides a CHIP-8 and Super-CHIP-8 disassembler that is
// used for ROM listings and for the memory dump of fault diagnostics.
package disasm

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Super-CHIP instruction names that the base instruction set does not define.
const (
	scdName  = "scd"
	scrName  = "scr"
	sclName  = "scl"
	lowName  = "low"
	highName = "high"
)

// Instruction is a decoded opcode with its formatted parameters.
type Instruction struct {
	Opcode uint16
	Name   string
	Params string
}

// String returns the instruction in assembly syntax.
func (i Instruction) String() string {
	if i.Params == "" {
		return i.Name
	}
	return i.Name + " " + i.Params
}

// IsJump returns true for an absolute jump (1NNN).
func (i Instruction) IsJump() bool {
	return i.Name == chip8.JpName && i.Opcode&0xF000 == 0x1000
}

// IsCall returns true for a subroutine call (2NNN).
func (i Instruction) IsCall() bool {
	return i.Name == chip8.CallName
}

// IsSkip returns true if the instruction conditionally skips the next one.
func (i Instruction) IsSkip() bool {
	return chip8.SkipInstructions.Contains(i.Name)
}

// Extended returns true if the opcode is missing from the base CHIP-8
// opcode table, which is the case for the Super-CHIP additions.
func (i Instruction) Extended() bool {
	for _, op := range chip8.Opcodes[int(i.Opcode>>12)] {
		if op.Info.Mask&i.Opcode == op.Info.Value {
			return false
		}
	}
	return true
}

// Target returns the 12 bit address of jumps and calls.
func (i Instruction) Target() (uint16, bool) {
	if i.IsJump() || i.IsCall() {
		return i.Opcode & 0x0FFF, true
	}
	return 0, false
}

// Decode decodes a CHIP-8 or Super-CHIP-8 opcode. It returns false for bit
// patterns that match no instruction.
func Decode(opcode uint16) (Instruction, bool) {
	name, params, ok := decode(opcode)
	if !ok {
		return Instruction{}, false
	}
	return Instruction{
		Opcode: opcode,
		Name:   name,
		Params: params,
	}, true
}

func decode(opcode uint16) (string, string, bool) {
	x := extractRegisterX(opcode)
	y := extractRegisterY(opcode)

	switch opcode & 0xF000 {
	case 0x0000:
		return decodeSystem(opcode)
	case 0x1000:
		return chip8.JpName, fmt.Sprintf("$%03X", opcode&0x0FFF), true
	case 0x2000:
		return chip8.CallName, fmt.Sprintf("$%03X", opcode&0x0FFF), true
	case 0x3000:
		return chip8.SeName, fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF), true
	case 0x4000:
		return chip8.SneName, fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF), true
	case 0x5000:
		if opcode&0x000F != 0 {
			return "", "", false
		}
		return chip8.SeName, fmt.Sprintf("V%X, V%X", x, y), true
	case 0x6000:
		return chip8.LdName, fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF), true
	case 0x7000:
		return chip8.AddName, fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF), true
	case 0x8000:
		return decodeArithmetic(opcode)
	case 0x9000:
		if opcode&0x000F != 0 {
			return "", "", false
		}
		return chip8.SneName, fmt.Sprintf("V%X, V%X", x, y), true
	case 0xA000:
		return chip8.LdName, fmt.Sprintf("I, $%03X", opcode&0x0FFF), true
	case 0xB000:
		return chip8.JpName, fmt.Sprintf("V0, $%03X", opcode&0x0FFF), true
	case 0xC000:
		return chip8.RndName, fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF), true
	case 0xD000:
		return chip8.DrwName, fmt.Sprintf("V%X, V%X, $%X", x, y, opcode&0x000F), true
	case 0xE000:
		return decodeKey(opcode)
	default:
		return decodeMisc(opcode)
	}
}

// decodeSystem decodes the 0x0 family: screen, return and mode opcodes.
func decodeSystem(opcode uint16) (string, string, bool) {
	switch {
	case opcode == 0x00E0:
		return chip8.ClsName, "", true
	case opcode == 0x00EE:
		return chip8.RetName, "", true
	case opcode&0xFFF0 == 0x00C0:
		return scdName, fmt.Sprintf("$%X", opcode&0x000F), true
	case opcode == 0x00FB:
		return scrName, "", true
	case opcode == 0x00FC:
		return sclName, "", true
	case opcode == 0x00FE:
		return lowName, "", true
	case opcode == 0x00FF:
		return highName, "", true
	}
	return "", "", false
}

// decodeArithmetic decodes the 0x8 register to register family.
func decodeArithmetic(opcode uint16) (string, string, bool) {
	x := extractRegisterX(opcode)
	y := extractRegisterY(opcode)
	binary := fmt.Sprintf("V%X, V%X", x, y)

	switch opcode & 0x000F {
	case 0x0:
		return chip8.LdName, binary, true
	case 0x1:
		return chip8.OrName, binary, true
	case 0x2:
		return chip8.AndName, binary, true
	case 0x3:
		return chip8.XorName, binary, true
	case 0x4:
		return chip8.AddName, binary, true
	case 0x5:
		return chip8.SubName, binary, true
	case 0x6:
		return chip8.ShrName, fmt.Sprintf("V%X", x), true
	case 0x7:
		return chip8.SubnName, binary, true
	case 0xE:
		return chip8.ShlName, fmt.Sprintf("V%X", x), true
	}
	return "", "", false
}

// decodeKey decodes the 0xE keypad family.
func decodeKey(opcode uint16) (string, string, bool) {
	param := fmt.Sprintf("V%X", extractRegisterX(opcode))

	switch opcode & 0x00FF {
	case 0x9E:
		return chip8.SkpName, param, true
	case 0xA1:
		return chip8.SknpName, param, true
	}
	return "", "", false
}

// decodeMisc decodes the 0xF timer, index and memory family.
func decodeMisc(opcode uint16) (string, string, bool) {
	x := extractRegisterX(opcode)

	var params string
	switch opcode & 0x00FF {
	case 0x07:
		params = fmt.Sprintf("V%X, DT", x)
	case 0x0A:
		params = fmt.Sprintf("V%X, K", x)
	case 0x15:
		params = fmt.Sprintf("DT, V%X", x)
	case 0x18:
		params = fmt.Sprintf("ST, V%X", x)
	case 0x1E:
		return chip8.AddName, fmt.Sprintf("I, V%X", x), true
	case 0x29:
		params = fmt.Sprintf("F, V%X", x)
	case 0x30:
		params = fmt.Sprintf("HF, V%X", x)
	case 0x33:
		params = fmt.Sprintf("B, V%X", x)
	case 0x55:
		params = fmt.Sprintf("[I], V%X", x)
	case 0x65:
		params = fmt.Sprintf("V%X, [I]", x)
	case 0x75:
		params = fmt.Sprintf("R, V%X", x)
	case 0x85:
		params = fmt.Sprintf("V%X, R", x)
	default:
		return "", "", false
	}
	return chip8.LdName, params, true
}

// extractRegisterX extracts the X register nibble from a CHIP-8 opcode.
func extractRegisterX(opcode uint16) uint16 {
	return (opcode & 0x0F00) >> 8
}

// extractRegisterY extracts the Y register nibble from a CHIP-8 opcode.
func extractRegisterY(opcode uint16) uint16 {
	return (opcode & 0x00F0) >> 4
}

package chip8

import (
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/render"
	"github.com/retroenv/retrogolib/log"
)

// Fault is returned by Step when the opcode at the program counter matches
// no decode rule. The machine does not recover from a fault, stepping again
// returns the same fault.
type Fault struct {
	Opcode   uint16
	Snapshot Snapshot
}

// Error implements the error interface.
func (f *Fault) Error() string {
	return fmt.Sprintf("unknown opcode %04X at address %04X", f.Opcode, f.Snapshot.PC)
}

// Snapshot is a copy of the complete machine state.
type Snapshot struct {
	PC         uint16
	I          uint16
	SP         uint8
	Opcode     uint16
	V          [RegisterCount]uint8
	Stack      [StackSize]uint16
	DelayTimer uint8
	SoundTimer uint8
	Extended   bool
	UserFlags  [UserFlagCount]uint8

	Width       int
	Height      int
	Framebuffer []byte
	Memory      [MemorySize]byte
}

// Snapshot returns a copy of the current machine state.
func (m *Machine) Snapshot() Snapshot {
	width, height := m.Dimensions()
	framebuffer := make([]byte, width*height)
	copy(framebuffer, m.framebuffer[:])

	return Snapshot{
		PC:          m.pc,
		I:           m.i,
		SP:          m.sp,
		Opcode:      m.Opcode(),
		V:           m.v,
		Stack:       m.stack,
		DelayTimer:  m.delayTimer,
		SoundTimer:  m.soundTimer,
		Extended:    m.extended,
		UserFlags:   m.userFlags,
		Width:       width,
		Height:      height,
		Framebuffer: framebuffer,
		Memory:      m.memory,
	}
}

// fault creates the fault for an unknown opcode.
func (m *Machine) fault(opcode uint16) error {
	if m.logger != nil {
		m.logger.Debug("Unknown opcode",
			log.Hex("opcode", opcode),
			log.Hex("pc", m.pc))
	}
	return &Fault{
		Opcode:   opcode,
		Snapshot: m.Snapshot(),
	}
}

// WriteRegisters writes the program counter, current instruction, index
// register, stack pointer and the general purpose registers.
func (s Snapshot) WriteRegisters(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "PC = %04X\nINSTRUCTION = %04X\nI = %04X\nSP = %d\n",
		s.PC, s.Opcode, s.I, s.SP); err != nil {
		return fmt.Errorf("writing registers: %w", err)
	}
	if _, err := fmt.Fprintf(w, "DT = %02X\nST = %02X\n", s.DelayTimer, s.SoundTimer); err != nil {
		return fmt.Errorf("writing timers: %w", err)
	}

	for i, value := range s.V {
		separator := "\t"
		if (i+1)%4 == 0 {
			separator = "\n"
		}
		if _, err := fmt.Fprintf(w, "V[0x%02X] = 0x%02X%s", i, value, separator); err != nil {
			return fmt.Errorf("writing register V%X: %w", i, err)
		}
	}
	return nil
}

// WriteReport writes the full diagnostic report: registers, the
// framebuffer as text and a disassembly of the complete memory.
func (s Snapshot) WriteReport(w io.Writer) error {
	if err := s.WriteRegisters(w); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if err := render.Text(w, s.Framebuffer, s.Width, s.Height, render.DefaultOptions()); err != nil {
		return fmt.Errorf("writing framebuffer: %w", err)
	}

	if _, err := fmt.Fprintf(w, "\nMemory dump\n%s\n", separatorLine); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if err := disasm.WriteDump(w, s.Memory[:], 0); err != nil {
		return fmt.Errorf("writing memory dump: %w", err)
	}
	return nil
}

const separatorLine = "--------------------------------------------------------------------------------"

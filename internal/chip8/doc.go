// Package chip8 implements the CHIP-8 and Super-CHIP-8 virtual machine core.
//
// # Machine Overview
//
// The machine is a single sequential state machine advanced by its caller:
//   - Step executes exactly one instruction
//   - Tick decrements the delay and sound timers, meant to be called at 60 Hz
//   - UpdateKey sets the state of one of the 16 keypad keys
//
// There is no internal concurrency and no operation blocks. The wait for key
// instruction (FX0A) polls the keypad and leaves the program counter
// unchanged until a key is pressed, so it is re-executed by the next Step.
//
// # Memory Layout
//
// The machine has 4KB of memory (0x000-0xFFF):
//   - 0x000-0x04F: 16 low resolution 4x5 font glyphs (FontAddress)
//   - 0x050-0x0EF: 16 high resolution 8x10 font glyphs (HighResFontAddress)
//   - 0x200-0xFFF: loaded program image and work RAM (ProgramStart)
//
// # Display
//
// The framebuffer holds one byte per pixel, either PixelOff or PixelOn, and is
// sized for the 128x64 extended mode. In standard mode only the first 64x32
// cells are addressed. Dimensions returns the active resolution.
//
// # Faults
//
// An opcode that matches no decode rule makes Step return a *Fault carrying
// a Snapshot of the machine. The snapshot can write a diagnostic report with
// the register file, the framebuffer as text and a disassembly of memory.
package chip8

package chip8

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/retroenv/retrogolib/log"
)

// CHIP-8 machine layout constants.
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 0x1000

	// ProgramStart is the memory address where programs are loaded and
	// execution begins.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program image that fits into memory.
	MaxProgramSize = MemorySize - ProgramStart

	// FontAddress is the memory address of the low resolution font.
	FontAddress = 0x000

	// HighResFontAddress is the memory address of the high resolution font.
	HighResFontAddress = 0x050

	RegisterCount = 16
	StackSize     = 16
	KeyCount      = 16
	UserFlagCount = 8

	LowResWidth   = 64
	LowResHeight  = 32
	HighResWidth  = 128
	HighResHeight = 64

	// PixelOff and PixelOn are the only values a framebuffer cell holds.
	PixelOff = 0x00
	PixelOn  = 0xFF
)

// flagRegister is the register used as carry, borrow and collision flag.
const flagRegister = 0xF

// ErrProgramTooLarge is returned when a program image does not fit into
// the memory available after ProgramStart.
var ErrProgramTooLarge = errors.New("program too large")

// Machine is a CHIP-8 virtual machine instance that owns all its state.
type Machine struct {
	memory      [MemorySize]byte
	framebuffer [HighResWidth * HighResHeight]byte

	v     [RegisterCount]uint8
	i     uint16
	pc    uint16
	stack [StackSize]uint16
	sp    uint8 // empty at StackSize, grows downwards

	delayTimer uint8
	soundTimer uint8

	keys      [KeyCount]bool
	userFlags [UserFlagCount]uint8
	extended  bool
	drawFlag  bool

	noOverdraw bool
	random     func() uint8
	logger     *log.Logger
}

// Option configures a Machine at construction.
type Option func(*Machine)

// WithNoOverdraw enables redraw suppression for sprite draws that did not
// erase any pixel.
func WithNoOverdraw(enabled bool) Option {
	return func(m *Machine) {
		m.noOverdraw = enabled
	}
}

// WithRandom sets the byte source used by the random number instruction.
func WithRandom(random func() uint8) Option {
	return func(m *Machine) {
		if random != nil {
			m.random = random
		}
	}
}

// WithLogger sets a logger that receives debug messages about mode
// switches and faults.
func WithLogger(logger *log.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// New returns a freshly initialized machine with the fonts loaded.
func New(opts ...Option) *Machine {
	m := &Machine{
		random: func() uint8 {
			return uint8(rand.Uint32())
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.Reset()
	return m
}

// Reset returns the machine to its initial state. Options set at
// construction and the user flags are kept, the loaded program is discarded.
func (m *Machine) Reset() {
	m.memory = [MemorySize]byte{}
	copy(m.memory[FontAddress:], lowResFont[:])
	copy(m.memory[HighResFontAddress:], highResFont[:])

	m.framebuffer = [HighResWidth * HighResHeight]byte{}
	m.v = [RegisterCount]uint8{}
	m.i = 0
	m.pc = ProgramStart
	m.stack = [StackSize]uint16{}
	m.sp = StackSize
	m.delayTimer = 0
	m.soundTimer = 0
	m.keys = [KeyCount]bool{}
	m.extended = false
	m.drawFlag = true
}

// LoadProgram reads a raw program image and copies it to ProgramStart.
// On error the machine state is left unchanged.
func (m *Machine) LoadProgram(r io.Reader) error {
	data, err := io.ReadAll(io.LimitReader(r, MaxProgramSize+1))
	if err != nil {
		return fmt.Errorf("reading program: %w", err)
	}
	return m.LoadProgramBytes(data)
}

// LoadProgramBytes copies a raw program image to ProgramStart, overwriting
// any previously loaded program.
func (m *Machine) LoadProgramBytes(data []byte) error {
	if len(data) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrProgramTooLarge, len(data), MaxProgramSize)
	}

	n := copy(m.memory[ProgramStart:], data)
	clear(m.memory[ProgramStart+n:])
	return nil
}

// Tick decrements the delay and sound timers, each floored at zero.
func (m *Machine) Tick() {
	if m.delayTimer > 0 {
		m.delayTimer--
	}
	if m.soundTimer > 0 {
		m.soundTimer--
	}
}

// UpdateKey sets the pressed state of a keypad key 0x0-0xF. Keys outside
// of the keypad are ignored.
func (m *Machine) UpdateKey(key uint8, pressed bool) {
	if key >= KeyCount {
		return
	}
	m.keys[key] = pressed
}

// Key returns whether the keypad key is pressed, false for keys outside
// of the keypad.
func (m *Machine) Key(key uint8) bool {
	if key >= KeyCount {
		return false
	}
	return m.keys[key]
}

// ReleaseKeys releases all keypad keys.
func (m *Machine) ReleaseKeys() {
	m.keys = [KeyCount]bool{}
}

// Framebuffer returns the cells of the active resolution in row-major order.
// The returned slice aliases the machine state and must not be modified.
func (m *Machine) Framebuffer() []byte {
	width, height := m.Dimensions()
	return m.framebuffer[:width*height]
}

// Dimensions returns the width and height of the active resolution.
func (m *Machine) Dimensions() (int, int) {
	if m.extended {
		return HighResWidth, HighResHeight
	}
	return LowResWidth, LowResHeight
}

// Pixel returns whether the pixel at the given position is on.
// Coordinates wrap around the active resolution.
func (m *Machine) Pixel(x, y int) bool {
	width, height := m.Dimensions()
	x = ((x % width) + width) % width
	y = ((y % height) + height) % height
	return m.framebuffer[y*width+x] == PixelOn
}

// DrawFlag returns whether the framebuffer changed since the last
// ClearDrawFlag call.
func (m *Machine) DrawFlag() bool {
	return m.drawFlag
}

// ClearDrawFlag marks the framebuffer as consumed by the renderer.
func (m *Machine) ClearDrawFlag() {
	m.drawFlag = false
}

// SoundTimer returns the current sound timer value.
func (m *Machine) SoundTimer() uint8 {
	return m.soundTimer
}

// SoundActive returns whether a tone should be played.
func (m *Machine) SoundActive() bool {
	return m.soundTimer > 0
}

// DelayTimer returns the current delay timer value.
func (m *Machine) DelayTimer() uint8 {
	return m.delayTimer
}

// PC returns the program counter.
func (m *Machine) PC() uint16 {
	return m.pc
}

// I returns the index register.
func (m *Machine) I() uint16 {
	return m.i
}

// SP returns the stack pointer. It equals StackSize when the stack is empty.
func (m *Machine) SP() uint8 {
	return m.sp
}

// V returns the general purpose register x, 0x0-0xF.
func (m *Machine) V(x int) uint8 {
	return m.v[x&0x0F]
}

// SetV sets the general purpose register x, 0x0-0xF.
func (m *Machine) SetV(x int, value uint8) {
	m.v[x&0x0F] = value
}

// UserFlag returns one of the 8 persistent user flag bytes.
func (m *Machine) UserFlag(index int) uint8 {
	return m.userFlags[index&(UserFlagCount-1)]
}

// Extended returns whether the high resolution mode is enabled.
func (m *Machine) Extended() bool {
	return m.extended
}

// Memory returns the byte at the given address, wrapped to the memory size.
func (m *Machine) Memory(address uint16) byte {
	return m.read(address)
}

// Opcode returns the opcode at the program counter.
func (m *Machine) Opcode() uint16 {
	return decodeOpcode(m.read(m.pc), m.read(m.pc+1))
}

func (m *Machine) read(address uint16) byte {
	return m.memory[address&(MemorySize-1)]
}

func (m *Machine) write(address uint16, value byte) {
	m.memory[address&(MemorySize-1)] = value
}

func (m *Machine) push(address uint16) {
	m.sp--
	m.stack[m.sp&(StackSize-1)] = address
}

func (m *Machine) pop() uint16 {
	address := m.stack[m.sp&(StackSize-1)]
	m.sp++
	return address
}

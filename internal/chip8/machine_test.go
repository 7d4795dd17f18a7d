package chip8

import (
	"bytes"
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// newMachine returns a machine with the given opcodes loaded at ProgramStart.
func newMachine(t *testing.T, opcodes ...uint16) *Machine {
	t.Helper()

	m := New()
	assert.NoError(t, m.LoadProgramBytes(program(opcodes...)))
	return m
}

// program encodes opcodes as big-endian bytes.
func program(opcodes ...uint16) []byte {
	data := make([]byte, 0, len(opcodes)*opcodeSize)
	for _, op := range opcodes {
		data = append(data, byte(op>>8), byte(op))
	}
	return data
}

// memset writes opcodes directly to memory at the given address.
func memset(m *Machine, address uint16, opcodes ...uint16) {
	for i, b := range program(opcodes...) {
		m.write(address+uint16(i), b)
	}
}

// steps executes n instructions and fails on any error.
func steps(t *testing.T, m *Machine, n int) {
	t.Helper()

	for range n {
		assert.NoError(t, m.Step())
	}
}

func TestNew(t *testing.T) {
	m := New()

	assert.Equal(t, uint16(ProgramStart), m.PC())
	assert.Equal(t, uint8(StackSize), m.SP())
	assert.Equal(t, uint16(0), m.I())
	assert.True(t, m.DrawFlag())
	assert.False(t, m.Extended())

	width, height := m.Dimensions()
	assert.Equal(t, LowResWidth, width)
	assert.Equal(t, LowResHeight, height)
	assert.Equal(t, LowResWidth*LowResHeight, len(m.Framebuffer()))

	for i := range RegisterCount {
		assert.Equal(t, uint8(0), m.V(i))
	}

	// font data
	assert.Equal(t, byte(0xF0), m.Memory(FontAddress))
	assert.Equal(t, byte(0x80), m.Memory(uint16(FontAddress+len(lowResFont)-1)))
	assert.Equal(t, byte(0x3C), m.Memory(HighResFontAddress))
	assert.Equal(t, byte(0xC0), m.Memory(uint16(HighResFontAddress+len(highResFont)-1)))
	assert.Equal(t, byte(0), m.Memory(uint16(HighResFontAddress+len(highResFont))))
}

func TestGlyphAddress(t *testing.T) {
	assert.Equal(t, uint16(0x000), GlyphAddress(0))
	assert.Equal(t, uint16(0x00F), GlyphAddress(3))
	assert.Equal(t, uint16(0x04B), GlyphAddress(0xF))
	assert.Equal(t, uint16(0x050), HighResGlyphAddress(0))
	assert.Equal(t, uint16(0x0E6), HighResGlyphAddress(0xF))
	assert.Equal(t, uint16(0x000), GlyphAddress(0x10))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("device not ready")
}

func TestLoadProgram(t *testing.T) {
	t.Run("load from reader", func(t *testing.T) {
		m := New()
		assert.NoError(t, m.LoadProgram(bytes.NewReader([]byte{0x12, 0x04})))
		assert.Equal(t, uint16(0x1204), m.Opcode())
	})

	t.Run("read error leaves machine unchanged", func(t *testing.T) {
		m := newMachine(t, 0x6123)
		err := m.LoadProgram(failingReader{})
		assert.ErrorContains(t, err, "device not ready")
		assert.Equal(t, uint16(0x6123), m.Opcode())
	})

	t.Run("maximum size", func(t *testing.T) {
		m := New()
		data := bytes.Repeat([]byte{0xAB}, MaxProgramSize)
		assert.NoError(t, m.LoadProgram(bytes.NewReader(data)))
		assert.Equal(t, byte(0xAB), m.Memory(MemorySize-1))
	})

	t.Run("too large", func(t *testing.T) {
		m := newMachine(t, 0x6123)
		data := bytes.Repeat([]byte{0xAB}, MaxProgramSize+1)

		err := m.LoadProgram(bytes.NewReader(data))
		assert.True(t, errors.Is(err, ErrProgramTooLarge))
		err = m.LoadProgramBytes(data)
		assert.True(t, errors.Is(err, ErrProgramTooLarge))
		assert.Equal(t, uint16(0x6123), m.Opcode())
	})

	t.Run("reload clears previous program", func(t *testing.T) {
		m := newMachine(t, 0x6123, 0x6456)
		assert.NoError(t, m.LoadProgramBytes([]byte{0x12, 0x00}))
		assert.Equal(t, byte(0), m.Memory(ProgramStart+2))
		assert.Equal(t, byte(0), m.Memory(ProgramStart+3))
	})
}

func TestReset(t *testing.T) {
	m := New(WithNoOverdraw(true))
	memset(m, ProgramStart, 0x6011, 0xF075, 0x00FF)
	steps(t, m, 3)

	m.Reset()
	assert.Equal(t, uint16(ProgramStart), m.PC())
	assert.Equal(t, uint8(0), m.V(0))
	assert.Equal(t, byte(0), m.Memory(ProgramStart))
	assert.False(t, m.Extended())
	assert.True(t, m.noOverdraw)
	assert.Equal(t, uint8(0x11), m.UserFlag(0))
}

func TestTick(t *testing.T) {
	m := newMachine(t, 0x6002, 0x6101, 0xF015, 0xF118)
	steps(t, m, 4)

	assert.Equal(t, uint8(2), m.DelayTimer())
	assert.Equal(t, uint8(1), m.SoundTimer())
	assert.True(t, m.SoundActive())

	m.Tick()
	assert.Equal(t, uint8(1), m.DelayTimer())
	assert.Equal(t, uint8(0), m.SoundTimer())
	assert.False(t, m.SoundActive())

	m.Tick()
	m.Tick()
	assert.Equal(t, uint8(0), m.DelayTimer())
	assert.Equal(t, uint8(0), m.SoundTimer())
}

func TestKeys(t *testing.T) {
	m := New()
	m.UpdateKey(0xA, true)
	assert.True(t, m.Key(0xA))
	assert.False(t, m.Key(0xB))

	m.UpdateKey(0xA, false)
	assert.False(t, m.Key(0xA))

	// keys outside of the keypad are ignored
	m.UpdateKey(KeyCount, true)
	m.UpdateKey(0x1A, true)
	for key := range uint8(KeyCount) {
		assert.False(t, m.Key(key))
	}
	assert.False(t, m.Key(KeyCount))

	m.UpdateKey(3, true)
	m.ReleaseKeys()
	assert.False(t, m.Key(3))
}

func TestPixelWraps(t *testing.T) {
	m := New()
	m.framebuffer[LowResWidth+1] = PixelOn

	assert.True(t, m.Pixel(1, 1))
	assert.True(t, m.Pixel(1+LowResWidth, 1+LowResHeight))
	assert.True(t, m.Pixel(1-LowResWidth, 1))
	assert.False(t, m.Pixel(0, 0))
}

func TestNibble(t *testing.T) {
	const opcode = 0xABCD

	assert.Equal(t, uint8(0xA), Nibble(opcode, 1))
	assert.Equal(t, uint8(0xB), Nibble(opcode, 2))
	assert.Equal(t, uint8(0xC), Nibble(opcode, 3))
	assert.Equal(t, uint8(0xD), Nibble(opcode, 4))
	assert.Equal(t, uint8(0), Nibble(opcode, 5))
	assert.Equal(t, uint8(0xAB), HighByte(opcode))
	assert.Equal(t, uint8(0xCD), LowByte(opcode))
	assert.Equal(t, 0xB, X(opcode))
	assert.Equal(t, 0xC, Y(opcode))
	assert.Equal(t, uint8(0xD), N(opcode))
	assert.Equal(t, uint16(0xBCD), NNN(opcode))
}

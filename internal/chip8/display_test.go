package chip8

import (
	"fmt"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func litPixels(m *Machine) int {
	count := 0
	for _, cell := range m.Framebuffer() {
		if cell == PixelOn {
			count++
		}
	}
	return count
}

func TestClearScreen(t *testing.T) {
	m := newMachine(t, 0x00E0)
	m.framebuffer[10] = PixelOn
	m.framebuffer[len(m.framebuffer)-1] = PixelOn
	m.ClearDrawFlag()

	steps(t, m, 1)
	for _, cell := range m.framebuffer {
		assert.Equal(t, byte(PixelOff), cell)
	}
	assert.True(t, m.DrawFlag())
	assert.Equal(t, uint16(0x202), m.PC())
}

func TestDrawTwiceErases(t *testing.T) {
	m := newMachine(t, 0x6000, 0xF029, 0xD015, 0xD015)
	steps(t, m, 3)

	assert.Equal(t, uint8(0), m.V(0xF))
	assert.True(t, m.Pixel(0, 0))
	assert.True(t, m.Pixel(3, 0))
	assert.False(t, m.Pixel(4, 0))
	assert.Equal(t, 14, litPixels(m))

	steps(t, m, 1)
	assert.Equal(t, uint8(1), m.V(0xF))
	assert.Equal(t, 0, litPixels(m))
	assert.True(t, m.DrawFlag())
}

func TestDrawGlyphs(t *testing.T) {
	for digit := range uint8(16) {
		t.Run(fmt.Sprintf("digit %X", digit), func(t *testing.T) {
			m := newMachine(t, 0x6200|uint16(digit), 0xF229, 0xD015)
			steps(t, m, 3)

			for row := range lowResGlyphSize {
				line := lowResFont[int(digit)*lowResGlyphSize+row]
				for column := range 8 {
					expected := line&(0x80>>column) != 0
					assert.Equal(t, expected, m.Pixel(column, row))
				}
			}
		})
	}
}

func TestDrawHighResGlyph(t *testing.T) {
	m := newMachine(t, 0x00FF, 0x6208, 0xF230, 0xD01A)
	steps(t, m, 4)

	for row := range highResGlyphSize {
		line := highResFont[8*highResGlyphSize+row]
		for column := range 8 {
			expected := line&(0x80>>column) != 0
			assert.Equal(t, expected, m.Pixel(column, row))
		}
	}
}

func TestDrawWraps(t *testing.T) {
	m := newMachine(t, 0x603E, 0x611F, 0xA300, 0xD012)
	memset(m, 0x300, 0xFFFF)
	steps(t, m, 4)

	// x 62..69 and y 31..32 wrap around the 64x32 screen
	assert.True(t, m.Pixel(62, 31))
	assert.True(t, m.Pixel(63, 31))
	assert.True(t, m.Pixel(0, 31))
	assert.True(t, m.Pixel(5, 31))
	assert.False(t, m.Pixel(6, 31))
	assert.True(t, m.Pixel(62, 0))
	assert.True(t, m.Pixel(5, 0))
	assert.Equal(t, 16, litPixels(m))
}

func TestDrawLargeSprites(t *testing.T) {
	t.Run("standard mode 8x16", func(t *testing.T) {
		m := newMachine(t, 0xA300, 0xD010)
		for i := range uint16(32) {
			m.write(0x300+i, 0xFF)
		}
		steps(t, m, 2)

		assert.True(t, m.Pixel(7, 15))
		assert.False(t, m.Pixel(8, 0))
		assert.False(t, m.Pixel(0, 16))
		assert.Equal(t, 8*16, litPixels(m))
	})

	t.Run("extended mode 16x16", func(t *testing.T) {
		m := newMachine(t, 0x00FF, 0xA300, 0xD010)
		for i := range uint16(32) {
			m.write(0x300+i, 0xFF)
		}
		steps(t, m, 3)

		assert.True(t, m.Pixel(15, 15))
		assert.False(t, m.Pixel(16, 0))
		assert.False(t, m.Pixel(0, 16))
		assert.Equal(t, 16*16, litPixels(m))
	})
}

func TestNoOverdraw(t *testing.T) {
	m := New(WithNoOverdraw(true))
	assert.NoError(t, m.LoadProgramBytes(program(0x6000, 0xF029, 0xD015, 0xD015)))
	steps(t, m, 2)
	m.ClearDrawFlag()

	steps(t, m, 1)
	assert.False(t, m.DrawFlag())
	assert.Equal(t, 14, litPixels(m))

	steps(t, m, 1)
	assert.True(t, m.DrawFlag())
	assert.Equal(t, 0, litPixels(m))
}

func TestResolutionMode(t *testing.T) {
	m := newMachine(t, 0x00FF, 0x00FE)
	m.framebuffer[0] = PixelOn
	m.ClearDrawFlag()

	steps(t, m, 1)
	assert.True(t, m.Extended())
	width, height := m.Dimensions()
	assert.Equal(t, HighResWidth, width)
	assert.Equal(t, HighResHeight, height)
	assert.Equal(t, HighResWidth*HighResHeight, len(m.Framebuffer()))
	assert.Equal(t, 0, litPixels(m))
	assert.True(t, m.DrawFlag())

	steps(t, m, 1)
	assert.False(t, m.Extended())
	width, height = m.Dimensions()
	assert.Equal(t, LowResWidth, width)
	assert.Equal(t, LowResHeight, height)
}

func TestScroll(t *testing.T) {
	tests := []struct {
		name     string
		opcodes  []uint16
		from     [2]int
		to       [2]int
		extended bool
	}{
		{"down standard", []uint16{0x00C3}, [2]int{5, 0}, [2]int{5, 3}, false},
		{"down extended", []uint16{0x00FF, 0x00C4}, [2]int{5, 60}, [2]int{5, 64}, true},
		{"right standard", []uint16{0x00FB}, [2]int{0, 1}, [2]int{2, 1}, false},
		{"right extended", []uint16{0x00FF, 0x00FB}, [2]int{0, 1}, [2]int{4, 1}, true},
		{"left standard", []uint16{0x00FC}, [2]int{10, 1}, [2]int{8, 1}, false},
		{"left extended", []uint16{0x00FF, 0x00FC}, [2]int{10, 1}, [2]int{6, 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMachine(t, tt.opcodes...)
			steps(t, m, len(tt.opcodes)-1)

			width, height := m.Dimensions()
			m.framebuffer[tt.from[1]*width+tt.from[0]] = PixelOn
			m.ClearDrawFlag()
			steps(t, m, 1)

			assert.Equal(t, tt.extended, m.Extended())
			assert.True(t, m.DrawFlag())
			if tt.to[1] < height {
				assert.True(t, m.Pixel(tt.to[0], tt.to[1]))
				assert.Equal(t, 1, litPixels(m))
			} else {
				// scrolled off the screen
				assert.Equal(t, 0, litPixels(m))
			}
		})
	}
}

func TestScrollEdges(t *testing.T) {
	t.Run("right drops last columns", func(t *testing.T) {
		m := newMachine(t, 0x00FB)
		m.framebuffer[LowResWidth-1] = PixelOn
		steps(t, m, 1)
		assert.Equal(t, 0, litPixels(m))
	})

	t.Run("left drops first columns", func(t *testing.T) {
		m := newMachine(t, 0x00FC)
		m.framebuffer[LowResWidth+1] = PixelOn
		steps(t, m, 1)
		assert.Equal(t, 0, litPixels(m))
	})

	t.Run("down more rows than the screen", func(t *testing.T) {
		m := newMachine(t, 0x00FF, 0x00CF)
		steps(t, m, 1)
		for i := range HighResWidth * 16 {
			m.framebuffer[i] = PixelOn
		}
		steps(t, m, 1)
		assert.False(t, m.Pixel(0, 0))
		assert.True(t, m.Pixel(0, 15))
		assert.True(t, m.Pixel(0, 30))
		assert.False(t, m.Pixel(0, 31))
	})
}

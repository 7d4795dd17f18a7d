package chip8

import (
	"github.com/retroenv/retrogolib/log"
)

// Horizontal scroll distances in pixels.
const (
	lowResScrollPixels  = 2
	highResScrollPixels = 4
)

// screen returns the framebuffer cells of the active resolution.
func (m *Machine) screen() ([]byte, int, int) {
	width, height := m.Dimensions()
	return m.framebuffer[:width*height], width, height
}

func (m *Machine) clearScreen() {
	clear(m.framebuffer[:])
	m.drawFlag = true
}

// setExtended switches between standard and high resolution mode.
// The framebuffer is cleared as the cell addressing changes.
func (m *Machine) setExtended(enabled bool) {
	if m.extended != enabled && m.logger != nil {
		width, height := LowResWidth, LowResHeight
		if enabled {
			width, height = HighResWidth, HighResHeight
		}
		m.logger.Debug("Switching resolution mode",
			log.Int("width", width),
			log.Int("height", height),
			log.Hex("pc", m.pc))
	}
	m.extended = enabled
	m.clearScreen()
}

// scrollDown moves the screen content down by n rows and clears the
// vacated rows at the top.
func (m *Machine) scrollDown(n int) {
	screen, width, height := m.screen()
	n = min(n, height)

	copy(screen[n*width:], screen[:(height-n)*width])
	clear(screen[:n*width])
	m.drawFlag = true
}

// scrollRight moves every row right by the mode dependent distance.
func (m *Machine) scrollRight() {
	screen, width, height := m.screen()
	shift := m.scrollDistance()

	for y := range height {
		row := screen[y*width : (y+1)*width]
		copy(row[shift:], row[:width-shift])
		clear(row[:shift])
	}
	m.drawFlag = true
}

// scrollLeft moves every row left by the mode dependent distance.
func (m *Machine) scrollLeft() {
	screen, width, height := m.screen()
	shift := m.scrollDistance()

	for y := range height {
		row := screen[y*width : (y+1)*width]
		copy(row, row[shift:])
		clear(row[width-shift:])
	}
	m.drawFlag = true
}

func (m *Machine) scrollDistance() int {
	if m.extended {
		return highResScrollPixels
	}
	return lowResScrollPixels
}

// drawSprite XOR-draws a sprite from memory at the index register to the
// position held by registers X and Y. Sprites are 8 pixels wide and N rows
// high. N=0 draws a 16 row sprite, 16 pixels wide in extended mode.
// Coordinates wrap around the active resolution. The flag register is set
// if any pixel was erased.
func (m *Machine) drawSprite(opcode uint16) {
	screen, width, height := m.screen()
	originX := int(m.v[X(opcode)])
	originY := int(m.v[Y(opcode)])

	rows, columns := int(N(opcode)), 8
	if rows == 0 {
		rows = 16
		if m.extended {
			columns = 16
		}
	}
	bytesPerRow := uint16(columns / 8)

	collision := false
	for row := range rows {
		address := m.i + uint16(row)*bytesPerRow
		line := uint16(m.read(address)) << 8
		if bytesPerRow == 2 {
			line |= uint16(m.read(address + 1))
		}

		for column := range columns {
			if line&(0x8000>>column) == 0 {
				continue
			}

			x := (originX + column) % width
			y := (originY + row) % height
			cell := &screen[y*width+x]
			if *cell == PixelOn {
				*cell = PixelOff
				collision = true
			} else {
				*cell = PixelOn
			}
		}
	}

	m.v[flagRegister] = boolToFlag(collision)
	if !m.noOverdraw || collision {
		m.drawFlag = true
	}
}

package chip8

// Step fetches, decodes and executes the instruction at the program counter.
// An opcode that matches no decode rule returns a *Fault and leaves the
// machine state unchanged.
func (m *Machine) Step() error {
	opcode := m.Opcode()

	var ok bool
	switch Nibble(opcode, 1) {
	case 0x0:
		ok = m.executeSystem(opcode)
	case 0x1:
		m.pc = NNN(opcode)
		ok = true
	case 0x2:
		m.push(m.pc)
		m.pc = NNN(opcode)
		ok = true
	case 0x3:
		m.skipIf(m.v[X(opcode)] == LowByte(opcode))
		ok = true
	case 0x4:
		m.skipIf(m.v[X(opcode)] != LowByte(opcode))
		ok = true
	case 0x5:
		if ok = N(opcode) == 0; ok {
			m.skipIf(m.v[X(opcode)] == m.v[Y(opcode)])
		}
	case 0x6:
		m.v[X(opcode)] = LowByte(opcode)
		m.pc += opcodeSize
		ok = true
	case 0x7:
		m.v[X(opcode)] += LowByte(opcode)
		m.pc += opcodeSize
		ok = true
	case 0x8:
		if ok = m.executeArithmetic(opcode); ok {
			m.pc += opcodeSize
		}
	case 0x9:
		if ok = N(opcode) == 0; ok {
			m.skipIf(m.v[X(opcode)] != m.v[Y(opcode)])
		}
	case 0xA:
		m.i = NNN(opcode)
		m.pc += opcodeSize
		ok = true
	case 0xB:
		m.pc = (NNN(opcode) + uint16(m.v[0])) & (MemorySize - 1)
		ok = true
	case 0xC:
		m.v[X(opcode)] = LowByte(opcode) & m.random()
		m.pc += opcodeSize
		ok = true
	case 0xD:
		m.drawSprite(opcode)
		m.pc += opcodeSize
		ok = true
	case 0xE:
		ok = m.executeKey(opcode)
	case 0xF:
		ok = m.executeMisc(opcode)
	}

	if !ok {
		return m.fault(opcode)
	}
	return nil
}

// skipIf advances the program counter past the next instruction if the
// condition is true, otherwise to the next instruction.
func (m *Machine) skipIf(condition bool) {
	if condition {
		m.pc += 2 * opcodeSize
		return
	}
	m.pc += opcodeSize
}

// executeSystem handles the 0x0 opcode family.
func (m *Machine) executeSystem(opcode uint16) bool {
	switch {
	case opcode == 0x00E0:
		m.clearScreen()
	case opcode == 0x00EE:
		m.pc = m.pop() + opcodeSize
		return true
	case opcode&0xFFF0 == 0x00C0:
		m.scrollDown(int(N(opcode)))
	case opcode == 0x00FB:
		m.scrollRight()
	case opcode == 0x00FC:
		m.scrollLeft()
	case opcode == 0x00FE:
		m.setExtended(false)
	case opcode == 0x00FF:
		m.setExtended(true)
	default:
		return false
	}

	m.pc += opcodeSize
	return true
}

// executeArithmetic handles the 0x8 register to register opcode family.
// The flag register is written after the result so that it holds the flag
// when used as destination.
func (m *Machine) executeArithmetic(opcode uint16) bool {
	x, y := X(opcode), Y(opcode)
	vx, vy := m.v[x], m.v[y]

	switch N(opcode) {
	case 0x0:
		m.v[x] = vy
	case 0x1:
		m.v[x] = vx | vy
	case 0x2:
		m.v[x] = vx & vy
	case 0x3:
		m.v[x] = vx ^ vy
	case 0x4:
		sum := uint16(vx) + uint16(vy)
		m.v[x] = uint8(sum)
		m.v[flagRegister] = boolToFlag(sum > 0xFF)
	case 0x5:
		m.v[x] = vx - vy
		m.v[flagRegister] = boolToFlag(vx >= vy)
	case 0x6:
		m.v[x] = vx >> 1
		m.v[flagRegister] = vx & 0x01
	case 0x7:
		m.v[x] = vy - vx
		m.v[flagRegister] = boolToFlag(vy >= vx)
	case 0xE:
		m.v[x] = vx << 1
		m.v[flagRegister] = vx >> 7
	default:
		return false
	}
	return true
}

// executeKey handles the 0xE keypad skip opcode family.
func (m *Machine) executeKey(opcode uint16) bool {
	pressed := m.keys[m.v[X(opcode)]&0x0F]

	switch LowByte(opcode) {
	case 0x9E:
		m.skipIf(pressed)
	case 0xA1:
		m.skipIf(!pressed)
	default:
		return false
	}
	return true
}

// executeMisc handles the 0xF timer, index and memory opcode family.
func (m *Machine) executeMisc(opcode uint16) bool {
	x := X(opcode)

	switch LowByte(opcode) {
	case 0x07:
		m.v[x] = m.delayTimer
	case 0x0A:
		return m.waitForKey(x)
	case 0x15:
		m.delayTimer = m.v[x]
	case 0x18:
		m.soundTimer = m.v[x]
	case 0x1E:
		sum := uint32(m.i) + uint32(m.v[x])
		m.i = uint16(sum)
		m.v[flagRegister] = boolToFlag(sum > 0xFFFF)
	case 0x29:
		m.i = GlyphAddress(m.v[x])
	case 0x30:
		m.i = HighResGlyphAddress(m.v[x])
	case 0x33:
		value := m.v[x]
		m.write(m.i, value/100)
		m.write(m.i+1, (value/10)%10)
		m.write(m.i+2, value%10)
	case 0x55:
		for reg := 0; reg <= x; reg++ {
			m.write(m.i+uint16(reg), m.v[reg])
		}
		m.advanceIndex(x)
	case 0x65:
		for reg := 0; reg <= x; reg++ {
			m.v[reg] = m.read(m.i + uint16(reg))
		}
		m.advanceIndex(x)
	case 0x75:
		for reg := 0; reg <= min(x, UserFlagCount-1); reg++ {
			m.userFlags[reg] = m.v[reg]
		}
	case 0x85:
		for reg := 0; reg <= min(x, UserFlagCount-1); reg++ {
			m.v[reg] = m.userFlags[reg]
		}
	default:
		return false
	}

	m.pc += opcodeSize
	return true
}

// waitForKey stores the lowest pressed key in register x and advances the
// program counter. Without a pressed key the instruction is repeated by
// the next step.
func (m *Machine) waitForKey(x int) bool {
	for key, pressed := range m.keys {
		if pressed {
			m.v[x] = uint8(key)
			m.pc += opcodeSize
			return true
		}
	}
	return true
}

// advanceIndex moves the index register past the registers transferred by
// a bulk load or store. The increment only happens in standard mode.
func (m *Machine) advanceIndex(x int) {
	if m.extended {
		return
	}
	m.i += uint16(x) + 1
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

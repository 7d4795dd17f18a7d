package disasm

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrogolib/set"
)

// opcodeSize is the size of CHIP-8 instructions in bytes.
const opcodeSize = 2

// Line is one two byte word of a fixed stride disassembly.
type Line struct {
	Address     uint16
	Opcode      uint16
	Instruction Instruction
	Valid       bool // Instruction holds a decoded opcode
	Size        int  // 1 for a trailing odd byte, otherwise 2
}

// String returns the line as "ADDR: OPCODE  mnemonic".
func (l Line) String() string {
	if !l.Valid {
		return fmt.Sprintf("%04X: %04X", l.Address, l.Opcode)
	}
	return fmt.Sprintf("%04X: %04X  %s", l.Address, l.Opcode, l.Instruction)
}

// Lines disassembles data with a fixed stride of two bytes, assuming that
// data starts at the given base address. A trailing odd byte is returned
// as the high byte of an undecoded line.
func Lines(data []byte, base uint16) []Line {
	lines := make([]Line, 0, (len(data)+1)/opcodeSize)
	for offset := 0; offset < len(data); offset += opcodeSize {
		line := Line{
			Address: base + uint16(offset),
			Opcode:  uint16(data[offset]) << 8,
			Size:    1,
		}
		if offset+1 < len(data) {
			line.Opcode |= uint16(data[offset+1])
			line.Size = opcodeSize
			line.Instruction, line.Valid = Decode(line.Opcode)
		}
		lines = append(lines, line)
	}
	return lines
}

// WriteDump writes a fixed stride disassembly of data, one line per word.
func WriteDump(w io.Writer, data []byte, base uint16) error {
	buf := bufio.NewWriter(w)
	for _, line := range Lines(data, base) {
		if _, err := fmt.Fprintln(buf, line.String()); err != nil {
			return fmt.Errorf("writing line %04X: %w", line.Address, err)
		}
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("writing dump: %w", err)
	}
	return nil
}

// Options controls the assembly listing output.
type Options struct {
	HexComments    bool // output opcode bytes as hex values in comments
	OffsetComments bool // output file offsets in comments
	ZeroBytes      bool // output the trailing zero bytes of the program
	SuperChip      bool // the program targets the Super-CHIP extensions
}

// listingWriter writes an assembly listing of a program image.
type listingWriter struct {
	w       io.Writer
	options Options
	base    uint16
	lines   []Line
	labels  set.Set[uint16]
}

// WriteListing writes an assembly listing of the program image loaded at
// base. Jump and call targets inside the program get labels.
func WriteListing(w io.Writer, program []byte, base uint16, opts Options) error {
	buf := bufio.NewWriter(w)
	lw := &listingWriter{
		w:       buf,
		options: opts,
		base:    base,
		lines:   Lines(program, base),
		labels:  set.New[uint16](),
	}
	lw.collectLabels()

	if err := lw.write(); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}

// collectLabels collects all jump and call targets that are aligned to a
// listing line.
func (lw *listingWriter) collectLabels() {
	for _, line := range lw.lines {
		if !line.Valid {
			continue
		}
		target, ok := line.Instruction.Target()
		if ok && lw.hasLine(target) {
			lw.labels.Add(target)
		}
	}
}

func (lw *listingWriter) hasLine(address uint16) bool {
	if address < lw.base || (address-lw.base)%opcodeSize != 0 {
		return false
	}
	return int(address-lw.base)/opcodeSize < len(lw.lines)
}

func (lw *listingWriter) write() error {
	system := "CHIP-8"
	if lw.options.SuperChip {
		system = "Super-CHIP-8"
	}
	if _, err := fmt.Fprintf(lw.w, "; %s ROM Disassembly\n", system); err != nil {
		return fmt.Errorf("writing header comment: %w", err)
	}
	if _, err := fmt.Fprintf(lw.w, ".org $%03X\n\n", lw.base); err != nil {
		return fmt.Errorf("writing org directive: %w", err)
	}

	end := lw.endIndex()
	for i, line := range lw.lines[:end] {
		if lw.labels.Contains(line.Address) {
			if _, err := fmt.Fprintf(lw.w, "%s:\n", labelName(line.Address)); err != nil {
				return fmt.Errorf("writing label: %w", err)
			}
		}

		if err := lw.writeLine(line, i*opcodeSize); err != nil {
			return err
		}
	}
	return nil
}

// writeLine writes either an instruction or the raw data of a line.
func (lw *listingWriter) writeLine(line Line, offset int) error {
	code := "    " + lw.formatCode(line)

	var comments []string
	if lw.options.OffsetComments {
		comments = append(comments, fmt.Sprintf("$%04X", offset))
	}
	if lw.options.HexComments && line.Valid {
		comments = append(comments, fmt.Sprintf("%02X %02X", line.Opcode>>8, line.Opcode&0xFF))
	}
	if line.Valid && line.Instruction.Extended() {
		comments = append(comments, "super-chip")
	}

	var err error
	if len(comments) == 0 {
		_, err = fmt.Fprintf(lw.w, "%s\n", code)
	} else {
		_, err = fmt.Fprintf(lw.w, "%-32s ; %s\n", code, strings.Join(comments, " "))
	}
	if err != nil {
		return fmt.Errorf("writing line %04X: %w", line.Address, err)
	}
	return nil
}

func (lw *listingWriter) formatCode(line Line) string {
	switch {
	case line.Size == 1:
		return fmt.Sprintf(".byte $%02X", line.Opcode>>8)
	case !line.Valid:
		return fmt.Sprintf(".byte $%02X, $%02X", line.Opcode>>8, line.Opcode&0xFF)
	}

	ins := line.Instruction
	if target, ok := ins.Target(); ok && lw.labels.Contains(target) {
		return ins.Name + " " + labelName(target)
	}
	return ins.String()
}

// endIndex returns the number of lines to output. Trailing zero words are
// skipped unless they are labeled or the option to keep them is set.
func (lw *listingWriter) endIndex() int {
	if lw.options.ZeroBytes {
		return len(lw.lines)
	}

	for i := len(lw.lines) - 1; i >= 0; i-- {
		line := lw.lines[i]
		if line.Opcode != 0 || lw.labels.Contains(line.Address) {
			return i + 1
		}
	}
	return 0
}

func labelName(address uint16) string {
	return fmt.Sprintf("label_%03X", address)
}

// Package options contains the program options.
package options

// Default emulation settings.
const (
	DefaultSpeed  = 600
	DefaultFrames = 60
)

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input ROM file"`
	Output string `flag:"o" usage:"output file (default: stdout)"`
	Batch  string `flag:"batch" usage:"batch process files matching pattern (e.g. *.ch8)"`
}

// Flags contains behavior options.
type Flags struct {
	System string `flag:"s" usage:"target system: chip8, schip (only changes the listing header)"`
	Disasm bool   `flag:"disasm" usage:"write an assembly listing instead of running the ROM"`
	Debug  bool   `flag:"debug" usage:"enable debug logging"`
	Quiet  bool   `flag:"q" usage:"quiet mode"`
}

// EmulatorFlags contains the options of a headless run.
type EmulatorFlags struct {
	Speed       int    `flag:"speed" usage:"instructions per second, multiple of 60"`
	Frames      int    `flag:"frames" usage:"number of 60 Hz frames to run"`
	Keys        string `flag:"keys" usage:"comma separated keys held down during the run"`
	Breakpoints string `flag:"break" usage:"comma separated hex addresses to stop at"`
	NoOverdraw  bool   `flag:"no-overdraw" usage:"only redraw when a sprite erased a pixel"`
}

// OutputFlags contains output formatting options.
type OutputFlags struct {
	NoHexComments bool   `flag:"nohexcomments" usage:"omit hex opcode bytes in comments"`
	NoOffsets     bool   `flag:"nooffsets" usage:"omit file offsets in comments"`
	ZeroBytes     bool   `flag:"z" usage:"include trailing zero bytes"`
	On            string `flag:"on" usage:"character for a set pixel"`
	Off           string `flag:"off" usage:"character for a cleared pixel"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	EmulatorFlags
	OutputFlags
}

// Emulator defines the parsed options of a machine run.
type Emulator struct {
	SuperChip   bool // the ROM targets the Super-CHIP extensions, used for the listing header
	ClockSpeed  int
	Frames      int
	Keys        []uint8  // keypad keys held down for the whole run
	Breakpoints []uint16 // addresses that stop the run
	NoOverdraw  bool
}

// NewEmulator returns a new options instance with default options.
func NewEmulator() Emulator {
	return Emulator{
		ClockSpeed: DefaultSpeed,
		Frames:     DefaultFrames,
	}
}

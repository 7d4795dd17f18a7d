// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/retrochip8/internal/keymap"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
)

// ParseFlags parses command line flags and returns program and emulator options
func ParseFlags() (options.Program, options.Emulator, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "" && opts.Batch == "") {
		return opts, options.Emulator{}, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Emulator{}, err
	}

	if opts.Batch == "" && opts.Input == "" {
		opts.Input = args[0]
	}

	emulator, err := createEmulatorOptions(opts)
	if err != nil {
		return opts, options.Emulator{}, err
	}
	return opts, emulator, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <ROM file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// createEmulatorOptions validates the emulator flags and converts them to
// emulator options.
func createEmulatorOptions(opts options.Program) (options.Emulator, error) {
	emulator := options.NewEmulator()
	emulator.ClockSpeed = opts.Speed
	emulator.Frames = opts.Frames
	emulator.NoOverdraw = opts.NoOverdraw

	if err := runner.ValidateSpeed(opts.Speed); err != nil {
		return emulator, fmt.Errorf("invalid speed option: %w", err)
	}
	if opts.Frames < 0 {
		return emulator, fmt.Errorf("invalid frames option: %d", opts.Frames)
	}

	keys, err := keymap.Parse(opts.Keys)
	if err != nil {
		return emulator, fmt.Errorf("invalid keys option: %w", err)
	}
	emulator.Keys = keys

	breakpoints, err := parseBreakpoints(opts.Breakpoints)
	if err != nil {
		return emulator, fmt.Errorf("invalid break option: %w", err)
	}
	emulator.Breakpoints = breakpoints

	return emulator, nil
}

// parseBreakpoints parses a comma separated list of hex addresses with an
// optional 0x or $ prefix.
func parseBreakpoints(s string) ([]uint16, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var addresses []uint16
	for entry := range strings.SplitSeq(s, ",") {
		entry = strings.ToLower(strings.TrimSpace(entry))
		entry = strings.TrimPrefix(entry, "0x")
		entry = strings.TrimPrefix(entry, "$")

		address, err := strconv.ParseUint(entry, 16, 12)
		if err != nil {
			return nil, fmt.Errorf("parsing address '%s': %w", entry, err)
		}
		addresses = append(addresses, uint16(address))
	}
	return addresses, nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Output, "o", "", "name of the output file, printed on console if no name given")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically output file naming, for example *.ch8")
	flags.StringVar(&opts.System, "s", "", "system variant (chip8, schip) - if not auto-detected from file extension, the variant only changes the listing header")
	flags.BoolVar(&opts.Disasm, "disasm", false, "write an assembly listing of the ROM instead of running it")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")

	flags.IntVar(&opts.Speed, "speed", options.DefaultSpeed, "emulation clock speed in instructions per second, must be a multiple of 60")
	flags.IntVar(&opts.Frames, "frames", options.DefaultFrames, "number of 60 Hz frames to run")
	flags.StringVar(&opts.Keys, "keys", "", "comma separated keys held down during the run, physical keys like q or keypad keys like 0xA")
	flags.StringVar(&opts.Breakpoints, "break", "", "comma separated hex addresses to stop execution at, for example 0x20A")
	flags.BoolVar(&opts.NoOverdraw, "no-overdraw", false, "only redraw the screen when a sprite erased a pixel")

	flags.BoolVar(&opts.NoHexComments, "nohexcomments", false, "do not output opcode bytes as hex values in comments")
	flags.BoolVar(&opts.NoOffsets, "nooffsets", false, "do not output offsets in comments")
	flags.BoolVar(&opts.ZeroBytes, "z", false, "output the trailing zero bytes of the program")
	flags.StringVar(&opts.On, "on", "█", "character for a set pixel in the screen output")
	flags.StringVar(&opts.Off, "off", "░", "character for a cleared pixel in the screen output")
}

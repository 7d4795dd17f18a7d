// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/render"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile handles the complete file processing workflow. Depending on
// the options the ROM is either disassembled or run for a number of frames.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, emulator options.Emulator) (err error) {
	variant, err := detector.New(logger).Detect(opts)
	if err != nil {
		return fmt.Errorf("detecting system: %w", err)
	}
	emulator.SuperChip = variant.SuperChip

	data, err := loader.New().Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}

	writer, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer closeWriter(writer, &err)

	if opts.Disasm {
		return writeListing(writer, data, opts, emulator)
	}
	return run(ctx, logger, writer, data, opts, emulator)
}

// closeWriter closes an output file and reports the close error unless an
// earlier error is already returned.
func closeWriter(writer io.Writer, err *error) {
	closer, ok := writer.(io.Closer)
	if !ok || writer == os.Stdout {
		return
	}
	if closeErr := closer.Close(); closeErr != nil && *err == nil {
		*err = fmt.Errorf("closing output file: %w", closeErr)
	}
}

func writeListing(writer io.Writer, data []byte, opts options.Program, emulator options.Emulator) error {
	listingOptions := disasm.Options{
		HexComments:    !opts.NoHexComments,
		OffsetComments: !opts.NoOffsets,
		ZeroBytes:      opts.ZeroBytes,
		SuperChip:      emulator.SuperChip,
	}
	if err := disasm.WriteListing(writer, data, chip8.ProgramStart, listingOptions); err != nil {
		return fmt.Errorf("disassembling: %w", err)
	}
	return nil
}

// run executes the ROM headless and writes the final screen. A breakpoint
// ends the run with the registers and screen at that point, a fault writes
// the full diagnostic report.
func run(ctx context.Context, logger *log.Logger, writer io.Writer, data []byte,
	opts options.Program, emulator options.Emulator) error {

	machine := chip8.New(config.MachineOptions(opts, emulator, logger)...)
	if err := machine.LoadProgramBytes(data); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	for _, key := range emulator.Keys {
		machine.UpdateKey(key, true)
	}

	r, err := runner.New(machine, emulator.ClockSpeed, logger)
	if err != nil {
		return fmt.Errorf("creating runner: %w", err)
	}
	for _, address := range emulator.Breakpoints {
		r.AddBreakpoint(address)
	}

	err = r.RunFrames(ctx, emulator.Frames, nil)

	var breakpoint *runner.Breakpoint
	var fault *chip8.Fault
	switch {
	case err == nil:
		logger.Info("Program executed",
			log.String("file", opts.Input),
			log.Int("frames", emulator.Frames),
			log.Int("steps", int(r.Steps())))
		return writeScreen(writer, machine, opts)

	case errors.As(err, &breakpoint):
		logger.Info("Breakpoint hit",
			log.String("file", opts.Input),
			log.Hex("pc", breakpoint.Address))
		if err := machine.Snapshot().WriteRegisters(writer); err != nil {
			return fmt.Errorf("writing registers: %w", err)
		}
		return writeScreen(writer, machine, opts)

	case errors.As(err, &fault):
		if err := fault.Snapshot.WriteReport(writer); err != nil {
			return fmt.Errorf("writing fault report: %w", err)
		}
		return fmt.Errorf("running program: %w", err)

	default:
		return fmt.Errorf("running program: %w", err)
	}
}

func writeScreen(writer io.Writer, machine *chip8.Machine, opts options.Program) error {
	renderOptions := render.DefaultOptions()
	if opts.On != "" {
		renderOptions.On = opts.On
	}
	if opts.Off != "" {
		renderOptions.Off = opts.Off
	}

	width, height := machine.Dimensions()
	if err := render.Text(writer, machine.Framebuffer(), width, height, renderOptions); err != nil {
		return fmt.Errorf("writing screen: %w", err)
	}
	return nil
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// GenerateOutputFilename generates output filename for a given input file,
// .asm for listings and .txt for the screen output of a run.
func GenerateOutputFilename(inputFile string, opts options.Program) string {
	ext := filepath.Ext(inputFile)
	base := inputFile[:len(inputFile)-len(ext)]
	if opts.Disasm {
		return base + ".asm"
	}
	return base + ".txt"
}

func createWriter(opts options.Program) (io.Writer, error) {
	if opts.Output == "" {
		return os.Stdout, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("retrochip8", log.String("version", buildinfo.Version(version, commit, date)))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Debug("Build", log.String("date", date))
	}
}

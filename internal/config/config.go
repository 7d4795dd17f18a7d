// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// MachineOptions returns the machine options for the emulator options.
// The logger is only passed on in debug mode as the machine logs nothing
// but debug messages.
func MachineOptions(opts options.Program, emulator options.Emulator, logger *log.Logger) []chip8.Option {
	machineOptions := []chip8.Option{
		chip8.WithNoOverdraw(emulator.NoOverdraw),
	}
	if opts.Debug {
		machineOptions = append(machineOptions, chip8.WithLogger(logger))
	}
	return machineOptions
}

// Package detector handles ROM variant detection.
package detector

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// Variant is the detected target of a ROM.
type Variant struct {
	System    arch.System
	SuperChip bool
}

// String returns the variant name.
func (v Variant) String() string {
	if v.SuperChip {
		return "schip"
	}
	return v.System.String()
}

// superChipNames are the accepted system option values for Super-CHIP ROMs.
var superChipNames = []string{"schip", "superchip", "super-chip", "sc8"}

// Detector handles variant detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new variant detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the ROM variant from options or file auto-detection.
// It first checks if a system is explicitly specified in options, otherwise
// the variant is detected from the input filename extension.
func (d *Detector) Detect(opts options.Program) (Variant, error) {
	name := strings.ToLower(opts.System)
	if name == "" {
		variant := d.detectFromFile(opts.Input)
		d.logger.Debug("Auto-detected system",
			log.Stringer("system", variant),
			log.String("file", opts.Input))
		return variant, nil
	}

	for _, superChip := range superChipNames {
		if name == superChip {
			return Variant{System: arch.CHIP8System, SuperChip: true}, nil
		}
	}

	system, _ := arch.SystemFromString(name)
	if system != arch.CHIP8System {
		return Variant{}, fmt.Errorf("unsupported system: %s", opts.System)
	}
	return Variant{System: system}, nil
}

// detectFromFile determines the variant based on file extension.
func (d *Detector) detectFromFile(filename string) Variant {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".sc8":
		return Variant{System: arch.CHIP8System, SuperChip: true}
	default:
		// .ch8, .c8 and .rom files as well as unknown extensions
		return Variant{System: arch.CHIP8System}
	}
}

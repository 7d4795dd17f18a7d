// Package render draws a CHIP-8 framebuffer as text.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Options controls the characters used for the text output.
type Options struct {
	On     string // character for a set pixel
	Off    string // character for a cleared pixel
	Border bool   // draw a frame around the screen
}

// DefaultOptions returns block characters with a border.
func DefaultOptions() Options {
	return Options{
		On:     "█",
		Off:    "░",
		Border: true,
	}
}

// Text writes the framebuffer of the given dimensions to w, one line per
// screen row. A cell is drawn as set if it is non zero.
func Text(w io.Writer, framebuffer []byte, width, height int, opts Options) error {
	if len(framebuffer) < width*height {
		return fmt.Errorf("framebuffer has %d cells, %dx%d needs %d",
			len(framebuffer), width, height, width*height)
	}

	buf := bufio.NewWriter(w)
	if opts.Border {
		buf.WriteString(strings.Repeat("▁", width+2))
		buf.WriteByte('\n')
	}

	for y := range height {
		if opts.Border {
			buf.WriteByte('|')
		}
		for _, cell := range framebuffer[y*width : (y+1)*width] {
			if cell != 0 {
				buf.WriteString(opts.On)
			} else {
				buf.WriteString(opts.Off)
			}
		}
		if opts.Border {
			buf.WriteByte('|')
		}
		buf.WriteByte('\n')
	}

	if opts.Border {
		buf.WriteString(strings.Repeat("▔", width+2))
		buf.WriteByte('\n')
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("writing framebuffer: %w", err)
	}
	return nil
}

// String returns the text rendering of the framebuffer, or an empty string
// if the framebuffer is smaller than the dimensions.
func String(framebuffer []byte, width, height int, opts Options) string {
	var sb strings.Builder
	if err := Text(&sb, framebuffer, width, height, opts); err != nil {
		return ""
	}
	return sb.String()
}

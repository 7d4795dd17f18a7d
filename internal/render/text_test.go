package render

import (
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestText(t *testing.T) {
	framebuffer := []byte{
		0xFF, 0x00, 0x00,
		0x00, 0x01, 0x00,
	}

	t.Run("with border", func(t *testing.T) {
		var buf strings.Builder
		assert.NoError(t, Text(&buf, framebuffer, 3, 2, DefaultOptions()))

		expected := "▁▁▁▁▁\n" +
			"|█░░|\n" +
			"|░█░|\n" +
			"▔▔▔▔▔\n"
		assert.Equal(t, expected, buf.String())
	})

	t.Run("custom characters", func(t *testing.T) {
		opts := Options{On: "#", Off: "."}
		assert.Equal(t, "#..\n.#.\n", String(framebuffer, 3, 2, opts))
	})

	t.Run("framebuffer too small", func(t *testing.T) {
		var buf strings.Builder
		err := Text(&buf, framebuffer, 4, 2, DefaultOptions())
		assert.ErrorContains(t, err, "framebuffer has 6 cells")
		assert.Equal(t, "", String(framebuffer, 4, 2, DefaultOptions()))
	})
}

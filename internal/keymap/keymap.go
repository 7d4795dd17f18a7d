// Package keymap maps keys of a physical keyboard to the CHIP-8 keypad.
package keymap

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Default maps the left block of a QWERTY keyboard to the hexadecimal
// keypad layout:
//
//	1 2 3 4      1 2 3 C
//	q w e r  ->  4 5 6 D
//	a s d f      7 8 9 E
//	z x c v      A 0 B F
var Default = map[rune]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Lookup returns the keypad key for a physical key. Letters are matched
// case insensitively.
func Lookup(r rune) (uint8, bool) {
	key, ok := Default[unicode.ToLower(r)]
	return key, ok
}

// Parse parses a comma separated list of keys. Every entry is either a
// physical key of the default mapping like "q" or a keypad key given as
// hex digit with a 0x prefix like "0xA".
func Parse(s string) ([]uint8, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var keys []uint8
	for entry := range strings.SplitSeq(s, ",") {
		entry = strings.TrimSpace(entry)

		key, err := parseKey(entry)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func parseKey(entry string) (uint8, error) {
	lower := strings.ToLower(entry)
	if hex, ok := strings.CutPrefix(lower, "0x"); ok {
		value, err := strconv.ParseUint(hex, 16, 4)
		if err != nil {
			return 0, fmt.Errorf("parsing keypad key '%s': %w", entry, err)
		}
		return uint8(value), nil
	}

	runes := []rune(entry)
	if len(runes) != 1 {
		return 0, fmt.Errorf("invalid key '%s'", entry)
	}
	key, ok := Lookup(runes[0])
	if !ok {
		return 0, fmt.Errorf("key '%s' is not mapped", entry)
	}
	return key, nil
}

// Package keypad maps the left hand block of a QWERTY keyboard onto the 16
// key hex keypad:
//
//	1 2 3 4      1 2 3 C
//	Q W E R  ->  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
package keypad

import "unicode"

var keys = map[rune]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Lookup returns the keypad key for a keyboard character, case insensitive.
func Lookup(r rune) (uint8, bool) {
	key, ok := keys[unicode.ToLower(r)]
	return key, ok
}

// Runes returns the keyboard character of every keypad key, indexed by key.
func Runes() [16]rune {
	var out [16]rune
	for r, key := range keys {
		out[key] = r
	}
	return out
}

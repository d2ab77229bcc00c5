// Package rom reads CHIP-8 program images.
package rom

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/beanboi7/chyp-8/emu/cpu"
)

const maxRomSize = cpu.MaxProgramSize

var (
	ErrROMTooLarge = fmt.Errorf("ROM too big, can't cross %d bytes", maxRomSize)
	ErrROMEmpty    = errors.New("ROM is empty")
)

// Load reads the ROM file at path.
func Load(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ROM '%s': %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("reading ROM '%s': %w", path, err)
	}
	return data, nil
}

// Read reads a whole ROM image from r and validates its size.
func Read(r io.Reader) ([]byte, error) {
	// one extra byte tells an oversized image apart from one that fits exactly
	data, err := io.ReadAll(io.LimitReader(r, maxRomSize+1))
	if err != nil {
		return nil, err
	}

	switch {
	case len(data) == 0:
		return nil, ErrROMEmpty
	case len(data) > maxRomSize:
		return nil, ErrROMTooLarge
	}
	return data, nil
}

// Words splits a ROM image into big endian instruction words. A trailing odd
// byte becomes the high byte of a final word.
func Words(data []byte) []uint16 {
	words := make([]uint16, 0, (len(data)+1)/2)
	for i := 0; i < len(data); i += 2 {
		word := uint16(data[i]) << 8
		if i+1 < len(data) {
			word |= uint16(data[i+1])
		}
		words = append(words, word)
	}
	return words
}

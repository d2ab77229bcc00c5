package cpu

const (
	MemorySize   = 4096
	ProgramStart = 0x200

	// MaxProgramSize is the room left for a program above the interpreter area.
	MaxProgramSize = MemorySize - ProgramStart

	fontStart   = 0x000
	glyphHeight = 5
)

var FontSet = [80]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the flat 4KB address space. Every accessor is bounds checked and
// reports ErrOutOfRange instead of wrapping.
type Memory [MemorySize]uint8

func (m *Memory) loadFont() {
	copy(m[fontStart:], FontSet[:])
}

// GlyphAddress returns the address of the font glyph for the low nibble of digit.
func GlyphAddress(digit uint8) uint16 {
	return fontStart + uint16(digit&0x0F)*glyphHeight
}

// Word reads the big endian instruction word at addr.
func (m *Memory) Word(addr uint16) (uint16, error) {
	if err := m.check(addr, 2); err != nil {
		return 0, err
	}
	return uint16(m[addr])<<8 | uint16(m[addr+1]), nil
}

// Slice returns n bytes starting at addr. The slice aliases memory.
func (m *Memory) Slice(addr uint16, n int) ([]uint8, error) {
	if err := m.check(addr, n); err != nil {
		return nil, err
	}
	return m[int(addr) : int(addr)+n], nil
}

// Store copies data into memory starting at addr.
func (m *Memory) Store(addr uint16, data []uint8) error {
	if err := m.check(addr, len(data)); err != nil {
		return err
	}
	copy(m[addr:], data)
	return nil
}

func (m *Memory) check(addr uint16, n int) error {
	if int(addr)+n > MemorySize {
		return &AccessError{Addr: addr, Len: n}
	}
	return nil
}

package cpu

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedOpcode = errors.New("unsupported opcode")
	ErrStackOverflow     = errors.New("call stack overflow")
	ErrEmptyStack        = errors.New("return with empty call stack")
	ErrOutOfRange        = errors.New("memory access out of range")
)

// UnsupportedOpcodeError is returned by Decode for words that match no
// instruction pattern.
type UnsupportedOpcodeError struct {
	Word uint16
}

func (e *UnsupportedOpcodeError) Error() string {
	return fmt.Sprintf("unsupported opcode %04X", e.Word)
}

func (e *UnsupportedOpcodeError) Unwrap() error {
	return ErrUnsupportedOpcode
}

// AccessError describes a memory range that does not fit into memory.
type AccessError struct {
	Addr uint16
	Len  int
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("access of %d bytes at %04X exceeds memory size %04X", e.Len, e.Addr, MemorySize)
}

func (e *AccessError) Unwrap() error {
	return ErrOutOfRange
}

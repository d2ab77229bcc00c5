// Package cpu holds the CHIP-8 register file, memory, instruction decoder and
// the execution engine that applies decoded instructions to them.
package cpu

import (
	"math/rand"

	"github.com/beanboi7/chyp-8/emu/display"
)

// Machine is everything an instruction can read or write. The system owns it
// and hands it to Execute once per step.
type Machine struct {
	State   State
	Memory  Memory
	Display *display.Display

	// Random returns the byte that RND masks with its immediate.
	Random func() uint8
}

// Options are the power on conditions of a machine.
type Options struct {
	DelayTimer uint8
	SoundTimer uint8
	Seed       int64
}

// NewMachine returns a machine with the font loaded, PC at 0x200 and a blank
// display.
func NewMachine(opts Options) *Machine {
	rnd := rand.New(rand.NewSource(opts.Seed))

	mc := &Machine{
		Display: display.New(),
		Random: func() uint8 {
			return uint8(rnd.Intn(256))
		},
	}
	mc.Reset(opts)
	return mc
}

// Reset clears memory, registers and the display and reloads the font.
// The random source is kept.
func (mc *Machine) Reset(opts Options) {
	mc.State.Reset(opts.DelayTimer, opts.SoundTimer)
	mc.Memory = Memory{}
	mc.Memory.loadFont()
	mc.Display.Clear()
	mc.Display.ClearDirty()
}

// LoadProgram writes program into memory starting at ProgramStart.
func (mc *Machine) LoadProgram(program []uint8) error {
	return mc.Memory.Store(ProgramStart, program)
}

// Fetch reads the instruction word at PC.
func (mc *Machine) Fetch() (uint16, error) {
	return mc.Memory.Word(mc.State.PC)
}

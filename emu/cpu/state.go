package cpu

const (
	NumRegisters = 16
	NumKeys      = 16
	StackSize    = 16

	// FlagRegister doubles as the carry, borrow and shift-out destination.
	FlagRegister = 0xF
)

// Stack is the bounded return address stack used by CALL and RET.
type Stack struct {
	frames [StackSize]uint16
	sp     int
}

func (s *Stack) Push(addr uint16) error {
	if s.sp == StackSize {
		return ErrStackOverflow
	}
	s.frames[s.sp] = addr
	s.sp++
	return nil
}

func (s *Stack) Pop() (uint16, error) {
	if s.sp == 0 {
		return 0, ErrEmptyStack
	}
	s.sp--
	return s.frames[s.sp], nil
}

// Depth returns the number of return addresses on the stack.
func (s *Stack) Depth() int {
	return s.sp
}

// Frames returns a copy of the active return addresses, oldest first.
func (s *Stack) Frames() []uint16 {
	out := make([]uint16, s.sp)
	copy(out, s.frames[:s.sp])
	return out
}

// State is the register file plus everything else an instruction can read or
// write apart from memory and the display.
type State struct {
	V          [NumRegisters]uint8
	I          uint16 // address register
	PC         uint16
	Stack      Stack
	DelayTimer uint8
	SoundTimer uint8
	Keys       [NumKeys]bool // true while the key is held down
	Halted     bool
}

// Reset puts the state back to power on values with the given timer values.
func (s *State) Reset(delay, sound uint8) {
	*s = State{
		PC:         ProgramStart,
		DelayTimer: delay,
		SoundTimer: sound,
	}
}

// PressedKey returns the lowest numbered key that is held down.
func (s *State) PressedKey() (uint8, bool) {
	for i, down := range s.Keys {
		if down {
			return uint8(i), true
		}
	}
	return 0, false
}

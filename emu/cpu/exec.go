package cpu

import "fmt"

// FlowKind says how the program counter moves after an instruction.
type FlowKind uint8

const (
	FlowNext FlowKind = iota // PC += 2
	FlowSkip                 // PC += 4
	FlowJump                 // PC = Target
	FlowWait                 // PC unchanged, the instruction stays pending
)

// Flow is the control flow result of executing one instruction.
type Flow struct {
	Kind   FlowKind
	Target uint16
}

var (
	next = Flow{Kind: FlowNext}
	skip = Flow{Kind: FlowSkip}
	wait = Flow{Kind: FlowWait}
)

func jump(target uint16) Flow {
	return Flow{Kind: FlowJump, Target: target}
}

func skipIf(cond bool) Flow {
	if cond {
		return skip
	}
	return next
}

// Apply returns the program counter that follows pc.
func (f Flow) Apply(pc uint16) uint16 {
	switch f.Kind {
	case FlowNext:
		return pc + 2
	case FlowSkip:
		return pc + 4
	case FlowJump:
		return f.Target
	default:
		return pc
	}
}

// Execute applies the semantics of ins to mc and returns how the program
// counter has to move. Execute never changes PC itself. When an error is
// returned the machine is left as it was.
func Execute(ins Instruction, mc *Machine) (Flow, error) {
	st := &mc.State
	vx := &st.V[ins.X]
	vy := st.V[ins.Y]

	switch ins.Op {
	case OpSys:
		return next, nil

	case OpCls:
		mc.Display.Clear()
		return next, nil

	case OpRet:
		addr, err := st.Stack.Pop()
		if err != nil {
			return next, err
		}
		return jump(addr), nil

	case OpJp:
		// a jump onto itself can never make progress
		if ins.Addr == st.PC {
			st.Halted = true
		}
		return jump(ins.Addr), nil

	case OpCall:
		if err := st.Stack.Push(st.PC + 2); err != nil {
			return next, err
		}
		return jump(ins.Addr), nil

	case OpSeImm:
		return skipIf(*vx == ins.KK), nil

	case OpSneImm:
		return skipIf(*vx != ins.KK), nil

	case OpSeReg:
		return skipIf(*vx == vy), nil

	case OpSneReg:
		return skipIf(*vx != vy), nil

	case OpLdImm:
		*vx = ins.KK
		return next, nil

	case OpAddImm:
		*vx += ins.KK
		return next, nil

	case OpLdReg:
		*vx = vy
		return next, nil

	case OpOr:
		*vx |= vy
		return next, nil

	case OpAnd:
		*vx &= vy
		return next, nil

	case OpXor:
		*vx ^= vy
		return next, nil

	// the flag is written after the result so that it wins when x is F

	case OpAddReg:
		sum := uint16(*vx) + uint16(vy)
		*vx = uint8(sum)
		st.V[FlagRegister] = boolToFlag(sum > 0xFF)
		return next, nil

	case OpSub:
		noBorrow := *vx >= vy
		*vx -= vy
		st.V[FlagRegister] = boolToFlag(noBorrow)
		return next, nil

	case OpSubn:
		noBorrow := vy >= *vx
		*vx = vy - *vx
		st.V[FlagRegister] = boolToFlag(noBorrow)
		return next, nil

	case OpShr:
		out := *vx & 0x01
		*vx >>= 1
		st.V[FlagRegister] = out
		return next, nil

	case OpShl:
		out := *vx >> 7
		*vx <<= 1
		st.V[FlagRegister] = out
		return next, nil

	case OpLdI:
		st.I = ins.Addr
		return next, nil

	case OpJpV0:
		return jump(ins.Addr + uint16(st.V[0])), nil

	case OpRnd:
		*vx = mc.Random() & ins.KK
		return next, nil

	case OpDrw:
		sprite, err := mc.Memory.Slice(st.I, int(ins.N))
		if err != nil {
			return next, fmt.Errorf("reading sprite: %w", err)
		}
		collision := mc.Display.DrawSprite(*vx, vy, sprite)
		st.V[FlagRegister] = boolToFlag(collision)
		return next, nil

	case OpSkp:
		return skipIf(st.Keys[*vx&0x0F]), nil

	case OpSknp:
		return skipIf(!st.Keys[*vx&0x0F]), nil

	case OpLdVxDT:
		*vx = st.DelayTimer
		return next, nil

	case OpLdVxK:
		// nothing happens until a key is down, see Complete
		return wait, nil

	case OpLdDTVx:
		st.DelayTimer = *vx
		return next, nil

	case OpLdSTVx:
		st.SoundTimer = *vx
		return next, nil

	case OpAddIVx:
		st.I += uint16(*vx)
		return next, nil

	case OpLdFVx:
		st.I = GlyphAddress(*vx)
		return next, nil

	case OpLdBVx:
		v := *vx
		digits := []uint8{v / 100, v / 10 % 10, v % 10}
		if err := mc.Memory.Store(st.I, digits); err != nil {
			return next, fmt.Errorf("storing BCD: %w", err)
		}
		return next, nil

	case OpStoreRegs:
		// V0 up to and including Vx
		if err := mc.Memory.Store(st.I, st.V[:int(ins.X)+1]); err != nil {
			return next, fmt.Errorf("storing registers: %w", err)
		}
		return next, nil

	case OpLoadRegs:
		block, err := mc.Memory.Slice(st.I, int(ins.X)+1)
		if err != nil {
			return next, fmt.Errorf("loading registers: %w", err)
		}
		copy(st.V[:], block)
		return next, nil
	}

	// only reachable with an Instruction that did not come from Decode
	return next, fmt.Errorf("%w: invalid op %d", ErrUnsupportedOpcode, ins.Op)
}

// Complete evaluates the completion condition of a pending instruction and
// finishes it when the condition holds.
func Complete(ins Instruction, mc *Machine) bool {
	if ins.Op != OpLdVxK {
		return true
	}

	key, ok := mc.State.PressedKey()
	if !ok {
		return false
	}
	mc.State.V[ins.X] = key
	return true
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

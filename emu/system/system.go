// Package system drives a CHIP-8 machine: it fetches, decodes and executes
// one instruction per tick, parks blocking instructions until they can
// complete, applies the error recovery policy and decays the timers in real
// time.
package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/beanboi7/chyp-8/emu/cpu"
	"github.com/beanboi7/chyp-8/emu/display"
	"github.com/beanboi7/chyp-8/emu/timer"
	"github.com/retroenv/retrogolib/log"
)

var ErrInvalidKey = errors.New("invalid key")

// Options configure a new System.
type Options struct {
	Machine cpu.Options
	Policy  Policy
	Tracer  Tracer
}

// System owns the machine and schedules its execution. It is not safe for
// concurrent use, key input and frame output happen between ticks.
type System struct {
	logger *log.Logger
	opts   Options

	mc    *cpu.Machine
	clock timer.Clock

	// the instruction the machine waits on, valid while waiting is set
	pending cpu.Instruction
	waiting bool
}

// New returns a system with a freshly powered on machine.
func New(logger *log.Logger, opts Options) *System {
	return &System{
		logger: logger,
		opts:   opts,
		mc:     cpu.NewMachine(opts.Machine),
	}
}

// Reset powers the machine back on. The loaded program is lost.
func (s *System) Reset() {
	s.mc.Reset(s.opts.Machine)
	s.clock.Reset()
	s.pending = cpu.Instruction{}
	s.waiting = false
}

// LoadROM resets the machine and copies the program to 0x200.
func (s *System) LoadROM(data []byte) error {
	s.Reset()
	if err := s.mc.LoadProgram(data); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	s.logger.Info("ROM loaded",
		log.Int("size", len(data)),
		log.Hex("start", uint16(cpu.ProgramStart)),
	)
	return nil
}

// SetKey marks key 0-F as held down or released.
func (s *System) SetKey(key uint8, down bool) error {
	if key >= cpu.NumKeys {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	s.mc.State.Keys[key] = down
	return nil
}

// SetKeys replaces the state of all keys.
func (s *System) SetKeys(keys [cpu.NumKeys]bool) {
	s.mc.State.Keys = keys
}

// Tick runs one step of the machine and then accounts elapsed wall clock
// time to the timers. A step either re-checks the pending instruction or
// fetches, decodes and executes the instruction at PC.
func (s *System) Tick(elapsed time.Duration) error {
	err := s.step()
	s.updateTimers(elapsed)
	return err
}

func (s *System) step() error {
	st := &s.mc.State
	pc := st.PC

	if s.waiting {
		ins := s.pending
		if cpu.Complete(ins, s.mc) {
			st.PC = pc + 2
			s.pending = cpu.Instruction{}
			s.waiting = false
		}
		s.trace(StepEvent{PC: pc, Word: ins.Encode(), Instruction: ins, Waiting: s.waiting})
		return nil
	}

	word, err := s.mc.Fetch()
	if err != nil {
		return s.fail(StepEvent{PC: pc}, err)
	}

	ins, err := cpu.Decode(word)
	ev := StepEvent{PC: pc, Word: word, Instruction: ins}
	if err != nil {
		return s.fail(ev, err)
	}

	flow, err := cpu.Execute(ins, s.mc)
	if err != nil {
		return s.fail(ev, err)
	}

	if ins.Blocking() {
		s.pending = ins
		s.waiting = true
	} else {
		st.PC = flow.Apply(pc)
	}

	if ins.Draws() {
		s.mc.Display.MarkDirty()
	}

	ev.Waiting = s.waiting
	s.trace(ev)
	return nil
}

// fail reports a failed step and applies the recovery policy. The machine is
// otherwise left as the instruction found it.
func (s *System) fail(ev StepEvent, cause error) error {
	err := &StepError{PC: ev.PC, Word: ev.Word, Err: cause}
	ev.Err = err

	st := &s.mc.State
	switch s.opts.Policy {
	case PolicySkip:
		st.PC = ev.PC + 2
	default:
		st.Halted = true
	}

	s.logger.Warn("Step failed",
		log.Hex("pc", ev.PC),
		log.Hex("opcode", ev.Word),
		log.String("policy", s.opts.Policy.String()),
		log.Err(cause),
	)

	s.trace(ev)
	return err
}

func (s *System) updateTimers(elapsed time.Duration) {
	steps := s.clock.Advance(elapsed)
	if steps == 0 {
		return
	}
	timer.Decrement(&s.mc.State.DelayTimer, steps)
	timer.Decrement(&s.mc.State.SoundTimer, steps)
}

func (s *System) trace(ev StepEvent) {
	if s.opts.Tracer != nil {
		s.opts.Tracer.Step(s, ev)
	}
}

// Halted reports whether the program stopped, either by jumping onto itself
// or through the halt recovery policy.
func (s *System) Halted() bool {
	return s.mc.State.Halted
}

// Waiting reports whether an instruction is pending.
func (s *System) Waiting() bool {
	return s.waiting
}

// Pending returns the instruction the system waits on.
func (s *System) Pending() (cpu.Instruction, bool) {
	return s.pending, s.waiting
}

// SoundActive reports whether the sound timer is running.
func (s *System) SoundActive() bool {
	return s.mc.State.SoundTimer > 0
}

// State returns a copy of the register file.
func (s *System) State() cpu.State {
	return s.mc.State
}

func (s *System) Display() *display.Display {
	return s.mc.Display
}

// Machine gives direct access to the machine, for tests and diagnostics.
func (s *System) Machine() *cpu.Machine {
	return s.mc
}

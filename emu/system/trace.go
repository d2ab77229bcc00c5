package system

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beanboi7/chyp-8/emu/cpu"
	"github.com/retroenv/retrogolib/log"
)

// Policy decides what happens to the program counter after a failed step.
type Policy int

const (
	// PolicyHalt sets the halted flag and leaves PC on the failing instruction.
	PolicyHalt Policy = iota
	// PolicySkip moves PC past the failing instruction and keeps running.
	PolicySkip
)

func (p Policy) String() string {
	switch p {
	case PolicySkip:
		return "skip"
	default:
		return "halt"
	}
}

// ParsePolicy parses "halt" or "skip".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "halt", "":
		return PolicyHalt, nil
	case "skip":
		return PolicySkip, nil
	default:
		return PolicyHalt, fmt.Errorf("unsupported error policy '%s'", s)
	}
}

// StepError is returned by Tick when a step could not be executed.
type StepError struct {
	PC   uint16
	Word uint16
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step at %04X (opcode %04X): %v", e.PC, e.Word, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// StepEvent describes one completed or failed tick.
type StepEvent struct {
	PC          uint16
	Word        uint16
	Instruction cpu.Instruction
	Waiting     bool  // the instruction is pending after this step
	Err         error // set when the step failed
}

// Tracer observes every step after it finished.
type Tracer interface {
	Step(sys *System, ev StepEvent)
}

// TracerFunc adapts a function to the Tracer interface.
type TracerFunc func(sys *System, ev StepEvent)

func (f TracerFunc) Step(sys *System, ev StepEvent) {
	f(sys, ev)
}

// NewLogTracer returns a tracer that writes every step to the debug log.
func NewLogTracer(logger *log.Logger) Tracer {
	return TracerFunc(func(sys *System, ev StepEvent) {
		if ev.Err != nil {
			return // already logged as a warning
		}

		st := sys.State()
		logger.Debug("Step",
			log.Hex("pc", ev.PC),
			log.Hex("opcode", ev.Word),
			log.String("instruction", ev.Instruction.String()),
			log.Hex("i", st.I),
			log.String("v", fmt.Sprintf("% X", st.V[:])),
			log.Uint8("dt", st.DelayTimer),
			log.String("waiting", strconv.FormatBool(ev.Waiting)),
		)
	})
}

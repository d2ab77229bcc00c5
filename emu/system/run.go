package system

import (
	"context"
	"fmt"
	"time"

	"github.com/beanboi7/chyp-8/emu/cpu"
	"github.com/beanboi7/chyp-8/emu/display"
	"github.com/retroenv/retrogolib/log"
)

// Frontend shows the framebuffer and reports the keypad state.
type Frontend interface {
	// Poll returns which of the 16 keys are currently held down.
	Poll() [cpu.NumKeys]bool
	// Present shows the framebuffer, it is only called when it changed.
	Present(d *display.Display) error
	// Closed reports whether the user asked to quit.
	Closed() bool
}

// RunOptions configure the frame loop.
type RunOptions struct {
	Refresh int // frames per second
	Cycles  int // ticks per frame
}

const (
	defaultRefresh = 60
	defaultCycles  = 10
)

// Run drives the system until the frontend is closed or the context is
// cancelled. Every frame the keys are polled, Cycles ticks share the real
// time that passed since the previous frame and a changed framebuffer is
// presented. A halted machine keeps its last frame on screen. Run returns the
// step error that halted the machine, if any.
func (s *System) Run(ctx context.Context, fe Frontend, opts RunOptions) error {
	if opts.Refresh <= 0 {
		opts.Refresh = defaultRefresh
	}
	if opts.Cycles <= 0 {
		opts.Cycles = defaultCycles
	}

	ticker := time.NewTicker(time.Second / time.Duration(opts.Refresh))
	defer ticker.Stop()

	s.logger.Debug("Starting frame loop",
		log.Int("refresh", opts.Refresh),
		log.Int("cycles", opts.Cycles),
	)

	var haltErr error
	stopped := s.Halted()
	last := time.Now()

	for !fe.Closed() {
		var now time.Time
		select {
		case <-ctx.Done():
			return haltErr
		case now = <-ticker.C:
		}

		elapsed := now.Sub(last)
		last = now

		s.SetKeys(fe.Poll())

		if !stopped {
			err := s.runFrame(elapsed, opts.Cycles)
			if s.Halted() {
				stopped = true
				haltErr = err
				s.logger.Info("Program halted", log.Hex("pc", s.mc.State.PC))
			}
		}

		d := s.mc.Display
		if !d.Dirty() {
			continue
		}
		if err := fe.Present(d); err != nil {
			return fmt.Errorf("presenting frame: %w", err)
		}
		d.ClearDirty()
	}

	return haltErr
}

// runFrame spreads elapsed evenly over the ticks of one frame, the last tick
// takes the rounding remainder so the timers see the whole duration.
func (s *System) runFrame(elapsed time.Duration, cycles int) error {
	share := elapsed / time.Duration(cycles)
	rest := elapsed - share*time.Duration(cycles)

	var lastErr error
	for i := range cycles {
		d := share
		if i == cycles-1 {
			d += rest
		}
		if err := s.Tick(d); err != nil {
			lastErr = err
		}
		if s.Halted() {
			// account the rest of the frame to the timers
			s.updateTimers(share * time.Duration(cycles-1-i))
			if i < cycles-1 {
				s.updateTimers(rest)
			}
			return lastErr
		}
	}
	return lastErr
}

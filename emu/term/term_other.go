//go:build !(linux || darwin || dragonfly || freebsd || netbsd || openbsd)

// Package term is a frontend that renders into the terminal it runs in. It
// needs raw terminal input and is not available on this platform.
package term

import (
	"errors"

	"github.com/beanboi7/chyp-8/emu/cpu"
	"github.com/beanboi7/chyp-8/emu/display"
)

var ErrUnsupported = errors.New("terminal frontend is not supported on this platform")

type Terminal struct{}

func New() (*Terminal, error) {
	return nil, ErrUnsupported
}

func (t *Terminal) Poll() [cpu.NumKeys]bool {
	return [cpu.NumKeys]bool{}
}

func (t *Terminal) Present(_ *display.Display) error {
	return ErrUnsupported
}

func (t *Terminal) Closed() bool {
	return true
}

func (t *Terminal) Close() error {
	return nil
}

//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

// Package term is a frontend that renders into the terminal it runs in and
// reads the keypad from raw standard input.
package term

import (
	"fmt"
	"os"
	"time"

	"github.com/beanboi7/chyp-8/emu/cpu"
	"github.com/beanboi7/chyp-8/emu/display"
	tm "github.com/buger/goterm"
	"golang.org/x/sys/unix"
)

const (
	pixelOn  = '█'
	pixelOff = ' '
)

// Terminal draws with block characters. Escape quits.
type Terminal struct {
	fd      int
	restore *unix.Termios
	buf     []byte
	keys    keyState
}

// New puts standard input into raw mode. Close must be called to restore
// the terminal.
func New() (*Terminal, error) {
	fd := int(os.Stdin.Fd())
	restore, err := enterRaw(fd)
	if err != nil {
		return nil, err
	}

	tm.Clear()
	tm.Flush()

	return &Terminal{
		fd:      fd,
		restore: restore,
		buf:     make([]byte, 64),
	}, nil
}

// Poll reads all pending input and returns the held keys.
func (t *Terminal) Poll() [cpu.NumKeys]bool {
	now := time.Now()
	for {
		n, err := unix.Read(t.fd, t.buf)
		if n <= 0 || err != nil {
			break
		}
		t.keys.feed(t.buf[:n], now)
	}
	return t.keys.held(now)
}

// Present redraws the whole framebuffer.
func (t *Terminal) Present(d *display.Display) error {
	tm.Clear()
	tm.MoveCursor(1, 1)
	if _, err := tm.Print(d.Render(pixelOn, pixelOff)); err != nil {
		return fmt.Errorf("rendering frame: %w", err)
	}
	tm.Flush()
	return nil
}

func (t *Terminal) Closed() bool {
	return t.keys.quit
}

// Close restores the terminal settings.
func (t *Terminal) Close() error {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()
	return exitRaw(t.fd, t.restore)
}

//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package term

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// enterRaw switches fd to unbuffered, non-blocking input without echo and
// returns the previous settings.
func enterRaw(fd int) (*unix.Termios, error) {
	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, fmt.Errorf("reading terminal settings: %w", err)
	}

	restore := *termios
	state := *termios

	state.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR
	state.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	state.Cflag &^= unix.CSIZE | unix.PARENB
	state.Cflag |= unix.CS8

	state.Cc[unix.VMIN] = 0
	state.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &state); err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}
	return &restore, nil
}

func exitRaw(fd int, restore *unix.Termios) error {
	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, restore); err != nil {
		return fmt.Errorf("restoring terminal settings: %w", err)
	}
	return nil
}

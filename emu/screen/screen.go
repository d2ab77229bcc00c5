// Package screen is the windowed frontend. It must run on the main thread,
// inside pixelgl.Run.
package screen

import (
	"fmt"

	"github.com/beanboi7/chyp-8/emu/cpu"
	"github.com/beanboi7/chyp-8/emu/display"
	"github.com/beanboi7/chyp-8/emu/keypad"
	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
)

const title = "Chyp8"

var buttons = map[rune]pixelgl.Button{
	'1': pixelgl.Key1, '2': pixelgl.Key2, '3': pixelgl.Key3, '4': pixelgl.Key4,
	'q': pixelgl.KeyQ, 'w': pixelgl.KeyW, 'e': pixelgl.KeyE, 'r': pixelgl.KeyR,
	'a': pixelgl.KeyA, 's': pixelgl.KeyS, 'd': pixelgl.KeyD, 'f': pixelgl.KeyF,
	'z': pixelgl.KeyZ, 'x': pixelgl.KeyX, 'c': pixelgl.KeyC, 'v': pixelgl.KeyV,
}

// Window shows the framebuffer scaled up, every CHIP-8 pixel is a
// scale x scale square.
type Window struct {
	*pixelgl.Window
	KeyMap map[uint16]pixelgl.Button

	scale float64
	imd   *imdraw.IMDraw
}

// KeyMap returns the button of every keypad key.
func KeyMap() map[uint16]pixelgl.Button {
	m := make(map[uint16]pixelgl.Button, cpu.NumKeys)
	for key, r := range keypad.Runes() {
		m[uint16(key)] = buttons[r]
	}
	return m
}

// New opens a window for a display scaled by scale.
func New(scale int) (*Window, error) {
	cfg := pixelgl.WindowConfig{
		Title:  title,
		Bounds: pixel.R(0, 0, float64(display.Width*scale), float64(display.Height*scale)),
		VSync:  true,
	}

	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}
	win.Clear(background)
	win.Update()

	return &Window{
		Window: win,
		KeyMap: KeyMap(),
		scale:  float64(scale),
		imd:    imdraw.New(nil),
	}, nil
}

// Poll processes window events and returns the held keypad keys. Escape
// closes the window.
func (w *Window) Poll() [cpu.NumKeys]bool {
	w.UpdateInput()
	if w.Pressed(pixelgl.KeyEscape) {
		w.SetClosed(true)
	}

	var keys [cpu.NumKeys]bool
	for key, btn := range w.KeyMap {
		keys[key] = w.Pressed(btn)
	}
	return keys
}

// Close destroys the window.
func (w *Window) Close() {
	w.Destroy()
}

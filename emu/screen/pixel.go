package screen

import (
	"image/color"

	"github.com/beanboi7/chyp-8/emu/display"
	"github.com/faiface/pixel"
)

var (
	background = color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xFF}
	foreground = color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}
)

// Present draws the framebuffer and swaps the window buffers.
func (w *Window) Present(d *display.Display) error {
	w.imd.Clear()
	w.imd.Color = foreground

	for y := range display.Height {
		for x := range display.Width {
			if !d.Pixel(x, y) {
				continue
			}
			w.imd.Push(pixelRect(x, y, w.scale))
			w.imd.Rectangle(0)
		}
	}

	w.Clear(background)
	w.imd.Draw(w)
	w.Update()
	return nil
}

// pixelRect returns the corners of a framebuffer pixel in window space, which
// has its origin in the bottom left corner.
func pixelRect(x, y int, scale float64) (pixel.Vec, pixel.Vec) {
	lo := pixel.V(float64(x)*scale, float64(display.Height-1-y)*scale)
	return lo, lo.Add(pixel.V(scale, scale))
}

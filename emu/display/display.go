// Package display implements the 64x32 monochrome framebuffer that sprites
// are XOR-blitted onto.
package display

import "strings"

const (
	Width  = 64
	Height = 32

	// each sprite row is one byte, most significant bit leftmost
	spriteWidth = 8
)

// Display is a 64x32 grid of single-bit pixels. Coordinates wrap around
// both edges independently for every pixel.
type Display struct {
	pixels [Height][Width]bool
	dirty  bool
}

// New returns a blank display.
func New() *Display {
	return &Display{}
}

// DrawSprite XORs the sprite rows onto the grid starting at (x, y) and reports
// whether any pixel that was set got cleared.
func (d *Display) DrawSprite(x, y byte, sprite []byte) bool {
	collision := false

	for i, row := range sprite {
		py := (int(y) + i) % Height

		var old byte
		for j := 0; j < spriteWidth; j++ {
			if d.pixels[py][(int(x)+j)%Width] {
				old |= 0x80 >> j
			}
		}

		updated := old ^ row
		if updated == old {
			continue
		}

		// a bit that was 1 and is now 0
		if old&^updated != 0 {
			collision = true
		}

		for j := 0; j < spriteWidth; j++ {
			d.pixels[py][(int(x)+j)%Width] = updated&(0x80>>j) != 0
		}
	}

	return collision
}

// Clear turns every pixel off.
func (d *Display) Clear() {
	d.pixels = [Height][Width]bool{}
}

// Pixel returns the pixel at (x, y), wrapping out of range coordinates.
func (d *Display) Pixel(x, y int) bool {
	return d.pixels[wrap(y, Height)][wrap(x, Width)]
}

// Dirty reports whether the framebuffer changed since the last ClearDirty.
func (d *Display) Dirty() bool {
	return d.dirty
}

func (d *Display) MarkDirty() {
	d.dirty = true
}

func (d *Display) ClearDirty() {
	d.dirty = false
}

// Lit returns the number of set pixels.
func (d *Display) Lit() int {
	n := 0
	for y := range d.pixels {
		for x := range d.pixels[y] {
			if d.pixels[y][x] {
				n++
			}
		}
	}
	return n
}

// Render draws the grid as text, one line per row, using on for set pixels
// and off for cleared ones.
func (d *Display) Render(on, off rune) string {
	var sb strings.Builder
	sb.Grow(Height * (Width + 1))

	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if d.pixels[y][x] {
				sb.WriteRune(on)
			} else {
				sb.WriteRune(off)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (d *Display) String() string {
	return d.Render('#', '.')
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

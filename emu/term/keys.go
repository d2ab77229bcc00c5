package term

import (
	"time"

	"github.com/beanboi7/chyp-8/emu/cpu"
	"github.com/beanboi7/chyp-8/emu/keypad"
)

const (
	// a terminal only reports key presses, a key counts as held for this
	// long after its last press or auto repeat
	keyHoldDuration = time.Second / 5

	keyEscape = 0x1b
)

type keyState struct {
	pressed [cpu.NumKeys]time.Time
	quit    bool
}

// feed processes raw input bytes read at now. A lone escape quits, escape
// sequences such as arrow keys are ignored.
func (k *keyState) feed(data []byte, now time.Time) {
	for i := 0; i < len(data); i++ {
		b := data[i]
		if b == keyEscape {
			if i+1 == len(data) {
				k.quit = true
				return
			}
			i = skipSequence(data, i+1)
			continue
		}

		if key, ok := keypad.Lookup(rune(b)); ok {
			k.pressed[key] = now
		}
	}
}

// skipSequence returns the index of the last byte of the escape sequence
// starting at data[i].
func skipSequence(data []byte, i int) int {
	if data[i] != '[' && data[i] != 'O' {
		return i
	}
	for i++; i < len(data); i++ {
		// CSI and SS3 sequences end with a byte in 0x40-0x7E
		if data[i] >= 0x40 && data[i] <= 0x7E {
			return i
		}
	}
	return len(data) - 1
}

func (k *keyState) held(now time.Time) [cpu.NumKeys]bool {
	var keys [cpu.NumKeys]bool
	for key, t := range k.pressed {
		keys[key] = !t.IsZero() && now.Sub(t) < keyHoldDuration
	}
	return keys
}

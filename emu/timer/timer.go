// Package timer turns elapsed wall clock time into 60Hz countdown steps,
// independent of how often and at which intervals it is fed.
package timer

import "time"

// Rate is the countdown frequency in Hz.
const Rate = 60

// Interval is the duration of one countdown step, rounded down to whole
// nanoseconds. Clock does not use it for accounting.
const Interval = time.Second / Rate

// Clock accumulates elapsed time and reports how many countdown steps it
// covers. The remainder is carried over to the next call.
type Clock struct {
	// elapsed time scaled by Rate, a step is due for every full second in it
	acc time.Duration
}

// Advance adds elapsed to the clock and returns the number of countdown
// steps that became due. Negative durations are ignored.
func (c *Clock) Advance(elapsed time.Duration) int {
	if elapsed <= 0 {
		return 0
	}

	c.acc += elapsed * Rate
	steps := c.acc / time.Second
	c.acc -= steps * time.Second
	return int(steps)
}

// Pending returns the time left until the next countdown step.
func (c *Clock) Pending() time.Duration {
	return (time.Second - c.acc + Rate - 1) / Rate
}

// Reset drops any accumulated time.
func (c *Clock) Reset() {
	c.acc = 0
}

// Decrement counts value down by steps, stopping at zero.
func Decrement(value *uint8, steps int) {
	if steps >= int(*value) {
		*value = 0
		return
	}
	*value -= uint8(steps)
}

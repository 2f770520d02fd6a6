package core

import "time"

// FixedStep paces simulation steps independently of the render loop.
type FixedStep struct {
	tps         int
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. Non-positive rates fall back to 60.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.tps = tps
	f.step = time.Second / time.Duration(tps)
}

// TPS returns the target tick rate.
func (f *FixedStep) TPS() int { return f.tps }

// Seconds returns the length of one step in seconds.
func (f *FixedStep) Seconds() float64 { return f.step.Seconds() }

// Steps reports how many steps are due since the previous call. At most max
// steps are returned; the remaining backlog is dropped so a stalled frame does
// not trigger a burst.
func (f *FixedStep) Steps(max int) int {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
	n := int(f.accumulator / f.step)
	f.accumulator -= time.Duration(n) * f.step
	if max > 0 && n > max {
		n = max
		f.accumulator = 0
	}
	return n
}

package room

import "time"

// Timer is a single-purpose cancelable delay owned by a Room. It carries no
// lock of its own: Arm, Cancel and Claim must all be called with the room
// mutex held. Each arming gets a generation; the callback receives it and
// must Claim it before acting, so at most one of cancel or fire takes
// effect per arming.
type Timer struct {
	t     *time.Timer
	gen   uint64
	armed bool
}

// Arm retires any previous instance and schedules fn after d.
func (t *Timer) Arm(d time.Duration, fn func(gen uint64)) {
	t.stop()
	t.gen++
	t.armed = true
	gen := t.gen
	t.t = time.AfterFunc(d, func() { fn(gen) })
}

// Cancel retires the pending instance, if any. A callback that already
// started will fail to Claim.
func (t *Timer) Cancel() {
	t.stop()
	if t.armed {
		t.gen++
		t.armed = false
	}
}

// Claim reports whether the callback for gen is still the live instance
// and, if so, disarms the timer.
func (t *Timer) Claim(gen uint64) bool {
	if !t.armed || gen != t.gen {
		return false
	}
	t.armed = false
	return true
}

func (t *Timer) Armed() bool {
	return t.armed
}

func (t *Timer) stop() {
	if t.t != nil {
		t.t.Stop()
		t.t = nil
	}
}

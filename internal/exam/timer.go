package exam

// TimerPhase is the countdown state.
type TimerPhase int

const (
	TimerIdle TimerPhase = iota
	TimerRunning
	TimerExpired
	TimerStopped
)

// Timer is the countdown state machine for one attempt. It holds no clock
// of its own: the tick scheduler (the TUI's 1-second tick, or a test loop)
// calls Tick once per period while the timer is running. Expiry is reported
// exactly once, even if stray ticks arrive after the transition.
type Timer struct {
	phase     TimerPhase
	remaining int
	total     int
}

// NewTimer returns an idle timer.
func NewTimer() *Timer {
	return &Timer{phase: TimerIdle}
}

// Start begins a fresh countdown of total seconds. Each attempt render
// restarts the full duration; remaining time is never restored from a
// previous process.
func (t *Timer) Start(total int) {
	if total < 0 {
		total = 0
	}
	t.total = total
	t.remaining = total
	t.phase = TimerRunning
}

// Tick consumes one period. Returns true exactly once, on the tick that
// drives remaining to 0. Ticks outside the Running phase are ignored.
func (t *Timer) Tick() (expired bool) {
	if t.phase != TimerRunning {
		return false
	}
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining == 0 {
		t.phase = TimerExpired
		return true
	}
	return false
}

// Stop halts the countdown without emitting expiry. Used when submission
// completes before time runs out. Callable from any state; terminal.
func (t *Timer) Stop() {
	t.phase = TimerStopped
}

// Running reports whether ticks should keep being scheduled.
func (t *Timer) Running() bool { return t.phase == TimerRunning }

// Phase returns the current state.
func (t *Timer) Phase() TimerPhase { return t.phase }

// Remaining returns the seconds left, never negative.
func (t *Timer) Remaining() int { return t.remaining }

// Total returns the duration the countdown started from.
func (t *Timer) Total() int { return t.total }

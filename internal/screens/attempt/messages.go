package attempt

import "time"

// attemptReadyMsg is sent when the attempt and its content tree finished
// loading (or failed to).
type attemptReadyMsg struct {
	err error
}

// tickMsg drives the 1-second countdown.
type tickMsg time.Time

// submitResultMsg reports the outcome of a scoring call. forced marks the
// expiry path.
type submitResultMsg struct {
	forced bool
	err    error
}

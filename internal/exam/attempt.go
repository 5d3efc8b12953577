package exam

import "time"

// Status is the attempt lifecycle state as the client tracks it.
type Status string

const (
	// StatusInProgress: the attempt is open and answers may change.
	StatusInProgress Status = "IN_PROGRESS"
	// StatusChecking: a submission is in flight; both submission paths
	// treat anything but IN_PROGRESS as "someone else got there first".
	StatusChecking Status = "CHECKING_ANSWERS"
	// StatusCompleted: the server accepted the submission. Terminal.
	StatusCompleted Status = "COMPLETED"
)

// Attempt is one instance of a user taking the assessment. Created on
// start/retry, mutated to COMPLETED only by a successful submission, never
// deleted by the client.
type Attempt struct {
	ID        int
	Status    Status
	Passed    *bool // nil until completed and scored
	CreatedAt time.Time
}

// Open reports whether the attempt still accepts answer changes.
func (a *Attempt) Open() bool {
	return a != nil && a.Status == StatusInProgress
}

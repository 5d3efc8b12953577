package exam

import (
	"context"
	"errors"

	"github.com/nmoreno/examterm/internal/api"
	"github.com/nmoreno/examterm/internal/content"
)

// SubmitPhase is the coordinator's confirmation/submission state.
type SubmitPhase int

const (
	// SubmitIdle: no submission in progress.
	SubmitIdle SubmitPhase = iota
	// SubmitConfirming: the completeness gate is showing. When Unanswered
	// is zero this is the plain "submit now?" prompt, otherwise the
	// warning naming the unanswered count.
	SubmitConfirming
	// SubmitFinalConfirm: the "this is final" gate is showing.
	SubmitFinalConfirm
	// SubmitReady: both gates accepted; the network call may run.
	SubmitReady
	// SubmitInFlight: the scoring call is pending. Reentrant calls are
	// rejected, never queued.
	SubmitInFlight
	// SubmitFailed: the last call failed recoverably; the cached payload
	// is kept so the user can retry without rebuilding.
	SubmitFailed
	// SubmitDone: the server accepted the payload. Terminal.
	SubmitDone
)

// ErrSubmitBusy is returned when a submission is requested while another is
// already pending or already succeeded.
var ErrSubmitBusy = errors.New("submission already in progress")

// Scorer is the part of the api client the coordinator needs.
type Scorer interface {
	FinishTest(ctx context.Context, testID int, details []api.AnswerDetail) (string, error)
}

// Coordinator owns the two-gate confirmation protocol and the scoring call
// for one attempt. Declining either gate aborts with no state change; only
// after both gates are accepted (or on forced submission) does the network
// call run, and only a successful call completes the attempt.
type Coordinator struct {
	client  Scorer
	attempt *Attempt
	tree    *content.Tree
	answers *AnswerStore

	phase      SubmitPhase
	payload    []api.AnswerDetail
	unanswered int
	lastErr    error
}

// NewCoordinator wires a coordinator to one attempt's state.
func NewCoordinator(client Scorer, attempt *Attempt, tree *content.Tree, answers *AnswerStore) *Coordinator {
	return &Coordinator{
		client:  client,
		attempt: attempt,
		tree:    tree,
		answers: answers,
	}
}

// Phase returns the current submission state.
func (c *Coordinator) Phase() SubmitPhase { return c.phase }

// Unanswered returns the null count of the cached payload. Meaningful from
// the completeness gate onward.
func (c *Coordinator) Unanswered() int { return c.unanswered }

// LastError returns the failure that put the coordinator in SubmitFailed.
func (c *Coordinator) LastError() error { return c.lastErr }

// Pending reports whether a scoring call is in flight.
func (c *Coordinator) Pending() bool { return c.phase == SubmitInFlight }

// Begin opens the confirmation protocol for a manual submission: builds the
// payload (one detail per question) and moves to the completeness gate.
// Rejected when the attempt has left IN_PROGRESS or a submission is already
// pending or done.
func (c *Coordinator) Begin() error {
	if !c.attempt.Open() {
		return ErrSubmitBusy
	}
	switch c.phase {
	case SubmitInFlight, SubmitDone:
		return ErrSubmitBusy
	}
	c.payload = BuildPayload(c.tree, c.answers)
	c.unanswered = UnansweredCount(c.payload)
	c.phase = SubmitConfirming
	return nil
}

// Accept passes the currently showing gate. After the completeness gate the
// final gate shows; after the final gate the coordinator is ready to submit.
func (c *Coordinator) Accept() {
	switch c.phase {
	case SubmitConfirming:
		c.phase = SubmitFinalConfirm
	case SubmitFinalConfirm:
		c.phase = SubmitReady
	}
}

// Decline aborts the protocol at either gate. Normal abort, not an error:
// nothing about the attempt changes and answers stay captured.
func (c *Coordinator) Decline() {
	switch c.phase {
	case SubmitConfirming, SubmitFinalConfirm:
		c.phase = SubmitIdle
		c.payload = nil
		c.unanswered = 0
	}
}

// Submit runs the scoring call for a payload that passed both gates, or
// retries after a recoverable failure. On success the attempt becomes
// COMPLETED; on TransportError or ValidationError it returns to IN_PROGRESS
// with the payload cached for retry.
func (c *Coordinator) Submit(ctx context.Context) error {
	if c.phase != SubmitReady && c.phase != SubmitFailed {
		return ErrSubmitBusy
	}
	return c.send(ctx)
}

// Force submits immediately, bypassing both confirmation gates. Used by the
// expiry path: the payload is built with the same BuildPayload as manual
// submission, so no captured answers are lost on timeout. Rejected when a
// submission is already pending or done.
func (c *Coordinator) Force(ctx context.Context) error {
	if !c.attempt.Open() {
		return ErrSubmitBusy
	}
	switch c.phase {
	case SubmitInFlight, SubmitDone:
		return ErrSubmitBusy
	}
	if c.payload == nil {
		c.payload = BuildPayload(c.tree, c.answers)
		c.unanswered = UnansweredCount(c.payload)
	}
	return c.send(ctx)
}

func (c *Coordinator) send(ctx context.Context) error {
	c.phase = SubmitInFlight
	c.attempt.Status = StatusChecking

	_, err := c.client.FinishTest(ctx, c.attempt.ID, c.payload)
	if err != nil {
		c.phase = SubmitFailed
		c.lastErr = err
		c.attempt.Status = StatusInProgress
		return err
	}

	c.phase = SubmitDone
	c.lastErr = nil
	c.attempt.Status = StatusCompleted
	return nil
}

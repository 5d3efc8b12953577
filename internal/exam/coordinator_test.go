package exam

import (
	"context"
	"testing"

	"github.com/nmoreno/examterm/internal/api"
)

func testCoordinator(t *testing.T, client *fakeClient) (*Coordinator, *Attempt, *AnswerStore) {
	t.Helper()
	tree := fixtureTree(t)
	attempt := &Attempt{ID: 1, Status: StatusInProgress}
	answers := NewAnswerStore()
	return NewCoordinator(client, attempt, tree, answers), attempt, answers
}

func TestCoordinator_TwoGatesThenSubmit(t *testing.T) {
	client := &fakeClient{}
	c, attempt, answers := testCoordinator(t, client)
	answers.Set(100, 1)

	if err := c.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if c.Phase() != SubmitConfirming {
		t.Fatalf("Phase = %v, want SubmitConfirming", c.Phase())
	}
	if c.Unanswered() != 3 {
		t.Errorf("Unanswered = %d, want 3", c.Unanswered())
	}

	c.Accept() // completeness gate
	if c.Phase() != SubmitFinalConfirm {
		t.Fatalf("Phase = %v, want SubmitFinalConfirm", c.Phase())
	}
	if client.finishCalls != 0 {
		t.Fatal("network call before final gate accepted")
	}

	c.Accept() // final gate
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if client.finishCalls != 1 {
		t.Errorf("finishCalls = %d, want 1", client.finishCalls)
	}
	if attempt.Status != StatusCompleted {
		t.Errorf("Status = %s, want COMPLETED", attempt.Status)
	}
	if len(client.lastDetails) != 4 {
		t.Errorf("submitted %d details, want 4", len(client.lastDetails))
	}
}

func TestCoordinator_DecliningFinalGateMakesNoCall(t *testing.T) {
	client := &fakeClient{}
	c, attempt, answers := testCoordinator(t, client)
	// All questions answered: completeness gate is the plain confirmation.
	for _, q := range []int{100, 101, 102, 103} {
		answers.Set(q, 1)
	}

	if err := c.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if c.Unanswered() != 0 {
		t.Errorf("Unanswered = %d, want 0", c.Unanswered())
	}

	c.Accept()  // completeness gate
	c.Decline() // final gate declined

	if client.finishCalls != 0 {
		t.Errorf("finishCalls = %d, want 0", client.finishCalls)
	}
	if attempt.Status != StatusInProgress {
		t.Errorf("Status = %s, want IN_PROGRESS", attempt.Status)
	}
	if c.Phase() != SubmitIdle {
		t.Errorf("Phase = %v, want SubmitIdle", c.Phase())
	}
}

func TestCoordinator_DecliningCompletenessGateAborts(t *testing.T) {
	client := &fakeClient{}
	c, attempt, _ := testCoordinator(t, client)

	if err := c.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	c.Decline()

	if c.Phase() != SubmitIdle {
		t.Errorf("Phase = %v, want SubmitIdle", c.Phase())
	}
	if attempt.Status != StatusInProgress {
		t.Errorf("Status = %s, want IN_PROGRESS", attempt.Status)
	}

	// The protocol can be reopened cleanly afterwards.
	if err := c.Begin(); err != nil {
		t.Errorf("Begin after decline: %v", err)
	}
}

func TestCoordinator_SubmitWithoutGatesRejected(t *testing.T) {
	client := &fakeClient{}
	c, _, _ := testCoordinator(t, client)

	if err := c.Submit(context.Background()); err != ErrSubmitBusy {
		t.Errorf("Submit without gates = %v, want ErrSubmitBusy", err)
	}
	if client.finishCalls != 0 {
		t.Errorf("finishCalls = %d, want 0", client.finishCalls)
	}
}

func TestCoordinator_FailureKeepsAttemptOpenAndPayloadCached(t *testing.T) {
	client := &fakeClient{finishErr: &api.TransportError{Status: 502}}
	c, attempt, answers := testCoordinator(t, client)
	answers.Set(100, 1)

	c.Begin()
	c.Accept()
	c.Accept()
	if err := c.Submit(context.Background()); err == nil {
		t.Fatal("expected submit failure")
	}

	if attempt.Status != StatusInProgress {
		t.Errorf("Status = %s, want IN_PROGRESS after failure", attempt.Status)
	}
	if c.Phase() != SubmitFailed {
		t.Errorf("Phase = %v, want SubmitFailed", c.Phase())
	}
	if answers.AnsweredCount() != 1 {
		t.Errorf("AnsweredCount = %d, want 1 (answers never cleared)", answers.AnsweredCount())
	}

	// Retry reuses the cached payload without re-running the gates.
	client.finishErr = nil
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("retry Submit: %v", err)
	}
	if client.finishCalls != 2 {
		t.Errorf("finishCalls = %d, want 2", client.finishCalls)
	}
	if attempt.Status != StatusCompleted {
		t.Errorf("Status = %s, want COMPLETED", attempt.Status)
	}
}

func TestCoordinator_ForceBypassesGates(t *testing.T) {
	client := &fakeClient{}
	c, attempt, answers := testCoordinator(t, client)
	answers.Set(100, 1)

	if err := c.Force(context.Background()); err != nil {
		t.Fatalf("Force: %v", err)
	}
	if client.finishCalls != 1 {
		t.Errorf("finishCalls = %d, want 1", client.finishCalls)
	}
	if attempt.Status != StatusCompleted {
		t.Errorf("Status = %s, want COMPLETED", attempt.Status)
	}
	if len(client.lastDetails) != 4 {
		t.Errorf("forced payload has %d details, want 4 (complete record)", len(client.lastDetails))
	}
}

func TestCoordinator_ReentrancyRejected(t *testing.T) {
	client := &fakeClient{}
	c, _, _ := testCoordinator(t, client)

	if err := c.Force(context.Background()); err != nil {
		t.Fatalf("Force: %v", err)
	}

	// Attempt is COMPLETED: every further submission entry point is a reject.
	if err := c.Begin(); err != ErrSubmitBusy {
		t.Errorf("Begin after done = %v, want ErrSubmitBusy", err)
	}
	if err := c.Force(context.Background()); err != ErrSubmitBusy {
		t.Errorf("Force after done = %v, want ErrSubmitBusy", err)
	}
	if err := c.Submit(context.Background()); err != ErrSubmitBusy {
		t.Errorf("Submit after done = %v, want ErrSubmitBusy", err)
	}
	if client.finishCalls != 1 {
		t.Errorf("finishCalls = %d, want 1", client.finishCalls)
	}
}

func TestCoordinator_ForceWhileGatesOpenWins(t *testing.T) {
	client := &fakeClient{}
	c, attempt, _ := testCoordinator(t, client)

	c.Begin() // user is staring at the completeness gate when time runs out

	if err := c.Force(context.Background()); err != nil {
		t.Fatalf("Force: %v", err)
	}
	if attempt.Status != StatusCompleted {
		t.Errorf("Status = %s, want COMPLETED", attempt.Status)
	}
}

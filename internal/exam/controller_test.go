package exam

import (
	"context"
	"errors"
	"testing"

	"github.com/nmoreno/examterm/internal/api"
	"github.com/nmoreno/examterm/internal/content"
)

func TestController_StartNew(t *testing.T) {
	client := &fakeClient{sections: fixtureSections()}
	sc := NewController(client, 60, nil)

	if err := sc.StartNew(context.Background()); err != nil {
		t.Fatalf("StartNew: %v", err)
	}

	if sc.Attempt.Status != StatusInProgress {
		t.Errorf("Status = %s, want IN_PROGRESS", sc.Attempt.Status)
	}
	if sc.Cursor.Index() != 0 {
		t.Errorf("Cursor = %d, want 0", sc.Cursor.Index())
	}
	if !sc.Timer.Running() || sc.Timer.Remaining() != 60 {
		t.Errorf("timer = running:%v remaining:%d, want running at 60", sc.Timer.Running(), sc.Timer.Remaining())
	}
	if sc.Answers.AnsweredCount() != 0 {
		t.Errorf("AnsweredCount = %d, want 0", sc.Answers.AnsweredCount())
	}
}

func TestController_StartNewUsesInlineSections(t *testing.T) {
	client := &fakeClient{
		newTestResult: &api.NewTestResult{TestID: 8, Sections: fixtureSections()},
		testDataErr:   errors.New("test-data must not be called"),
	}
	sc := NewController(client, 60, nil)

	if err := sc.StartNew(context.Background()); err != nil {
		t.Fatalf("StartNew: %v", err)
	}
	if sc.Attempt.ID != 8 {
		t.Errorf("Attempt.ID = %d, want 8", sc.Attempt.ID)
	}
}

func TestController_ResumeSeedsAnswersAndRestartsTimer(t *testing.T) {
	sections := fixtureSections()
	prev := 4
	sections[0].Titles[0].Questions[1].UserAnswerID = &prev

	client := &fakeClient{sections: sections}
	sc := NewController(client, 120, nil)

	if err := sc.Resume(context.Background(), 5); err != nil {
		t.Fatalf("Resume: %v", err)
	}

	if sc.Answers.AnsweredCount() != 1 {
		t.Errorf("AnsweredCount = %d, want 1 (seeded)", sc.Answers.AnsweredCount())
	}
	if opt, _ := sc.Answers.Get(101); opt != 4 {
		t.Errorf("seeded answer = %d, want 4", opt)
	}
	if sc.Timer.Remaining() != 120 {
		t.Errorf("Remaining = %d, want full duration 120", sc.Timer.Remaining())
	}
}

func TestController_ContentUnavailableAbortsStart(t *testing.T) {
	client := &fakeClient{sections: nil}
	sc := NewController(client, 60, nil)

	err := sc.StartNew(context.Background())
	if !errors.Is(err, content.ErrContentUnavailable) {
		t.Fatalf("err = %v, want ErrContentUnavailable", err)
	}
}

// End-to-end: 2 sections x 1 title x 2 questions, answer 3 of 4, expire the
// timer, force-submit. The payload must be complete with one null and the
// attempt COMPLETED without any gate having opened.
func TestController_ForcedSubmissionOnExpiry(t *testing.T) {
	client := &fakeClient{sections: fixtureSections()}
	sc := NewController(client, 3, nil)

	if err := sc.StartNew(context.Background()); err != nil {
		t.Fatalf("StartNew: %v", err)
	}

	sc.SetAnswer(100, 1)
	sc.SetAnswer(101, 3)
	sc.SetAnswer(102, 5)

	expired := false
	for i := 0; i < 3; i++ {
		expired = sc.HandleTick()
	}
	if !expired {
		t.Fatal("expected expiry after total ticks")
	}

	if err := sc.ForceSubmit(context.Background()); err != nil {
		t.Fatalf("ForceSubmit: %v", err)
	}

	if client.finishCalls != 1 {
		t.Fatalf("finishCalls = %d, want 1", client.finishCalls)
	}
	if len(client.lastDetails) != 4 {
		t.Fatalf("payload length = %d, want 4", len(client.lastDetails))
	}
	nulls := 0
	for _, d := range client.lastDetails {
		if d.UserAnswerID == nil {
			nulls++
		}
	}
	if nulls != 1 {
		t.Errorf("null selections = %d, want 1", nulls)
	}
	if sc.Attempt.Status != StatusCompleted {
		t.Errorf("Status = %s, want COMPLETED", sc.Attempt.Status)
	}
	if sc.Coord.Phase() != SubmitDone {
		t.Errorf("coordinator phase = %v, want SubmitDone (no gate opened)", sc.Coord.Phase())
	}
}

func TestController_ExpiryAfterManualSubmissionIsNoop(t *testing.T) {
	client := &fakeClient{sections: fixtureSections()}
	sc := NewController(client, 5, nil)
	if err := sc.StartNew(context.Background()); err != nil {
		t.Fatalf("StartNew: %v", err)
	}

	// Manual path wins.
	if err := sc.BeginSubmit(); err != nil {
		t.Fatalf("BeginSubmit: %v", err)
	}
	sc.Coord.Accept()
	sc.Coord.Accept()
	if err := sc.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sc.Timer.Running() {
		t.Error("timer still running after voluntary submission")
	}

	// A late expiry path must be a no-op, not a second submission.
	if err := sc.ForceSubmit(context.Background()); err != nil {
		t.Fatalf("ForceSubmit after completion: %v", err)
	}
	if client.finishCalls != 1 {
		t.Errorf("finishCalls = %d, want 1", client.finishCalls)
	}
}

func TestController_SetAnswerIgnoredAfterCompletion(t *testing.T) {
	client := &fakeClient{sections: fixtureSections()}
	sc := NewController(client, 5, nil)
	if err := sc.StartNew(context.Background()); err != nil {
		t.Fatalf("StartNew: %v", err)
	}
	if err := sc.ForceSubmit(context.Background()); err != nil {
		t.Fatalf("ForceSubmit: %v", err)
	}

	sc.SetAnswer(100, 1)
	if sc.Answers.AnsweredCount() != 0 {
		t.Error("answer recorded after attempt completed")
	}
}

func TestController_SubmitFailureLeavesAnswersForRetry(t *testing.T) {
	client := &fakeClient{sections: fixtureSections(), finishErr: &api.TransportError{Status: 503}}
	sc := NewController(client, 10, nil)
	if err := sc.StartNew(context.Background()); err != nil {
		t.Fatalf("StartNew: %v", err)
	}
	sc.SetAnswer(100, 1)

	sc.BeginSubmit()
	sc.Coord.Accept()
	sc.Coord.Accept()
	if err := sc.Submit(context.Background()); err == nil {
		t.Fatal("expected submit failure")
	}

	if sc.Attempt.Status != StatusInProgress {
		t.Errorf("Status = %s, want IN_PROGRESS", sc.Attempt.Status)
	}
	if sc.Answers.AnsweredCount() != 1 {
		t.Errorf("AnsweredCount = %d, want 1", sc.Answers.AnsweredCount())
	}
	if !sc.Timer.Running() {
		t.Error("timer stopped by a failed submission")
	}

	client.finishErr = nil
	if err := sc.Submit(context.Background()); err != nil {
		t.Fatalf("retry Submit: %v", err)
	}
	if sc.Attempt.Status != StatusCompleted {
		t.Errorf("Status = %s, want COMPLETED", sc.Attempt.Status)
	}
}

package exam

import (
	"context"
	"time"

	"github.com/nmoreno/examterm/internal/api"
	"github.com/nmoreno/examterm/internal/content"
	"go.uber.org/zap"
)

// Creator is the part of the api client that opens attempts.
type Creator interface {
	NewTest(ctx context.Context) (*api.NewTestResult, error)
}

// Client is the full backend surface the controller consumes.
type Client interface {
	Creator
	content.Fetcher
	Scorer
}

// Controller orchestrates one attempt: it creates or resumes the attempt,
// owns the timer, cursor and answer store for the lifetime of the render,
// and routes both submission paths through one coordinator so the scoring
// call happens at most once per attempt.
type Controller struct {
	client Client
	loader *content.Loader
	log    *zap.Logger

	durationSec int

	Attempt *Attempt
	Tree    *content.Tree
	Answers *AnswerStore
	Cursor  *Cursor
	Timer   *Timer
	Coord   *Coordinator
}

// NewController creates a controller. durationSec is the fixed total the
// countdown starts from on every render of an active attempt.
func NewController(client Client, durationSec int, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		client:      client,
		loader:      content.NewLoader(client),
		log:         log,
		durationSec: durationSec,
		Timer:       NewTimer(),
	}
}

// StartNew creates a fresh attempt, loads its content, seeds the answer
// store from any selections the server already had, resets the cursor to
// the first title and starts the full countdown.
func (sc *Controller) StartNew(ctx context.Context) error {
	res, err := sc.client.NewTest(ctx)
	if err != nil {
		return err
	}

	var tree *content.Tree
	if len(res.Sections) > 0 {
		tree, err = content.FromSections(res.TestID, res.Sections)
	} else {
		tree, err = sc.loader.Load(ctx, res.TestID)
	}
	if err != nil {
		return err
	}

	sc.bind(res.TestID, tree)
	sc.log.Info("attempt started",
		zap.Int("attempt_id", res.TestID),
		zap.Int("titles", tree.TotalTitles()),
		zap.Int("questions", tree.TotalQuestions()),
	)
	return nil
}

// Resume reloads the content tree for an existing attempt. Previously
// recorded answers come back with the tree and re-seed the store; the
// countdown restarts at the full duration.
func (sc *Controller) Resume(ctx context.Context, attemptID int) error {
	tree, err := sc.loader.Load(ctx, attemptID)
	if err != nil {
		return err
	}

	sc.bind(attemptID, tree)
	sc.log.Info("attempt resumed",
		zap.Int("attempt_id", attemptID),
		zap.Int("seeded_answers", sc.Answers.AnsweredCount()),
	)
	return nil
}

// bind installs a fresh snapshot and resets the per-attempt state the
// controller owns.
func (sc *Controller) bind(attemptID int, tree *content.Tree) {
	sc.Attempt = &Attempt{
		ID:        attemptID,
		Status:    StatusInProgress,
		CreatedAt: time.Now(),
	}
	sc.Tree = tree
	sc.Answers = NewAnswerStore()
	sc.Answers.Seed(tree.PreviousAnswers())
	sc.Cursor = NewCursor(tree.TotalTitles())
	sc.Timer.Start(sc.durationSec)
	sc.Coord = NewCoordinator(sc.client, sc.Attempt, sc.Tree, sc.Answers)
}

// SetAnswer records a selection. Ignored once the attempt has left
// IN_PROGRESS.
func (sc *Controller) SetAnswer(questionID, optionID int) {
	if !sc.Attempt.Open() {
		return
	}
	sc.Answers.Set(questionID, optionID)
}

// HandleTick consumes one timer period and reports whether this tick
// expired the countdown. The caller triggers the forced submission when
// it did.
func (sc *Controller) HandleTick() (expired bool) {
	return sc.Timer.Tick()
}

// ForceSubmit is the expiry path: submit the complete payload without any
// confirmation gate. A no-op when the attempt already left IN_PROGRESS or
// a manual submission is in flight — whichever path fires first wins.
func (sc *Controller) ForceSubmit(ctx context.Context) error {
	err := sc.Coord.Force(ctx)
	if err == ErrSubmitBusy {
		sc.log.Info("forced submission skipped, submission already underway",
			zap.Int("attempt_id", sc.Attempt.ID))
		return nil
	}
	if err != nil {
		sc.log.Warn("forced submission failed", zap.Int("attempt_id", sc.Attempt.ID), zap.Error(err))
		return err
	}
	sc.finish()
	return nil
}

// BeginSubmit opens the manual confirmation protocol. Same no-op guarantee
// as ForceSubmit when the attempt is no longer open.
func (sc *Controller) BeginSubmit() error {
	return sc.Coord.Begin()
}

// Submit runs the scoring call after both gates were accepted, or retries
// a failed one. On success the timer stops without emitting expiry.
func (sc *Controller) Submit(ctx context.Context) error {
	if err := sc.Coord.Submit(ctx); err != nil {
		return err
	}
	sc.finish()
	return nil
}

func (sc *Controller) finish() {
	sc.Timer.Stop()
	sc.log.Info("attempt completed",
		zap.Int("attempt_id", sc.Attempt.ID),
		zap.Int("answered", sc.Answers.AnsweredCount()),
		zap.Int("total", sc.Tree.TotalQuestions()),
	)
}

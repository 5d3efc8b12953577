package attempt

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nmoreno/examterm/internal/content"
	"github.com/nmoreno/examterm/internal/exam"
	"github.com/nmoreno/examterm/internal/router"
	"github.com/nmoreno/examterm/internal/screen"
	"github.com/nmoreno/examterm/internal/screens/results"
	"github.com/nmoreno/examterm/internal/store"
	"github.com/nmoreno/examterm/internal/ui/components"
	"github.com/nmoreno/examterm/internal/ui/layout"
)

// Client is the backend surface of one attempt render: the session calls
// plus the analysis fetch the results screen takes over afterwards.
type Client interface {
	exam.Client
	results.Analyzer
}

// Deps are the services one attempt render needs.
type Deps struct {
	Client   Client
	Store    *store.Store // nil disables the local log
	Log      *zap.Logger
	Duration time.Duration
}

// AttemptScreen drives one render of an attempt: content navigation,
// answer capture, the countdown, and both submission paths.
type AttemptScreen struct {
	deps      Deps
	ctl       *exam.Controller
	resumeID  int // 0 means start a new attempt
	sessionID string

	loading bool
	errMsg  string
	notice  string
	qIndex  int // selected question within the current title
	jump    *components.TextInput
}

var _ screen.Screen = (*AttemptScreen)(nil)
var _ screen.KeyHintProvider = (*AttemptScreen)(nil)
var _ screen.StatusProvider = (*AttemptScreen)(nil)
var _ screen.EscHandler = (*AttemptScreen)(nil)

// New creates an attempt screen. resumeID 0 starts a fresh attempt;
// anything else resumes that attempt with a full-duration countdown.
func New(deps Deps, resumeID int) *AttemptScreen {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &AttemptScreen{
		deps:      deps,
		ctl:       exam.NewController(deps.Client, int(deps.Duration.Seconds()), deps.Log),
		resumeID:  resumeID,
		sessionID: uuid.New().String(),
		loading:   true,
	}
}

func (s *AttemptScreen) Init() tea.Cmd {
	return s.load()
}

// load creates or resumes the attempt and records the lifecycle event.
func (s *AttemptScreen) load() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		var err error
		if s.resumeID > 0 {
			err = s.ctl.Resume(ctx, s.resumeID)
		} else {
			err = s.ctl.StartNew(ctx)
		}
		if err != nil {
			return attemptReadyMsg{err: err}
		}

		action := store.ActionStarted
		if s.resumeID > 0 {
			action = store.ActionResumed
		}
		s.recordEvent(ctx, action)
		s.saveMark(ctx)

		return attemptReadyMsg{}
	}
}

func (s *AttemptScreen) recordEvent(ctx context.Context, action string) {
	if s.deps.Store == nil || s.ctl.Attempt == nil {
		return
	}
	err := s.deps.Store.AttemptLog().Append(ctx, store.AttemptEvent{
		AttemptID: s.ctl.Attempt.ID,
		SessionID: s.sessionID,
		Action:    action,
		Answered:  s.ctl.Answers.AnsweredCount(),
		Total:     s.ctl.Tree.TotalQuestions(),
	})
	if err != nil {
		s.deps.Log.Warn("attempt log append failed",
			zap.String("action", action), zap.Error(err))
	}
}

func (s *AttemptScreen) saveMark(ctx context.Context) {
	if s.deps.Store == nil || s.ctl.Attempt == nil {
		return
	}
	scope := fmt.Sprintf("attempt:%d", s.ctl.Attempt.ID)
	if err := s.deps.Store.Marks().Save(ctx, scope, time.Now()); err != nil {
		s.deps.Log.Warn("countdown mark save failed", zap.Error(err))
	}
}

func (s *AttemptScreen) deleteMark(ctx context.Context) {
	if s.deps.Store == nil || s.ctl.Attempt == nil {
		return
	}
	scope := fmt.Sprintf("attempt:%d", s.ctl.Attempt.ID)
	if err := s.deps.Store.Marks().Delete(ctx, scope); err != nil {
		s.deps.Log.Warn("countdown mark delete failed", zap.Error(err))
	}
}

func (s *AttemptScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case attemptReadyMsg:
		return s.handleReady(msg)

	case tickMsg:
		return s.handleTick()

	case submitResultMsg:
		return s.handleSubmitResult(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.jump != nil {
		var cmd tea.Cmd
		*s.jump, cmd = s.jump.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *AttemptScreen) handleReady(msg attemptReadyMsg) (screen.Screen, tea.Cmd) {
	s.loading = false
	if msg.err != nil {
		s.errMsg = msg.err.Error()
		return s, nil
	}
	s.ctl.Cursor.OnChange(func(int) { s.qIndex = 0 })
	return s, tickCmd()
}

func (s *AttemptScreen) handleTick() (screen.Screen, tea.Cmd) {
	if s.loading || s.errMsg != "" {
		return s, nil
	}
	if s.ctl.HandleTick() {
		s.recordEvent(context.Background(), store.ActionExpired)
		s.notice = "Time is up — submitting your answers..."
		return s, s.submitCmd(true)
	}
	if s.ctl.Timer.Running() {
		return s, tickCmd()
	}
	return s, nil
}

// submitCmd runs the scoring call off the update loop. forced is the
// expiry path, which skips both confirmation gates.
func (s *AttemptScreen) submitCmd(forced bool) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if forced {
			err = s.ctl.ForceSubmit(ctx)
		} else {
			err = s.ctl.Submit(ctx)
		}
		return submitResultMsg{forced: forced, err: err}
	}
}

func (s *AttemptScreen) handleSubmitResult(msg submitResultMsg) (screen.Screen, tea.Cmd) {
	if msg.err != nil {
		s.notice = "Submission failed: " + msg.err.Error()
		s.recordEvent(context.Background(), store.ActionFailed)
		return s, nil
	}

	// A nil error with the coordinator not done means this path lost the
	// race to the other one; the winner drives the transition.
	if s.ctl.Coord.Phase() != exam.SubmitDone {
		return s, nil
	}

	ctx := context.Background()
	s.recordEvent(ctx, store.ActionSubmitted)
	s.deleteMark(ctx)

	resultsScreen := results.New(results.Deps{
		Client: s.deps.Client,
		Log:    s.deps.Log,
	}, s.ctl.Attempt.ID, msg.forced)

	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: resultsScreen}
	}
}

func (s *AttemptScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.loading {
		return s, nil
	}
	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	// Jump prompt owns the keyboard while open.
	if s.jump != nil {
		switch key {
		case "enter":
			if n, err := s.jump.NumericValue(); err == nil && n >= 1 {
				s.ctl.Cursor.GoTo(n - 1)
			}
			s.jump = nil
			return s, nil
		case "esc":
			s.jump = nil
			return s, nil
		}
		var cmd tea.Cmd
		*s.jump, cmd = s.jump.Update(msg)
		return s, cmd
	}

	switch s.ctl.Coord.Phase() {
	case exam.SubmitConfirming:
		switch key {
		case "y", "Y", "enter":
			s.ctl.Coord.Accept()
		case "n", "N", "esc":
			s.ctl.Coord.Decline()
		}
		return s, nil

	case exam.SubmitFinalConfirm:
		switch key {
		case "y", "Y", "enter":
			s.ctl.Coord.Accept()
			return s, s.submitCmd(false)
		case "n", "N", "esc":
			s.ctl.Coord.Decline()
		}
		return s, nil

	case exam.SubmitReady, exam.SubmitInFlight, exam.SubmitDone:
		return s, nil

	case exam.SubmitFailed:
		if key == "r" || key == "R" {
			s.notice = "Retrying submission..."
			return s, s.submitCmd(false)
		}
		return s, nil
	}

	if !s.ctl.Attempt.Open() {
		return s, nil
	}

	switch key {
	case "left", "h":
		s.ctl.Cursor.Prev()
	case "right", "l":
		s.ctl.Cursor.Next()
	case "up", "k":
		if s.qIndex > 0 {
			s.qIndex--
		}
	case "down", "j":
		if t := s.currentTitle(); t != nil && s.qIndex < len(t.Questions)-1 {
			s.qIndex++
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		s.selectOption(int(key[0] - '1'))
	case "g":
		jump := components.NewTextInput("passage #", true, 3)
		s.jump = &jump
		return s, jump.Init()
	case "s":
		if err := s.ctl.BeginSubmit(); err != nil {
			s.deps.Log.Debug("submit protocol rejected", zap.Error(err))
		}
	}

	return s, nil
}

func (s *AttemptScreen) currentTitle() *content.Title {
	if s.ctl.Tree == nil || len(s.ctl.Tree.Titles) == 0 {
		return nil
	}
	idx := s.ctl.Cursor.Index()
	if idx < 0 || idx >= len(s.ctl.Tree.Titles) {
		return nil
	}
	return &s.ctl.Tree.Titles[idx]
}

func (s *AttemptScreen) selectOption(optIndex int) {
	title := s.currentTitle()
	if title == nil || s.qIndex >= len(title.Questions) {
		return
	}
	q := title.Questions[s.qIndex]
	if optIndex < 0 || optIndex >= len(q.Options) {
		return
	}
	s.ctl.SetAnswer(q.ID, q.Options[optIndex].ID)
}

// HandlesEsc claims Esc while an overlay (jump prompt or confirmation
// gate) is showing, so the app does not pop the screen instead.
func (s *AttemptScreen) HandlesEsc() bool {
	if s.jump != nil {
		return true
	}
	switch s.ctl.Coord.Phase() {
	case exam.SubmitConfirming, exam.SubmitFinalConfirm:
		return true
	}
	return false
}

func (s *AttemptScreen) Title() string {
	if s.ctl.Attempt != nil {
		return fmt.Sprintf("Attempt #%d", s.ctl.Attempt.ID)
	}
	return "Attempt"
}

func (s *AttemptScreen) HeaderStatus() layout.HeaderStatus {
	if s.ctl.Tree == nil {
		return layout.HeaderStatus{}
	}
	remaining := s.ctl.Timer.Remaining()
	return layout.HeaderStatus{
		Answered:  s.ctl.Answers.AnsweredCount(),
		Total:     s.ctl.Tree.TotalQuestions(),
		Remaining: formatClock(remaining),
		LowTime:   s.ctl.Timer.Running() && remaining <= 60,
	}
}

func (s *AttemptScreen) KeyHints() []layout.KeyHint {
	if s.loading {
		return nil
	}
	if s.errMsg != "" {
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	}
	if s.jump != nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Jump"},
			{Key: "Esc", Description: "Cancel"},
		}
	}

	switch s.ctl.Coord.Phase() {
	case exam.SubmitConfirming, exam.SubmitFinalConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "Confirm"},
			{Key: "N", Description: "Go back"},
		}
	case exam.SubmitInFlight:
		return []layout.KeyHint{{Key: "", Description: "Submitting..."}}
	case exam.SubmitFailed:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Leave (attempt stays open)"},
		}
	}

	return []layout.KeyHint{
		{Key: "←→", Description: "Passage"},
		{Key: "↑↓", Description: "Question"},
		{Key: "1-4", Description: "Answer"},
		{Key: "G", Description: "Jump"},
		{Key: "S", Description: "Submit"},
	}
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

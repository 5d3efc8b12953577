package results

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/nmoreno/examterm/internal/api"
	"github.com/nmoreno/examterm/internal/screen"
	"github.com/nmoreno/examterm/internal/ui/layout"
	"github.com/nmoreno/examterm/internal/ui/theme"
)

// Analyzer is the part of the api client this screen consumes.
type Analyzer interface {
	TestAnalysis(ctx context.Context, testID int) (*api.Analysis, error)
}

// Deps are the services the results screen needs.
type Deps struct {
	Client Analyzer
	Log    *zap.Logger
}

// analysisMsg delivers the fetched analysis, or the fetch error.
type analysisMsg struct {
	analysis *api.Analysis
	err      error
}

// ResultsScreen fetches and renders the scoring breakdown of a completed
// attempt.
type ResultsScreen struct {
	deps      Deps
	attemptID int
	forced    bool // the attempt was submitted by the expiry path

	analysis *api.Analysis
	errMsg   string
	loading  bool
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a results screen for one submitted attempt. forced marks
// attempts that were closed out by the countdown rather than the user.
func New(deps Deps, attemptID int, forced bool) *ResultsScreen {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &ResultsScreen{
		deps:      deps,
		attemptID: attemptID,
		forced:    forced,
		loading:   true,
	}
}

func (r *ResultsScreen) Init() tea.Cmd {
	return r.fetch()
}

func (r *ResultsScreen) fetch() tea.Cmd {
	client := r.deps.Client
	id := r.attemptID
	return func() tea.Msg {
		a, err := client.TestAnalysis(context.Background(), id)
		return analysisMsg{analysis: a, err: err}
	}
}

func (r *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case analysisMsg:
		r.loading = false
		if msg.err != nil {
			r.errMsg = msg.err.Error()
			r.deps.Log.Warn("analysis fetch failed",
				zap.Int("attempt_id", r.attemptID), zap.Error(msg.err))
			return r, nil
		}
		r.errMsg = ""
		r.analysis = msg.analysis
		return r, nil

	case tea.KeyMsg:
		if msg.String() == "r" && r.errMsg != "" {
			r.loading = true
			r.errMsg = ""
			return r, r.fetch()
		}
	}
	return r, nil
}

func (r *ResultsScreen) Title() string {
	return fmt.Sprintf("Results · Attempt #%d", r.attemptID)
}

func (r *ResultsScreen) KeyHints() []layout.KeyHint {
	if r.errMsg != "" {
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (r *ResultsScreen) View(width, height int) string {
	centered := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	if r.loading {
		return centered.Foreground(theme.TextDim).Render("\n\n  Fetching analysis...")
	}
	if r.errMsg != "" {
		return centered.Foreground(theme.Error).Render("\n\n  " + r.errMsg)
	}
	if r.analysis == nil {
		return centered.Foreground(theme.TextDim).Render("\n\n  No analysis available yet.")
	}

	var b strings.Builder
	a := r.analysis

	if r.forced {
		b.WriteString(centered.Foreground(theme.Warning).
			Render("Time expired — your answers were submitted automatically."))
		b.WriteString("\n\n")
	}

	verdict := "PENDING"
	verdictStyle := lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true)
	if a.Passed != nil {
		if *a.Passed {
			verdict = "PASSED"
			verdictStyle = verdictStyle.Foreground(theme.Success)
		} else {
			verdict = "NOT PASSED"
			verdictStyle = verdictStyle.Foreground(theme.Error)
		}
	}
	line := verdictStyle.Render(verdict)
	if a.Score != nil {
		line += lipgloss.NewStyle().Foreground(theme.Text).
			Render(fmt.Sprintf("   score %.1f", *a.Score))
	}
	b.WriteString(centered.Render(line))
	b.WriteString("\n\n")

	if a.Summary != "" {
		b.WriteString(theme.Body.Width(width - 8).Render("  " + a.Summary))
		b.WriteString("\n\n")
	}

	b.WriteString(renderList(width, "Strengths", theme.Success, a.Strengths))
	b.WriteString(renderList(width, "Weaknesses", theme.Error, a.Weaknesses))
	b.WriteString(renderList(width, "Recommendations", theme.Accent, a.Recommendations))

	return b.String()
}

func renderList(width int, heading string, c color.Color, items []string) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(c).Bold(true).Render("  " + heading))
	b.WriteString("\n")
	for _, it := range items {
		b.WriteString(theme.Body.Width(width - 10).Render("   • " + it))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

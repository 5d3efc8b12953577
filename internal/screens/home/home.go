package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/nmoreno/examterm/internal/api"
	"github.com/nmoreno/examterm/internal/config"
	"github.com/nmoreno/examterm/internal/router"
	"github.com/nmoreno/examterm/internal/screen"
	"github.com/nmoreno/examterm/internal/screens/attempt"
	"github.com/nmoreno/examterm/internal/screens/results"
	"github.com/nmoreno/examterm/internal/store"
	"github.com/nmoreno/examterm/internal/ui/components"
	"github.com/nmoreno/examterm/internal/ui/theme"
)

// Deps are the shared services the home screen hands down to the screens
// it opens.
type Deps struct {
	Client *api.Client
	Store  *store.Store
	Config *config.Config
	Log    *zap.Logger
}

// attemptStatusMsg carries what the local log knows about past attempts.
type attemptStatusMsg struct {
	openID       int
	hasOpen      bool
	submittedID  int
	hasSubmitted bool
	err          error
}

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	deps   Deps
	menu   components.Menu
	status attemptStatusMsg
	loaded bool
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	h.menu = components.NewMenu(h.menuItems())
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStatus()
}

// loadStatus asks the local attempt log what can be resumed and whose
// results can be pulled back up.
func (h *HomeScreen) loadStatus() tea.Cmd {
	st := h.deps.Store
	return func() tea.Msg {
		if st == nil {
			return attemptStatusMsg{}
		}
		ctx := context.Background()
		log := st.AttemptLog()

		var msg attemptStatusMsg
		var err error
		msg.openID, msg.hasOpen, err = log.LastOpen(ctx)
		if err != nil {
			return attemptStatusMsg{err: err}
		}
		msg.submittedID, msg.hasSubmitted, err = log.LastSubmitted(ctx)
		if err != nil {
			return attemptStatusMsg{err: err}
		}
		return msg
	}
}

func (h *HomeScreen) menuItems() []components.MenuItem {
	items := []components.MenuItem{
		{Label: "Start new test", Action: func() tea.Cmd {
			return h.openAttempt(0)
		}},
	}

	resumeLabel := "Resume last attempt"
	if h.status.hasOpen {
		resumeLabel = fmt.Sprintf("Resume attempt #%d", h.status.openID)
	}
	items = append(items, components.MenuItem{
		Label:    resumeLabel,
		Disabled: !h.status.hasOpen,
		Action: func() tea.Cmd {
			return h.openAttempt(h.status.openID)
		},
	})

	resultsLabel := "Last results"
	if h.status.hasSubmitted {
		resultsLabel = fmt.Sprintf("Results of attempt #%d", h.status.submittedID)
	}
	items = append(items, components.MenuItem{
		Label:    resultsLabel,
		Disabled: !h.status.hasSubmitted,
		Action: func() tea.Cmd {
			id := h.status.submittedID
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: results.New(results.Deps{
					Client: h.deps.Client,
					Log:    h.deps.Log,
				}, id, false)}
			}
		},
	})

	items = append(items, components.MenuItem{
		Label:  "Quit",
		Action: func() tea.Cmd { return tea.Quit },
	})

	return items
}

func (h *HomeScreen) openAttempt(resumeID int) tea.Cmd {
	deps := attempt.Deps{
		Client:   h.deps.Client,
		Store:    h.deps.Store,
		Log:      h.deps.Log,
		Duration: h.deps.Config.Test.Duration,
	}
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: attempt.New(deps, resumeID)}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case attemptStatusMsg:
		h.status = msg
		h.loaded = true
		selected := h.menu.Selected
		h.menu = components.NewMenu(h.menuItems())
		if selected < len(h.menu.Items) && !h.menu.Items[selected].Disabled {
			h.menu.Selected = selected
		}
		return h, nil

	case router.ActivatedMsg:
		// Coming back from an attempt or results screen: the log may
		// have new rows.
		return h, h.loadStatus()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString("\n\n")
	b.WriteString(theme.Title.Width(width).Render("ExamTerm"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render("Timed reading & listening assessments, in your terminal"))
	b.WriteString("\n\n\n")

	menu := h.menu.View()
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(menu))

	if h.status.err != nil {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("local history unavailable: " + h.status.err.Error()))
	}

	return b.String()
}

func (h *HomeScreen) Title() string {
	return "Home"
}

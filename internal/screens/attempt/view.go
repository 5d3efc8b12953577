package attempt

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/nmoreno/examterm/internal/content"
	"github.com/nmoreno/examterm/internal/exam"
	"github.com/nmoreno/examterm/internal/ui/components"
	"github.com/nmoreno/examterm/internal/ui/theme"
)

func (s *AttemptScreen) View(width, height int) string {
	centered := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	if s.loading {
		return centered.Foreground(theme.TextDim).Render("\n\n  Preparing your test...")
	}
	if s.errMsg != "" {
		return centered.Foreground(theme.Error).Render("\n\n  " + s.errMsg)
	}

	switch s.ctl.Coord.Phase() {
	case exam.SubmitConfirming:
		return s.renderCompletenessGate(width, height)
	case exam.SubmitFinalConfirm:
		return s.renderFinalGate(width, height)
	case exam.SubmitReady, exam.SubmitInFlight:
		return centered.Foreground(theme.TextDim).Render("\n\n  Submitting your answers...")
	}

	return s.renderTitleView(width, height)
}

func (s *AttemptScreen) renderTitleView(width, height int) string {
	title := s.currentTitle()
	if title == nil {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.TextDim).Render("\n\n  No content.")
	}

	var b strings.Builder

	// Position line: section kind, description, and where we are.
	kindStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	posLeft := kindStyle.Render(fmt.Sprintf("  [%s]", title.Kind)) +
		lipgloss.NewStyle().Foreground(theme.Text).Render(" "+title.Name)
	posRight := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("passage %d/%d", s.ctl.Cursor.Index()+1, s.ctl.Cursor.Total()))

	pad := width - lipgloss.Width(posLeft) - lipgloss.Width(posRight) - 4
	if pad < 1 {
		pad = 1
	}
	b.WriteString(posLeft + strings.Repeat(" ", pad) + posRight)
	b.WriteString("\n")
	if title.SectionDesc != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + title.SectionDesc))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n")

	// Passage or audio reference.
	switch title.Kind {
	case content.KindListening:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render("  ♪ Audio: "))
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Underline(true).Render(title.AudioURL))
		b.WriteString("\n\n")
	default:
		if title.Passage != "" {
			passage := theme.Card.Width(max(width-8, 20)).Render(title.Passage)
			b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(passage))
			b.WriteString("\n\n")
		}
	}

	// Questions for this title.
	for i, q := range title.Questions {
		b.WriteString(s.renderQuestion(q, i == s.qIndex, width))
	}

	// Answered progress across the whole attempt.
	answered := s.ctl.Answers.AnsweredCount()
	total := s.ctl.Tree.TotalQuestions()
	percent := 0.0
	if total > 0 {
		percent = float64(answered) / float64(total)
	}
	bar := components.NewProgressBar(
		fmt.Sprintf("  Answered %d/%d", answered, total),
		percent, false, max(width-8, 20),
	)
	b.WriteString("\n")
	b.WriteString(bar.View())

	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.Warning).
			Bold(true).
			Render("  " + s.notice))
	}

	if s.jump != nil {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("  Go to passage: "))
		b.WriteString(s.jump.View())
	}

	return b.String()
}

func (s *AttemptScreen) renderQuestion(q content.Question, active bool, width int) string {
	var b strings.Builder

	marker := "  "
	numStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	textStyle := lipgloss.NewStyle().Foreground(theme.Text)
	if active {
		marker = "▸ "
		numStyle = numStyle.Foreground(theme.Primary).Bold(true)
		textStyle = textStyle.Bold(true)
	}

	b.WriteString("  " + marker)
	b.WriteString(numStyle.Render(fmt.Sprintf("Q%d.", q.Ordinal)))
	b.WriteString(" ")
	b.WriteString(textStyle.Render(q.Text))
	b.WriteString("\n")

	selected, hasAnswer := s.ctl.Answers.Get(q.ID)
	for i, opt := range q.Options {
		mark := "○"
		optStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
		if hasAnswer && opt.ID == selected {
			mark = "●"
			optStyle = theme.Answered
		}
		line := fmt.Sprintf("       %s %d) %s", mark, i+1, opt.Text)
		b.WriteString(optStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	return b.String()
}

func (s *AttemptScreen) renderCompletenessGate(width, height int) string {
	unanswered := s.ctl.Coord.Unanswered()

	var body string
	if unanswered > 0 {
		noun := "questions"
		if unanswered == 1 {
			noun = "question"
		}
		body = fmt.Sprintf("You still have %d unanswered %s.\n\nSubmit anyway?", unanswered, noun)
	} else {
		body = "All questions answered.\n\nSubmit your test now?"
	}

	return renderDialog(width, height, "Submit test", body)
}

func (s *AttemptScreen) renderFinalGate(width, height int) string {
	return renderDialog(width, height, "Final confirmation",
		"This is final. Your answers will be scored\nand the attempt closed.\n\nProceed?")
}

func renderDialog(width, height int, heading, body string) string {
	dialog := theme.Dialog.Render(
		lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(heading) +
			"\n\n" +
			lipgloss.NewStyle().Foreground(theme.Text).Render(body) +
			"\n\n" +
			theme.Hint.Render("Y to confirm · N to go back"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, dialog)
}

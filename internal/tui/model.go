// Package tui provides the Bubble Tea play screen.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/tuicards/internal/apps"
	"github.com/verte-zerg/tuicards/internal/game"
	"github.com/verte-zerg/tuicards/internal/model"
	"github.com/verte-zerg/tuicards/internal/scoring"
)

type phase int

const (
	phaseQuestion phase = iota
	phaseFeedback
	phaseFinished
)

// Model implements the Bubble Tea play UI over a started game.
type Model struct {
	ctx    context.Context
	game   *game.Store
	logger zerolog.Logger
	delay  int
	now    func() time.Time

	width  int
	height int

	input    textinput.Model
	phase    phase
	question game.Question
	shownAt  time.Time
	revealed bool
	outcome  game.Outcome
	timer    countdown

	result    *model.HistoryEntry
	discarded bool
	err       error
}

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	closeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	questionStyle  = lipgloss.NewStyle().Bold(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel returns a play screen for g, which must have an active session.
// feedbackDelay is the auto-advance countdown in seconds; zero waits for a key.
func NewModel(ctx context.Context, g *game.Store, logger zerolog.Logger, feedbackDelay int) *Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 128
	m := &Model{
		ctx:    ctx,
		game:   g,
		logger: logger,
		delay:  feedbackDelay,
		now:    time.Now,
		input:  ti,
	}
	m.loadQuestion()
	return m
}

// Result returns the finished session, or nil if the session was left early.
func (m *Model) Result() *model.HistoryEntry {
	return m.result
}

// Discarded reports whether the player abandoned the session.
func (m *Model) Discarded() bool {
	return m.discarded
}

// Err returns the error that ended the session, if any.
func (m *Model) Err() error {
	return m.err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		expired, cmd := m.timer.handle(msg)
		if expired {
			return m, m.advance()
		}
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.phase == phaseQuestion && m.question.Input == apps.InputTyping {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		// The checkpoint stays so the session can be resumed.
		m.timer.cancel()
		return m, tea.Quit
	case tea.KeyEsc:
		m.timer.cancel()
		if m.phase != phaseFinished {
			m.game.DiscardGame(m.ctx)
			m.discarded = true
		}
		return m, tea.Quit
	}

	switch m.phase {
	case phaseFinished:
		if msg.Type == tea.KeyEnter || msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	case phaseFeedback:
		if msg.Type == tea.KeyEnter || msg.Type == tea.KeySpace {
			m.timer.cancel()
			return m, m.advance()
		}
		return m, nil
	}

	switch m.question.Input {
	case apps.InputChoice:
		if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
			return m, nil
		}
		idx := int(msg.Runes[0] - '1')
		if idx < 0 || idx >= len(m.question.Choices) {
			return m, nil
		}
		return m, m.submit(m.question.Choices[idx])
	case apps.InputReveal:
		if !m.revealed {
			if msg.Type == tea.KeyEnter || msg.Type == tea.KeySpace {
				m.revealed = true
			}
			return m, nil
		}
		switch strings.ToLower(msg.String()) {
		case "y":
			return m, m.submit("y")
		case "n":
			return m, m.submit("n")
		}
		return m, nil
	default:
		if msg.Type == tea.KeyEnter {
			if strings.TrimSpace(m.input.Value()) == "" {
				return m, nil
			}
			return m, m.submit(m.input.Value())
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) submit(answer string) tea.Cmd {
	outcome, err := m.game.Answer(m.ctx, answer, m.now().Sub(m.shownAt))
	if err != nil {
		return m.fail(err)
	}
	m.outcome = outcome
	m.phase = phaseFeedback
	m.input.Blur()
	return m.timer.start(m.delay)
}

func (m *Model) advance() tea.Cmd {
	over, err := m.game.NextCard(m.ctx)
	if err != nil {
		return m.fail(err)
	}
	if over {
		m.phase = phaseFinished
		if entry, ok := m.game.LastResult(m.ctx); ok {
			m.result = &entry
		}
		return nil
	}
	m.loadQuestion()
	return textinput.Blink
}

func (m *Model) fail(err error) tea.Cmd {
	m.logger.Error().Err(err).Msg("session aborted")
	m.err = err
	m.phase = phaseFinished
	return tea.Quit
}

func (m *Model) loadQuestion() {
	q, ok := m.game.Prompt()
	if !ok {
		m.err = game.ErrNoSession
		m.phase = phaseFinished
		return
	}
	m.question = q
	m.phase = phaseQuestion
	m.revealed = false
	m.outcome = game.Outcome{}
	m.shownAt = m.now()
	m.input.SetValue("")
	if q.Input == apps.InputTyping {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.phase {
	case phaseFinished:
		content = m.renderFinished()
	case phaseFeedback:
		content = m.renderQuestion() + "\n\n" + m.renderFeedback()
	default:
		content = m.renderQuestion() + "\n\n" + m.renderInput()
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	content = lipgloss.NewStyle().Width(contentWidth).Render(content)
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderQuestion() string {
	text := m.question.Question
	if m.question.Hint != "" && m.game.Settings().Mode != "hidden" {
		text += "\n" + pendingStyle.Render(m.question.Hint)
	}
	return questionStyle.Render(text)
}

func (m *Model) renderInput() string {
	switch m.question.Input {
	case apps.InputChoice:
		lines := make([]string, 0, len(m.question.Choices))
		for i, c := range m.question.Choices {
			lines = append(lines, fmt.Sprintf("%d) %s", i+1, c))
		}
		return strings.Join(lines, "\n")
	case apps.InputReveal:
		if !m.revealed {
			return pendingStyle.Render("space: reveal")
		}
		return m.question.Expected + "\n" + pendingStyle.Render("did you know it? y/n")
	default:
		out := m.input.View()
		if m.game.Settings().Mode == "copy" {
			styled := buildStyledRunes([]rune(m.question.Expected), []rune(m.input.Value()))
			out = wrapStyledRunes(styled, m.width*7/10) + "\n" + out
		}
		return out
	}
}

func (m *Model) renderFeedback() string {
	var head string
	switch m.outcome.Result {
	case scoring.Correct:
		head = correctStyle.Render("Correct")
	case scoring.Close:
		head = closeStyle.Render("Almost: " + m.outcome.Expected)
	default:
		head = incorrectStyle.Render("Wrong: " + m.outcome.Expected)
	}
	lines := []string{head, formatBreakdown(m.outcome.Breakdown)}
	if m.outcome.After.Level != m.outcome.Before.Level {
		lines = append(lines, fmt.Sprintf("level %d → %d", m.outcome.Before.Level, m.outcome.After.Level))
	}
	if m.timer.active {
		lines = append(lines, pendingStyle.Render(fmt.Sprintf("next in %ds", m.timer.left)))
	} else {
		lines = append(lines, pendingStyle.Render("enter: next"))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFinished() string {
	if m.err != nil && !errors.Is(m.err, game.ErrNoSession) {
		return incorrectStyle.Render("Session aborted: " + m.err.Error())
	}
	if m.result == nil {
		return "Nothing to play."
	}
	r := m.result
	return strings.Join([]string{
		questionStyle.Render("Session complete"),
		fmt.Sprintf("Points %d", r.Points),
		fmt.Sprintf("Correct %d/%d", r.CorrectAnswers, r.Answered),
		pendingStyle.Render("enter: quit"),
	}, "\n")
}

func (m *Model) renderFooter() string {
	settings := m.game.Settings()
	segments := []string{
		fmt.Sprintf("%s · %s · %s", settings.App, settings.Mode, settings.Session),
		fmt.Sprintf("Points %d", m.game.Points()),
		fmt.Sprintf("Correct %d/%d", m.game.CorrectAnswers(), m.game.Answered()),
	}
	if m.game.Active() {
		if settings.Session == model.SessionStandard || settings.Session == model.SessionRounds3 {
			segments = append(segments, fmt.Sprintf("Card %d/%d", m.game.Index()+1, m.game.Remaining()))
		} else {
			segments = append(segments, fmt.Sprintf("Left %d", m.game.Remaining()))
		}
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

// formatBreakdown lists every non-zero part of a score.
func formatBreakdown(b scoring.Breakdown) string {
	if b.TotalPoints == 0 {
		return "+0"
	}
	parts := []string{fmt.Sprintf("(%d + %d) × %d", b.LevelPoints, b.DifficultyPoints, b.ModeMultiplier)}
	if b.CloseAdjustment != 0 {
		parts = append(parts, fmt.Sprintf("close -%d", b.CloseAdjustment))
	}
	if b.LanguageBonus != 0 {
		parts = append(parts, fmt.Sprintf("language +%d", b.LanguageBonus))
	}
	if b.TimeBonus != 0 {
		parts = append(parts, fmt.Sprintf("time +%d", b.TimeBonus))
	}
	return fmt.Sprintf("+%d  %s", b.TotalPoints, strings.Join(parts, ", "))
}

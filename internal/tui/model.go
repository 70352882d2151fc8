// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/verte-zerg/stamina/internal/i18n"
	"github.com/verte-zerg/stamina/internal/model"
	"github.com/verte-zerg/stamina/internal/session"
	"github.com/verte-zerg/stamina/internal/stats"
	"github.com/verte-zerg/stamina/internal/targets"
)

// HistoryFunc loads the runs completed so far in this process.
type HistoryFunc func(ctx context.Context) ([]model.RunAggregate, error)

// Options configures the UI shell.
type Options struct {
	Locale  language.Tag
	Rows    [][]targets.Target
	History HistoryFunc
	Logger  *slog.Logger
}

type tickMsg time.Time

// Model implements the Bubble Tea typing UI on top of a session controller.
type Model struct {
	ctrl    *session.Controller
	printer *message.Printer
	keys    keyMap
	help    help.Model
	slider  progress.Model
	rows    [][]targets.Target
	logger  *slog.Logger

	history     HistoryFunc
	runTable    table.Model
	showHistory bool

	// mistyped marks the current target after an incorrect keystroke.
	mistyped bool

	width  int
	height int
}

var (
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Underline(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	cellStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C0C0C0")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Padding(0, 1)
	activeCellStyle = cellStyle.
			Border(lipgloss.DoubleBorder()).
			Foreground(lipgloss.Color("#1A1A1A")).
			Background(lipgloss.Color("#C89A3A")).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Bold(true)
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 3)
)

// NewModel constructs a typing TUI model.
func NewModel(ctrl *session.Controller, opts Options) *Model {
	if opts.Rows == nil {
		opts.Rows = targets.DefaultRows()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Locale == language.Und {
		opts.Locale = i18n.Default()
	}
	printer := i18n.Printer(opts.Locale)
	m := &Model{
		ctrl:    ctrl,
		printer: printer,
		keys:    newKeyMap(printer),
		help:    help.New(),
		slider:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(30)),
		rows:    opts.Rows,
		logger:  opts.Logger,
		history: opts.History,
	}
	m.runTable = buildRunTable(nil, 60, 10)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.runTable.SetWidth(max(20, msg.Width-4))
		m.runTable.SetHeight(max(3, msg.Height-6))
		return m, nil
	case tickMsg:
		if m.ctrl.Closed() {
			return m, nil
		}
		return m, tick()
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.ctrl.Quit()
			return m, tea.Quit
		}
		m.handleKey(msg)
		if m.ctrl.Closed() {
			return m, tea.Quit
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	if m.showHistory {
		if key.Matches(msg, m.keys.Close) {
			m.showHistory = false
			return
		}
		m.runTable, _ = m.runTable.Update(msg)
		return
	}
	v := m.ctrl.View()
	switch {
	case v.State == session.Completed:
		m.handleCompletionKey(msg)
	case v.ExitPending:
		m.handleExitKey(msg)
	default:
		m.handlePracticeKey(msg)
	}
}

func (m *Model) handleCompletionKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Continue):
		m.mistyped = false
		m.ctrl.OnCompletionDecision(session.Continue)
	case key.Matches(msg, m.keys.Finish), key.Matches(msg, m.keys.Exit):
		m.ctrl.OnCompletionDecision(session.End)
	}
}

func (m *Model) handleExitKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Continue), key.Matches(msg, m.keys.Exit):
		m.ctrl.OnExitConfirmation(false)
	case key.Matches(msg, m.keys.Finish):
		m.ctrl.OnExitConfirmation(true)
	}
}

func (m *Model) handlePracticeKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Exit):
		m.ctrl.OnKeyPress(session.Escape)
	case key.Matches(msg, m.keys.Easier):
		m.ctrl.OnDifficultyChange(m.ctrl.Difficulty() - 1)
		m.mistyped = false
	case key.Matches(msg, m.keys.Harder):
		m.ctrl.OnDifficultyChange(m.ctrl.Difficulty() + 1)
		m.mistyped = false
	case key.Matches(msg, m.keys.History):
		m.openHistory()
	case msg.Type == tea.KeyRunes:
		for _, r := range msg.Runes {
			m.pressRune(unicode.ToUpper(r))
		}
	}
}

func (m *Model) pressRune(r rune) {
	before := m.ctrl.View().ErrorsCount
	m.ctrl.OnKeyPress(r)
	after := m.ctrl.View()
	if session.Classify(r) != session.CategoryLetter || after.State != session.Active {
		return
	}
	m.mistyped = after.ErrorsCount > before
}

func (m *Model) openHistory() {
	if m.history == nil {
		return
	}
	runs, err := m.history(context.Background())
	if err != nil {
		m.logger.Warn("failed to load run history", "error", err)
		return
	}
	width, height := 60, 10
	if m.width > 0 {
		width = max(20, m.width-4)
		height = max(3, m.height-6)
	}
	m.runTable = buildRunTable(runs, width, height)
	m.showHistory = true
}

// View implements tea.Model.
func (m *Model) View() string {
	v := m.ctrl.View()
	if v.State == session.Closed {
		return ""
	}
	var body string
	switch {
	case m.showHistory:
		body = m.renderHistory()
	case v.State == session.Completed:
		body = m.renderCompletion(v)
	case v.ExitPending:
		body = m.renderExitPrompt()
	default:
		body = m.renderPractice(v)
	}
	footer := m.renderFooter(v)
	if m.width == 0 || m.height == 0 {
		return body + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	bodyHeight := m.height - 2
	content := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	helpLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, m.renderHelp(v))
	return content + "\n" + footerLine + "\n" + helpLine
}

func (m *Model) renderPractice(v session.View) string {
	contentWidth := 60
	if m.width > 0 {
		contentWidth = max(1, int(float64(m.width)*0.70))
	}
	sequence := wrapStyledRunes(buildStyledRunes(v.Remaining, m.mistyped), contentWidth)
	sections := []string{
		m.renderSlider(v),
		"",
		renderGrid(m.rows, v.TargetID),
		"",
		lipgloss.NewStyle().Width(contentWidth).Align(lipgloss.Center).Render(sequence),
	}
	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}

func (m *Model) renderSlider(v session.View) string {
	percent := 0.0
	if v.MaxDifficulty > 0 {
		percent = float64(v.Difficulty) / float64(v.MaxDifficulty)
	}
	label := m.printer.Sprintf(i18n.MsgDifficulty, v.Difficulty, v.MaxDifficulty)
	return lipgloss.JoinHorizontal(lipgloss.Center, titleStyle.Render(label), "  ", m.slider.ViewAs(percent))
}

func renderGrid(rows [][]targets.Target, activeID string) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, target := range row {
			style := cellStyle
			if target.ID == activeID {
				style = activeCellStyle
			}
			cells = append(cells, style.Render(target.Label))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderCompletion(v session.View) string {
	p := m.printer
	lines := []string{titleStyle.Render(p.Sprintf(i18n.MsgCompletedTitle)), ""}
	lines = append(lines, p.Sprintf(i18n.MsgCongrats))
	if s := v.Summary; s != nil {
		lines = append(lines,
			p.Sprintf(i18n.MsgTyped, s.CharactersTyped),
			p.Sprintf(i18n.MsgErrors, s.ErrorsCount),
			p.Sprintf(i18n.MsgRate, s.Rate),
			p.Sprintf(i18n.MsgAccuracy, s.Accuracy*100),
			p.Sprintf(i18n.MsgElapsed, s.Elapsed.Seconds()),
		)
	}
	lines = append(lines, "", p.Sprintf(i18n.MsgContinue))
	return dialogStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderExitPrompt() string {
	p := m.printer
	lines := []string{
		titleStyle.Render(p.Sprintf(i18n.MsgExitTitle)),
		"",
		p.Sprintf(i18n.MsgExitPrompt),
	}
	return dialogStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderHistory() string {
	title := titleStyle.Render(m.printer.Sprintf(i18n.MsgHistoryTitle))
	return lipgloss.JoinVertical(lipgloss.Left, title, "", m.runTable.View())
}

func (m *Model) renderFooter(v session.View) string {
	p := m.printer
	segments := []string{
		p.Sprintf(i18n.MsgTyped, v.CharactersTyped),
		p.Sprintf(i18n.MsgErrors, v.ErrorsCount),
		p.Sprintf(i18n.MsgRateLive, v.Rate),
		p.Sprintf(i18n.MsgRuns, v.CompletedRuns),
	}
	return footerStyle.Render(strings.Join(segments, "  ·  "))
}

func (m *Model) renderHelp(v session.View) string {
	switch {
	case m.showHistory:
		return m.help.View(promptKeys{continueKey: m.keys.Close})
	case v.State == session.Completed, v.ExitPending:
		return m.help.View(promptKeys{continueKey: m.keys.Continue, finishKey: m.keys.Finish})
	default:
		return m.help.View(m.keys)
	}
}

func buildRunTable(runs []model.RunAggregate, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Run", Width: 4},
		{Title: "Lvl", Width: 4},
		{Title: "Typed", Width: 6},
		{Title: "Errors", Width: 7},
		{Title: "Time (s)", Width: 9},
		{Title: "CPM", Width: 8},
	}
	rows := make([]table.Row, 0, len(runs))
	for i, run := range runs {
		cpm, _ := stats.Metrics(run.CharactersTyped, run.ErrorsCount, run.DurationMs)
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", run.Difficulty),
			fmt.Sprintf("%d", run.CharactersTyped),
			fmt.Sprintf("%d", run.ErrorsCount),
			fmt.Sprintf("%.1f", float64(run.DurationMs)/1000),
			fmt.Sprintf("%.1f", cpm),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(max(1, height)),
		table.WithFocused(true),
	)
	t.SetWidth(width)
	t.SetStyles(runTableStyles())
	return t
}

func runTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

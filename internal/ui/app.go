// Package ui is the terminal dashboard: the same two selectors as the web
// page, three counters and the two bar charts.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/CovTrack/internal/dashboard"
	"github.com/yildizm/CovTrack/internal/emoji"
	"github.com/yildizm/CovTrack/internal/ui/components"
)

// Focus is the selector that receives ←/→.
type Focus int

const (
	FocusState Focus = iota
	FocusMonth
)

const (
	defaultWidth  = 100
	defaultHeight = 32
)

// Model is the bubbletea model of the terminal dashboard.
type Model struct {
	dash    *dashboard.Dashboard
	session *dashboard.Session

	state *components.Selector
	month *components.Selector
	focus Focus

	totals dashboard.TotalsView
	charts dashboard.ChartsView

	width    int
	height   int
	showHelp bool
	quitting bool
	notice   string
	styles   *Styles
}

// NewModel creates a model at the initial selection.
func NewModel(d *dashboard.Dashboard) *Model {
	m := &Model{
		width:  defaultWidth,
		height: defaultHeight,
		styles: GetStyles(),
	}
	m.setDashboard(d, dashboard.Initial)
	return m
}

// setDashboard rebuilds the selectors for d and reapplies sel. A value that
// is no longer offered resets its selector to the first option.
func (m *Model) setDashboard(d *dashboard.Dashboard, sel dashboard.Selection) {
	m.dash = d
	m.session = d.NewSession()
	m.state = components.NewSelector("State", d.StateOptions(), 0).SetIcon(emoji.GetEmoji("state"))
	m.month = components.NewSelector("Month", d.MonthOptions(), 0).SetIcon(emoji.GetEmoji("month"))

	m.totals, m.charts = m.session.Apply(sel)
	applied := m.session.Selection()
	if !m.state.SelectValue(applied.State) {
		m.totals = m.session.SelectState(m.state.Value())
	}
	if !m.month.SelectValue(applied.Month) {
		m.charts = m.session.SelectMonth(m.month.Value())
	}
	m.updateFocus()
}

// Dashboard returns the dashboard being shown.
func (m *Model) Dashboard() *dashboard.Dashboard {
	return m.dash
}

// Selection returns the current selector values.
func (m *Model) Selection() dashboard.Selection {
	return m.session.Selection()
}

// Focused returns the selector that has focus.
func (m *Model) Focused() Focus {
	return m.focus
}

// Totals returns what the counters show.
func (m *Model) Totals() dashboard.TotalsView {
	return m.totals
}

// Charts returns what the bar charts show.
func (m *Model) Charts() dashboard.ChartsView {
	return m.charts
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case DashboardMsg:
		if msg.Dashboard != nil {
			m.setDashboard(msg.Dashboard, m.session.Selection())
			m.notice = emoji.GetEmoji("reload") + " Data reloaded"
		}
	case reloadErrorMsg:
		m.notice = fmt.Sprintf("%s Reload failed: %v", emoji.GetEmoji("warning"), msg.err)
	}
	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "tab", "shift+tab":
		if m.focus == FocusState {
			m.focus = FocusMonth
		} else {
			m.focus = FocusState
		}
		m.updateFocus()
	case "right", "l":
		m.cycle(true)
	case "left", "h":
		m.cycle(false)
	case "r":
		m.totals, m.charts = m.session.Apply(dashboard.Initial)
		m.state.SelectValue(dashboard.Initial.State)
		m.month.SelectValue(dashboard.Initial.Month)
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// cycle moves the focused selector and recomputes only its output.
func (m *Model) cycle(forward bool) {
	sel := m.state
	if m.focus == FocusMonth {
		sel = m.month
	}
	if forward {
		sel.Next()
	} else {
		sel.Previous()
	}

	if m.focus == FocusState {
		m.totals = m.session.SelectState(sel.Value())
	} else {
		m.charts = m.session.SelectMonth(sel.Value())
	}
}

func (m *Model) updateFocus() {
	m.state.Focused = m.focus == FocusState
	m.month.Focused = m.focus == FocusMonth
}

// View renders the model
func (m *Model) View() string {
	if m.quitting {
		return emoji.GetEmoji("door") + " Bye!\n"
	}

	colWidth := max(30, m.width/2-2)
	m.state.Width = colWidth
	m.month.Width = colWidth

	header := m.styles.Title.Render("Covid-19 India")
	if m.notice != "" {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, "  ", m.styles.Muted.Render(m.notice))
	}

	colors := m.seriesColors()
	stats := components.NewTotalsStats(m.totals, colors)

	chartHeight := max(10, m.height-16)
	cases := components.NewBarChart(m.charts.Series.Cases, colWidth, chartHeight).SetColor(colors.Cases)
	deaths := components.NewBarChart(m.charts.Series.Deaths, colWidth, chartHeight).SetColor(colors.Deaths)

	sections := []string{
		header,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, m.state.Render(), m.month.Render()),
		stats.Render(),
		lipgloss.JoinHorizontal(lipgloss.Top, cases.Render(), deaths.Render()),
		m.renderFooter(),
	}
	if m.showHelp {
		sections = append(sections, m.renderHelp())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) seriesColors() components.CardColors {
	if IsColorDisabled() {
		return components.CardColors{Cases: lipgloss.NoColor{}, Deaths: lipgloss.NoColor{}, Cured: lipgloss.NoColor{}}
	}
	theme := m.styles.Theme
	return components.CardColors{Cases: theme.Cases, Deaths: theme.Deaths, Cured: theme.Cured}
}

func (m *Model) renderFooter() string {
	return m.styles.Muted.Render("tab: switch selector • ←/→: change • r: reset • ?: help • q: quit")
}

func (m *Model) renderHelp() string {
	lines := []string{
		m.styles.Header.Render(emoji.GetEmoji("help") + " Keys"),
		"tab / shift+tab   move focus between State and Month",
		"← → / h l         cycle the focused selector",
		"r                 back to All states and All months",
		"q / esc / ctrl+c  quit",
	}
	return m.styles.Box.Render(strings.Join(lines, "\n"))
}

// NewProgram wraps a model for d in a bubbletea program bound to ctx.
func NewProgram(ctx context.Context, d *dashboard.Dashboard, opts ...tea.ProgramOption) *tea.Program {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	return tea.NewProgram(NewModel(d), opts...)
}

// Run runs the program until the user quits or ctx ends.
func Run(ctx context.Context, p *tea.Program) error {
	_, err := p.Run()
	if err != nil && ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/CovTrack/internal/dashboard"
	"github.com/yildizm/CovTrack/internal/emoji"
)

var (
	mutedColor = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	titleColor = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"}
)

// StatsCard represents a statistics card component
type StatsCard struct {
	Title       string
	Value       string
	Description string
	Icon        string
	Color       lipgloss.TerminalColor
	Width       int
	Height      int
}

// NewStatsCard creates a new stats card
func NewStatsCard(title, value, description string) *StatsCard {
	return &StatsCard{
		Title:       title,
		Value:       value,
		Description: description,
		Color:       titleColor,
		Width:       26,
		Height:      4,
	}
}

// SetColor sets the color of the value
func (s *StatsCard) SetColor(c lipgloss.TerminalColor) *StatsCard {
	s.Color = c
	return s
}

// SetIcon sets the icon for the card
func (s *StatsCard) SetIcon(icon string) *StatsCard {
	s.Icon = icon
	return s
}

// SetSize sets the size of the card
func (s *StatsCard) SetSize(width, height int) *StatsCard {
	s.Width = width
	s.Height = height
	return s
}

// Render renders the stats card
func (s *StatsCard) Render() string {
	titleStyle := lipgloss.NewStyle().Foreground(titleColor).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(s.Color).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(mutedColor)
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(mutedColor).Padding(0, 1)

	title := titleStyle.Render(s.Title)
	if s.Icon != "" {
		title = s.Icon + " " + title
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		valueStyle.Render(s.Value),
		mutedStyle.Render(s.Description),
	)

	return boxStyle.
		Width(s.Width).
		Height(s.Height).
		Align(lipgloss.Center).
		Render(content)
}

// StatsDashboard lays out cards in rows.
type StatsDashboard struct {
	cards      []*StatsCard
	columns    int
	cardWidth  int
	cardHeight int
}

// NewStatsDashboard creates a new stats dashboard
func NewStatsDashboard(columns int) *StatsDashboard {
	if columns < 1 {
		columns = 1
	}
	return &StatsDashboard{
		columns:    columns,
		cardWidth:  26,
		cardHeight: 4,
	}
}

// AddCard adds a stats card to the dashboard
func (d *StatsDashboard) AddCard(card *StatsCard) {
	card.SetSize(d.cardWidth, d.cardHeight)
	d.cards = append(d.cards, card)
}

// SetCardSize sets the default size for all cards
func (d *StatsDashboard) SetCardSize(width, height int) {
	d.cardWidth = width
	d.cardHeight = height
	for _, card := range d.cards {
		card.SetSize(width, height)
	}
}

// Render renders the stats dashboard
func (d *StatsDashboard) Render() string {
	if len(d.cards) == 0 {
		return ""
	}

	var rows []string
	for i := 0; i < len(d.cards); i += d.columns {
		end := min(i+d.columns, len(d.cards))

		var rowCards []string
		for j := i; j < end; j++ {
			rowCards = append(rowCards, d.cards[j].Render())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rowCards...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// CardColors are the value colors of the three counters.
type CardColors struct {
	Cases  lipgloss.TerminalColor
	Deaths lipgloss.TerminalColor
	Cured  lipgloss.TerminalColor
}

// NewTotalsStats builds the three counter cards for a totals view.
func NewTotalsStats(v dashboard.TotalsView, colors CardColors) *StatsDashboard {
	d := NewStatsDashboard(3)
	d.AddCard(NewStatsCard("Total Cases", v.Cases, v.State).
		SetIcon(emoji.GetEmoji("cases")).SetColor(colors.Cases))
	d.AddCard(NewStatsCard("Total Deaths", v.Deaths, v.State).
		SetIcon(emoji.GetEmoji("deaths")).SetColor(colors.Deaths))
	d.AddCard(NewStatsCard("Cured", v.Cured, v.State).
		SetIcon(emoji.GetEmoji("cured")).SetColor(colors.Cured))
	return d
}

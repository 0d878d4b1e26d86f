package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/CovTrack/internal/dashboard"
)

// Selector is a one-line dropdown: a title and the current option with
// arrows to cycle through the rest.
type Selector struct {
	Title    string
	Icon     string
	Options  []dashboard.Option
	Selected int
	Focused  bool
	Width    int
}

// NewSelector creates a selector positioned on the first option.
func NewSelector(title string, options []dashboard.Option, width int) *Selector {
	return &Selector{Title: title, Options: options, Width: width}
}

// SetIcon sets the icon shown before the title.
func (s *Selector) SetIcon(icon string) *Selector {
	s.Icon = icon
	return s
}

// Next moves to the following option, wrapping around.
func (s *Selector) Next() {
	if len(s.Options) == 0 {
		return
	}
	s.Selected = (s.Selected + 1) % len(s.Options)
}

// Previous moves to the preceding option, wrapping around.
func (s *Selector) Previous() {
	if len(s.Options) == 0 {
		return
	}
	s.Selected = (s.Selected - 1 + len(s.Options)) % len(s.Options)
}

// Value returns the value of the current option, or "" when empty.
func (s *Selector) Value() string {
	if s.Selected < 0 || s.Selected >= len(s.Options) {
		return ""
	}
	return s.Options[s.Selected].Value
}

// SelectValue moves to the option with the given value and reports whether
// one was found.
func (s *Selector) SelectValue(value string) bool {
	for i, opt := range s.Options {
		if opt.Value == value {
			s.Selected = i
			return true
		}
	}
	return false
}

// Render renders the selector.
func (s *Selector) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(titleColor).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(mutedColor)
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(mutedColor).Padding(0, 1)
	if s.Focused {
		valueStyle = lipgloss.NewStyle().Foreground(titleColor).Bold(true)
		boxStyle = boxStyle.BorderForeground(titleColor)
	}

	title := headerStyle.Render(s.Title)
	if s.Icon != "" {
		title = s.Icon + " " + title
	}

	label := "-"
	if s.Selected >= 0 && s.Selected < len(s.Options) {
		label = s.Options[s.Selected].Label
	}
	value := valueStyle.Render(fmt.Sprintf("◀ %s ▶", label))
	position := lipgloss.NewStyle().Foreground(mutedColor).
		Render(fmt.Sprintf("(%d/%d)", s.Selected+1, len(s.Options)))

	joined := lipgloss.JoinVertical(lipgloss.Left, title, value+" "+position)
	return boxStyle.Width(s.Width).Render(joined)
}

package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/CovTrack/internal/dashboard"
)

// DashboardMsg replaces the dashboard after a dataset reload.
type DashboardMsg struct {
	Dashboard *dashboard.Dashboard
}

// reloadErrorMsg reports a failed reload; the current dashboard stays.
type reloadErrorMsg struct {
	err error
}

// ReloadFailed returns the message shown when a reload fails.
func ReloadFailed(err error) tea.Msg {
	return reloadErrorMsg{err: err}
}

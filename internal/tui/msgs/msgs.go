// Package msgs holds the messages that cross component boundaries in the TUI.
package msgs

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/api"
)

// StreakChangedMsg reports a habit's new streak after a completion or an undo
type StreakChangedMsg struct {
	HabitID string
	Streak  int
}

// UnauthorizedMsg is sent when the backend rejects the session; the app
// drops the session and navigates to the login screen.
type UnauthorizedMsg struct {
	Err error
}

// NavigateMsg asks the app to move to a path. Paths pass through the route guard.
type NavigateMsg struct {
	Path string
}

func Navigate(path string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Path: path} }
}

// StreakChanged emits a StreakChangedMsg
func StreakChanged(habitID string, streak int) tea.Cmd {
	return func() tea.Msg { return StreakChangedMsg{HabitID: habitID, Streak: streak} }
}

// CheckAuth returns a command announcing an expired session when err is a
// 401, and nil otherwise. Components call it on failures they otherwise swallow.
func CheckAuth(err error) tea.Cmd {
	if !api.IsUnauthorized(err) {
		return nil
	}
	return func() tea.Msg { return UnauthorizedMsg{Err: err} }
}

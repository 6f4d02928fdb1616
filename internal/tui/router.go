package tui

import (
	"strings"

	"github.com/julianstephens/habitual/internal/constants"
)

type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRegister
	ScreenDashboard
	ScreenHabits
	ScreenHabitDetail
	ScreenHabitForm
	ScreenTasks
	ScreenTaskForm
)

// tabs are the screens reachable with tab/shift+tab when signed in
var tabs = []struct {
	title string
	path  string
}{
	{"Dashboard", constants.PathDashboard},
	{"Habits", constants.PathHabits},
	{"Tasks", constants.PathTasks},
}

// route is a parsed path. ID is the habit or task id for detail and edit screens.
type route struct {
	Screen Screen
	ID     string
}

// HabitPath returns the detail path for a habit
func HabitPath(id string) string {
	return constants.PathHabits + "/" + id
}

func habitEditPath(id string) string {
	return HabitPath(id) + "/edit"
}

func taskEditPath(id string) string {
	return constants.PathTasks + "/" + id + "/edit"
}

// parseRoute maps a guarded path to a screen. Unknown paths land on the dashboard.
func parseRoute(path string) route {
	switch path {
	case constants.PathLogin:
		return route{Screen: ScreenLogin}
	case constants.PathRegister:
		return route{Screen: ScreenRegister}
	case constants.PathHabits:
		return route{Screen: ScreenHabits}
	case constants.PathHabitNew:
		return route{Screen: ScreenHabitForm}
	case constants.PathTasks:
		return route{Screen: ScreenTasks}
	case constants.PathTaskNew:
		return route{Screen: ScreenTaskForm}
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case len(parts) == 2 && parts[0] == "habits":
		return route{Screen: ScreenHabitDetail, ID: parts[1]}
	case len(parts) == 3 && parts[0] == "habits" && parts[2] == "edit":
		return route{Screen: ScreenHabitForm, ID: parts[1]}
	case len(parts) == 3 && parts[0] == "tasks" && parts[2] == "edit":
		return route{Screen: ScreenTaskForm, ID: parts[1]}
	}
	return route{Screen: ScreenDashboard}
}

// tabIndex returns the tab the screen belongs to, or -1
func tabIndex(s Screen) int {
	switch s {
	case ScreenDashboard:
		return 0
	case ScreenHabits, ScreenHabitDetail, ScreenHabitForm:
		return 1
	case ScreenTasks, ScreenTaskForm:
		return 2
	}
	return -1
}

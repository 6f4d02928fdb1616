package tui

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/api"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

type navigateStartMsg struct{}

type dashboardLoadedMsg struct {
	gen    uint64
	habits []models.Habit
	tasks  []models.Task
	err    error
}

type habitsLoadedMsg struct {
	gen  uint64
	resp *models.HabitListResponse
	err  error
}

type habitDetailLoadedMsg struct {
	gen     uint64
	habit   *models.Habit
	refresh bool
	err     error
}

type tasksLoadedMsg struct {
	gen  uint64
	resp *models.TaskListResponse
	err  error
}

type habitFormReadyMsg struct {
	gen     uint64
	habit   *models.Habit
	anchors []models.Habit
	err     error
}

type taskFormReadyMsg struct {
	gen  uint64
	task *models.Task
	tags []string
	err  error
}

type authDoneMsg struct {
	user     *models.User
	register bool
	err      error
}

type habitSavedMsg struct {
	habit   *models.Habit
	created bool
	err     error
}

type taskSavedMsg struct {
	task    *models.Task
	created bool
	err     error
}

type habitAction string

const (
	actionArchive     habitAction = "archived"
	actionRestore     habitAction = "restored"
	actionDelete      habitAction = "deleted"
	actionForceDelete habitAction = "force deleted"
)

type habitActionMsg struct {
	action habitAction
	id     string
	err    error
}

type taskAction string

const (
	actionComplete   taskAction = "completed"
	actionDeleteTask taskAction = "deleted"
)

type taskActionMsg struct {
	action taskAction
	id     string
	err    error
}

type loggedOutMsg struct {
	err error
}

type copiedMsg struct {
	err error
}

// writeClipboard is swapped in tests
var writeClipboard = clipboard.WriteAll

func dashboardFilters() (models.HabitFilters, models.TaskFilters) {
	hf := models.NewHabitFilters("", models.StatusSelectActive, constants.DefaultHabitPageLimit)
	tf := models.TaskFilters{Status: models.TaskStatusPending, Sort: models.SortDueDateAsc, Limit: constants.DefaultTaskPageLimit}
	return hf, tf
}

func (m Model) loadDashboardCmd(gen uint64) tea.Cmd {
	b, uid := m.backend, m.userID()
	hf, tf := dashboardFilters()
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()

		habits, err := b.ListHabits(ctx, uid, hf)
		if err != nil {
			return dashboardLoadedMsg{gen: gen, err: err}
		}
		tasks, err := b.ListTasks(ctx, uid, tf)
		if err != nil {
			return dashboardLoadedMsg{gen: gen, err: err}
		}
		return dashboardLoadedMsg{gen: gen, habits: habits.Habits, tasks: tasks.Tasks}
	}
}

func (m Model) loadHabitsCmd(gen uint64, f models.HabitFilters) tea.Cmd {
	b, uid := m.backend, m.userID()
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		resp, err := b.ListHabits(ctx, uid, f)
		return habitsLoadedMsg{gen: gen, resp: resp, err: err}
	}
}

func (m Model) loadHabitCmd(gen uint64, id string, refresh bool) tea.Cmd {
	b, uid := m.backend, m.userID()
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		h, err := b.GetHabit(ctx, uid, id)
		return habitDetailLoadedMsg{gen: gen, habit: h, refresh: refresh, err: err}
	}
}

func (m Model) loadTasksCmd(gen uint64, f models.TaskFilters) tea.Cmd {
	b, uid := m.backend, m.userID()
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		resp, err := b.ListTasks(ctx, uid, f)
		return tasksLoadedMsg{gen: gen, resp: resp, err: err}
	}
}

// prepareHabitFormCmd fetches the anchor candidates and, when editing, the
// habit itself. A failed anchor listing leaves the anchor select empty.
func (m Model) prepareHabitFormCmd(gen uint64, id string) tea.Cmd {
	b, uid := m.backend, m.userID()
	f := models.NewHabitFilters("", models.StatusSelectActive, constants.DefaultHabitPageLimit)
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()

		msg := habitFormReadyMsg{gen: gen}
		if id != "" {
			msg.habit, msg.err = b.GetHabit(ctx, uid, id)
			if msg.err != nil {
				return msg
			}
		}
		if resp, err := b.ListHabits(ctx, uid, f); err == nil {
			msg.anchors = resp.Habits
		}
		return msg
	}
}

func (m Model) prepareTaskFormCmd(gen uint64, id string) tea.Cmd {
	b, uid := m.backend, m.userID()
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()

		msg := taskFormReadyMsg{gen: gen}
		if id != "" {
			msg.task, msg.err = b.GetTask(ctx, uid, id)
			if msg.err != nil {
				return msg
			}
		}
		if tags, err := b.TaskTags(ctx, uid); err == nil {
			msg.tags = tags
		}
		return msg
	}
}

func (m Model) authCmd(creds models.Credentials, register bool) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()

		var (
			u   *models.User
			err error
		)
		if register {
			u, err = s.Register(ctx, creds)
		} else {
			u, err = s.SignIn(ctx, creds)
		}
		return authDoneMsg{user: u, register: register, err: err}
	}
}

func (m Model) createHabitCmd(in models.HabitCreate) tea.Cmd {
	b, uid := m.backend, m.userID()
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		h, err := b.CreateHabit(ctx, uid, in)
		return habitSavedMsg{habit: h, created: true, err: err}
	}
}

func (m Model) updateHabitCmd(id string, in models.HabitUpdate) tea.Cmd {
	b, uid := m.backend, m.userID()
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		h, err := b.UpdateHabit(ctx, uid, id, in)
		return habitSavedMsg{habit: h, err: err}
	}
}

func (m Model) habitActionCmd(action habitAction, id string) tea.Cmd {
	b, uid := m.backend, m.userID()
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()

		var err error
		switch action {
		case actionArchive:
			_, err = b.ArchiveHabit(ctx, uid, id)
		case actionRestore:
			_, err = b.RestoreHabit(ctx, uid, id)
		case actionDelete:
			err = b.DeleteHabit(ctx, uid, id, false)
		case actionForceDelete:
			err = b.DeleteHabit(ctx, uid, id, true)
		}
		return habitActionMsg{action: action, id: id, err: err}
	}
}

func (m Model) createTaskCmd(in models.TaskCreate) tea.Cmd {
	b, uid := m.backend, m.userID()
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		t, err := b.CreateTask(ctx, uid, in)
		return taskSavedMsg{task: t, created: true, err: err}
	}
}

func (m Model) updateTaskCmd(id string, in models.TaskUpdate) tea.Cmd {
	b, uid := m.backend, m.userID()
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		t, err := b.UpdateTask(ctx, uid, id, in)
		return taskSavedMsg{task: t, err: err}
	}
}

func (m Model) taskActionCmd(action taskAction, id string) tea.Cmd {
	b, uid := m.backend, m.userID()
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()

		var err error
		switch action {
		case actionComplete:
			_, err = b.CompleteTask(ctx, uid, id)
		case actionDeleteTask:
			err = b.DeleteTask(ctx, uid, id)
		}
		return taskActionMsg{action: action, id: id, err: err}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		return loggedOutMsg{err: s.SignOut(ctx)}
	}
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: writeClipboard(text)}
	}
}

// isMissing reports whether err means the record no longer exists
func isMissing(err error) bool {
	return api.IsNotFound(err)
}

// isAnchorConflict reports whether a delete was refused because other habits
// stack on this one
func isAnchorConflict(err error) bool {
	return api.IsConflict(err)
}

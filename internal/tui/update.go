package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/session"
	"github.com/julianstephens/habitual/internal/tui/components/checkbox"
	"github.com/julianstephens/habitual/internal/tui/components/habits"
	"github.com/julianstephens/habitual/internal/tui/components/history"
	"github.com/julianstephens/habitual/internal/tui/components/streak"
	"github.com/julianstephens/habitual/internal/tui/components/tasklist"
	"github.com/julianstephens/habitual/internal/tui/components/toast"
	"github.com/julianstephens/habitual/internal/tui/msgs"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.habitsModel.SetSize(msg.Width-4, msg.Height-8)
		m.taskList.SetSize(msg.Width-4, msg.Height-10)
		if m.form != nil {
			m.form = m.form.WithWidth(msg.Width - 4)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case navigateStartMsg:
		if m.session.Offline() {
			m, cmd := m.navigate(m.path)
			return m, tea.Batch(cmd, toast.Info("Offline: showing the saved session"))
		}
		return m.navigate(m.path)

	case msgs.NavigateMsg:
		return m.navigate(msg.Path)

	case msgs.UnauthorizedMsg:
		logger.Info("Session rejected by backend", "error", msg.Err)
		m.session.Expire()
		m, cmd := m.navigate(constants.PathLogin)
		return m, tea.Batch(cmd, toast.Error("Session expired, please log in again"))

	case dashboardLoadedMsg:
		return m.dashboardLoaded(msg)

	case habitsLoadedMsg:
		if !m.habitsGen.IsCurrent(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			logger.Warn("Failed to load habits", "error", msg.err)
			m.habitsModel.SetHabits(nil, m.now().In(m.loc))
			return m, msgs.CheckAuth(msg.err)
		}
		m.habitsModel.SetHabits(msg.resp.Habits, m.now().In(m.loc))
		return m, nil

	case habitDetailLoadedMsg:
		return m.habitDetailLoaded(msg)

	case tasksLoadedMsg:
		if !m.tasksGen.IsCurrent(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			logger.Warn("Failed to load tasks", "error", msg.err)
			m.taskList.SetTasks(&models.TaskListResponse{}, m.now().In(m.loc))
			return m, msgs.CheckAuth(msg.err)
		}
		m.taskList.SetTasks(msg.resp, m.now().In(m.loc))
		return m, nil

	case habitFormReadyMsg:
		if !m.formGen.IsCurrent(msg.gen) || m.screen != ScreenHabitForm {
			return m, nil
		}
		m.formLoading = false
		if msg.err != nil {
			return m.loadFailed(msg.err, "Habit not found", constants.PathHabits)
		}
		m.habitForm = NewHabitFormModel(msg.habit, msg.anchors)
		m.form = NewHabitForm(m.habitForm).WithWidth(max(m.width-4, 40))
		return m, m.form.Init()

	case taskFormReadyMsg:
		if !m.formGen.IsCurrent(msg.gen) || m.screen != ScreenTaskForm {
			return m, nil
		}
		m.formLoading = false
		if msg.err != nil {
			return m.loadFailed(msg.err, "Task not found", constants.PathTasks)
		}
		m.taskForm = NewTaskFormModel(msg.task, msg.tags)
		m.form = NewTaskForm(m.taskForm).WithWidth(max(m.width-4, 40))
		return m, m.form.Init()

	case authDoneMsg:
		m.submitting = false
		if msg.err != nil {
			logger.Warn("Authentication failed", "register", msg.register, "error", msg.err)
			return m.reopenForm(errors.Describe(msg.err))
		}
		greeting := "Welcome back"
		if msg.register {
			greeting = "Account created"
		}
		m, cmd := m.navigate(constants.PathDashboard)
		return m, tea.Batch(cmd, toast.Success(greeting+", "+msg.user.Email))

	case habitSavedMsg:
		m.submitting = false
		if msg.err != nil {
			logger.Warn("Failed to save habit", "error", msg.err)
			return m.reopenForm(errors.Describe(msg.err))
		}
		text := "Habit updated"
		if msg.created {
			text = "Habit created"
		}
		m, cmd := m.navigate(HabitPath(msg.habit.ID))
		return m, tea.Batch(cmd, toast.Success(text))

	case taskSavedMsg:
		m.submitting = false
		if msg.err != nil {
			logger.Warn("Failed to save task", "error", msg.err)
			return m.reopenForm(errors.Describe(msg.err))
		}
		text := "Task updated"
		if msg.created {
			text = "Task created"
		}
		m, cmd := m.navigate(constants.PathTasks)
		return m, tea.Batch(cmd, toast.Success(text))

	case habitActionMsg:
		return m.habitActionDone(msg)

	case taskActionMsg:
		if msg.err != nil {
			logger.Warn("Task action failed", "action", msg.action, "task_id", msg.id, "error", msg.err)
			return m, tea.Batch(toast.Error(errors.Describe(msg.err)), msgs.CheckAuth(msg.err))
		}
		m, cmd := m.reload()
		return m, tea.Batch(cmd, toast.Success("Task "+string(msg.action)))

	case loggedOutMsg:
		if msg.err != nil {
			logger.Warn("Logout request failed", "error", msg.err)
		}
		m, cmd := m.navigate(constants.PathLogin)
		return m, tea.Batch(cmd, toast.Info("Signed out"))

	case copiedMsg:
		if msg.err != nil {
			logger.Warn("Failed to copy to clipboard", "error", msg.err)
			return m, toast.Error("Could not copy to the clipboard")
		}
		return m, toast.Success("Stacking cue copied")

	case habits.AddHabitMsg:
		return m.navigate(constants.PathHabitNew)
	case habits.EditHabitMsg:
		return m.navigate(habitEditPath(msg.Habit.ID))
	case habits.OpenHabitMsg:
		return m.navigate(HabitPath(msg.ID))
	case habits.ArchiveHabitMsg:
		return m, m.habitActionCmd(actionArchive, msg.ID)
	case habits.RestoreHabitMsg:
		return m, m.habitActionCmd(actionRestore, msg.ID)
	case habits.DeleteHabitMsg:
		m.confirm = &confirmation{kind: confirmDeleteHabit, id: msg.Habit.ID, title: msg.Habit.IdentityStatement}
		return m, nil
	case habits.FiltersChangedMsg:
		return m.loadHabits()

	case tasklist.AddTaskMsg:
		return m.navigate(constants.PathTaskNew)
	case tasklist.EditTaskMsg:
		return m.navigate(taskEditPath(msg.Task.ID))
	case tasklist.CompleteTaskMsg:
		return m, m.taskActionCmd(actionComplete, msg.ID)
	case tasklist.DeleteTaskMsg:
		m.confirm = &confirmation{kind: confirmDeleteTask, id: msg.Task.ID, title: msg.Task.Title}
		return m, nil
	case tasklist.FiltersChangedMsg:
		return m.loadTasks()

	case msgs.StreakChangedMsg:
		m, cmd := m.broadcast(msg)
		if m.screen == ScreenHabitDetail && m.detail != nil && m.detail.ID == msg.HabitID {
			m.detail.CurrentStreak = msg.Streak
			return m, tea.Batch(cmd, m.loadHabitCmd(m.detailGen.Next(), msg.HabitID, true))
		}
		return m, cmd
	}

	return m.broadcast(msg)
}

// broadcast hands msg to every component that routes its own async results
func (m Model) broadcast(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.toasts, cmd = m.toasts.Update(msg)
	cmds = append(cmds, cmd)

	for i := range m.dashRows {
		m.dashRows[i].check, cmd = m.dashRows[i].check.Update(msg)
		cmds = append(cmds, cmd)
		m.dashRows[i].streak, cmd = m.dashRows[i].streak.Update(msg)
		cmds = append(cmds, cmd)
		if sc, ok := msg.(msgs.StreakChangedMsg); ok && sc.HabitID == m.dashRows[i].habit.ID {
			m.dashRows[i].habit.CurrentStreak = sc.Streak
		}
	}

	if m.detail != nil {
		m.detailCheck, cmd = m.detailCheck.Update(msg)
		cmds = append(cmds, cmd)
		m.detailStreak, cmd = m.detailStreak.Update(msg)
		cmds = append(cmds, cmd)
		m.history, cmd = m.history.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.taskList, cmd = m.taskList.Update(msg)
	cmds = append(cmds, cmd)

	if m.form != nil {
		return m.updateForm(msg, cmds...)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.confirm != nil {
		return m.handleConfirmKey(msg)
	}

	switch m.screen {
	case ScreenLogin, ScreenRegister, ScreenHabitForm, ScreenTaskForm:
		return m.handleFormKey(msg)
	}

	if !m.inputFocused() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			return m.navigate(tabs[(tabIndex(m.screen)+1)%len(tabs)].path)
		case key.Matches(msg, m.keys.ShiftTab):
			return m.navigate(tabs[(tabIndex(m.screen)-1+len(tabs))%len(tabs)].path)
		case key.Matches(msg, m.keys.Refresh):
			return m.reload()
		case key.Matches(msg, m.keys.Logout):
			return m, m.logoutCmd()
		}
	}

	switch m.screen {
	case ScreenDashboard:
		return m.handleDashboardKey(msg)
	case ScreenHabits:
		var cmd tea.Cmd
		m.habitsModel, cmd = m.habitsModel.Update(msg)
		return m, cmd
	case ScreenHabitDetail:
		return m.handleDetailKey(msg)
	case ScreenTasks:
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		c := *m.confirm
		m.confirm = nil
		switch c.kind {
		case confirmDeleteHabit:
			return m, m.habitActionCmd(actionDelete, c.id)
		case confirmForceDeleteHabit:
			return m, m.habitActionCmd(actionForceDelete, c.id)
		case confirmDeleteTask:
			return m, m.taskActionCmd(actionDeleteTask, c.id)
		}
	case key.Matches(msg, m.keys.Deny):
		m.confirm = nil
	}
	return m, nil
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for i := range m.dashRows {
		if m.dashRows[i].check.ModalOpen() {
			m.dashRows[i].check, cmd = m.dashRows[i].check.Update(msg)
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.dashCursor > 0 {
			m.dashCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.dashCursor < len(m.dashRows)-1 {
			m.dashCursor++
		}
	case key.Matches(msg, m.keys.Complete):
		if m.dashCursor < len(m.dashRows) {
			m.dashRows[m.dashCursor].check, cmd = m.dashRows[m.dashCursor].check.Toggle()
			return m, cmd
		}
	case key.Matches(msg, m.keys.Enter):
		if m.dashCursor < len(m.dashRows) {
			return m.navigate(HabitPath(m.dashRows[m.dashCursor].habit.ID))
		}
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail == nil {
		if key.Matches(msg, m.keys.Back) {
			return m.navigate(constants.PathHabits)
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.detailCheck.ModalOpen() {
		m.detailCheck, cmd = m.detailCheck.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Complete):
		m.detailCheck, cmd = m.detailCheck.Toggle()
		return m, cmd
	case key.Matches(msg, m.keys.Edit):
		return m.navigate(habitEditPath(m.detail.ID))
	case key.Matches(msg, m.keys.Back):
		return m.navigate(constants.PathHabits)
	case key.Matches(msg, m.keys.CopyCue):
		return m.copyCue(derefCue(m.detail))
	}

	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

func derefCue(h *models.Habit) string {
	if h == nil || h.HabitStackingCue == nil {
		return ""
	}
	return *h.HabitStackingCue
}

func (m Model) copyCue(cue string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(cue) == "" {
		return m, toast.Info("No stacking cue to copy")
	}
	return m, copyCmd(cue)
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case ScreenLogin:
		if key.Matches(msg, m.keys.Register) {
			return m.navigate(constants.PathRegister)
		}
	case ScreenRegister:
		if key.Matches(msg, m.keys.Login) {
			return m.navigate(constants.PathLogin)
		}
	case ScreenHabitForm:
		if key.Matches(msg, m.keys.CopyCue) && m.habitForm != nil {
			return m.copyCue(m.habitForm.Cue())
		}
		if key.Matches(msg, m.keys.Back) {
			return m.navigate(m.formBackPath())
		}
	case ScreenTaskForm:
		if key.Matches(msg, m.keys.Back) {
			return m.navigate(constants.PathTasks)
		}
	}

	if m.form == nil || m.submitting {
		return m, nil
	}
	return m.updateForm(msg)
}

func (m Model) formBackPath() string {
	if m.habitForm != nil && m.habitForm.EditingID != "" {
		return HabitPath(m.habitForm.EditingID)
	}
	return constants.PathHabits
}

// updateForm advances the active huh form and submits it once completed
func (m Model) updateForm(msg tea.Msg, cmds ...tea.Cmd) (Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)
	if m.screen == ScreenHabitForm && m.habitForm != nil {
		m.habitForm.SyncCue()
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.submitting {
			break
		}
		next, submit := m.submitForm()
		return next, tea.Batch(append(cmds, submit)...)
	case huh.StateAborted:
		switch m.screen {
		case ScreenHabitForm:
			next, nav := m.navigate(m.formBackPath())
			return next, tea.Batch(append(cmds, nav)...)
		case ScreenTaskForm:
			next, nav := m.navigate(constants.PathTasks)
			return next, tea.Batch(append(cmds, nav)...)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) submitForm() (Model, tea.Cmd) {
	m.formError = ""
	switch m.screen {
	case ScreenLogin, ScreenRegister:
		creds := m.authForm.Credentials()
		if res := m.val.ValidateCredentials(creds); res.HasErrors() {
			return m.reopenForm(res.Err().Error())
		}
		m.submitting = true
		return m, m.authCmd(creds, m.screen == ScreenRegister)

	case ScreenHabitForm:
		fm := m.habitForm
		if fm.EditingID == "" {
			in := fm.ToCreate()
			if res := m.val.ValidateHabit(in); res.HasErrors() {
				return m.reopenForm(res.Err().Error())
			}
			m.submitting = true
			return m, m.createHabitCmd(in)
		}
		in := fm.ToUpdate()
		if res := m.val.ValidateHabitUpdate(in); res.HasErrors() {
			return m.reopenForm(res.Err().Error())
		}
		m.submitting = true
		return m, m.updateHabitCmd(fm.EditingID, in)

	case ScreenTaskForm:
		fm := m.taskForm
		if fm.EditingID == "" {
			in, err := fm.ToCreate(m.loc)
			if err != nil {
				return m.reopenForm(err.Error())
			}
			if res := m.val.ValidateTask(in); res.HasErrors() {
				return m.reopenForm(res.Err().Error())
			}
			m.submitting = true
			return m, m.createTaskCmd(in)
		}
		in, err := fm.ToUpdate(m.loc)
		if err != nil {
			return m.reopenForm(err.Error())
		}
		if res := m.val.ValidateTaskUpdate(in); res.HasErrors() {
			return m.reopenForm(res.Err().Error())
		}
		m.submitting = true
		return m, m.updateTaskCmd(fm.EditingID, in)
	}
	return m, nil
}

// reopenForm rebuilds the current form over the same values after a failed
// submission and reports the failure as an error toast
func (m Model) reopenForm(text string) (Model, tea.Cmd) {
	m.formError = text
	switch m.screen {
	case ScreenLogin:
		m.form = NewLoginForm(m.authForm)
	case ScreenRegister:
		m.form = NewRegisterForm(m.authForm)
	case ScreenHabitForm:
		m.form = NewHabitForm(m.habitForm)
	case ScreenTaskForm:
		m.form = NewTaskForm(m.taskForm)
	default:
		return m, toast.Error(text)
	}
	m.form = m.form.WithWidth(max(m.width-4, 40))
	return m, tea.Batch(m.form.Init(), toast.Error(text))
}

func (m Model) loadFailed(err error, missing, fallback string) (Model, tea.Cmd) {
	if cmd := msgs.CheckAuth(err); cmd != nil {
		return m, cmd
	}
	text := errors.Describe(err)
	if isMissing(err) {
		text = missing
	}
	logger.Warn("Failed to load record", "path", m.path, "error", err)
	m, cmd := m.navigate(fallback)
	return m, tea.Batch(cmd, toast.Error(text))
}

// navigate moves to path after passing it through the route guard and
// starts whatever loading the destination screen needs
func (m Model) navigate(path string) (Model, tea.Cmd) {
	authenticated := m.session.Authenticated()
	if path == "" || path == constants.PathHome {
		path = constants.PathDashboard
	}
	path = session.Guard(path, authenticated)
	r := parseRoute(path)
	if !authenticated && r.Screen != ScreenLogin && r.Screen != ScreenRegister {
		path, r = constants.PathLogin, route{Screen: ScreenLogin}
	}

	logger.Debug("Navigate", "path", path)
	m.path = path
	m.screen = r.Screen
	m.confirm = nil
	m.form = nil
	m.formError = ""
	m.submitting = false
	m.formLoading = false

	switch r.Screen {
	case ScreenLogin:
		m.authForm = &CredentialsFormModel{}
		m.form = NewLoginForm(m.authForm).WithWidth(max(m.width-4, 40))
		return m, m.form.Init()
	case ScreenRegister:
		m.authForm = &CredentialsFormModel{}
		m.form = NewRegisterForm(m.authForm).WithWidth(max(m.width-4, 40))
		return m, m.form.Init()
	case ScreenDashboard:
		m.dashLoaded = false
		return m, m.loadDashboardCmd(m.dashGen.Next())
	case ScreenHabits:
		return m.loadHabits()
	case ScreenHabitDetail:
		m.detail = nil
		return m, m.loadHabitCmd(m.detailGen.Next(), r.ID, false)
	case ScreenHabitForm:
		m.habitForm = nil
		m.formLoading = true
		return m, m.prepareHabitFormCmd(m.formGen.Next(), r.ID)
	case ScreenTaskForm:
		m.taskForm = nil
		m.formLoading = true
		return m, m.prepareTaskFormCmd(m.formGen.Next(), r.ID)
	case ScreenTasks:
		return m.loadTasks()
	}
	return m, nil
}

// reload refetches the current screen without resetting its filters
func (m Model) reload() (Model, tea.Cmd) {
	switch m.screen {
	case ScreenDashboard:
		return m, m.loadDashboardCmd(m.dashGen.Next())
	case ScreenHabits:
		return m.loadHabits()
	case ScreenHabitDetail:
		if m.detail != nil {
			return m, m.loadHabitCmd(m.detailGen.Next(), m.detail.ID, false)
		}
	case ScreenTasks:
		return m.loadTasks()
	}
	return m, nil
}

func (m Model) loadHabits() (Model, tea.Cmd) {
	return m, m.loadHabitsCmd(m.habitsGen.Next(), m.habitsModel.Filters())
}

func (m Model) loadTasks() (Model, tea.Cmd) {
	return m, m.loadTasksCmd(m.tasksGen.Next(), m.taskList.Filters())
}

func (m Model) dashboardLoaded(msg dashboardLoadedMsg) (Model, tea.Cmd) {
	if !m.dashGen.IsCurrent(msg.gen) {
		return m, nil
	}
	m.dashLoaded = true
	if msg.err != nil {
		logger.Warn("Failed to load dashboard", "error", msg.err)
		m.dashRows, m.dashTasks = nil, nil
		return m, msgs.CheckAuth(msg.err)
	}

	today := m.now().In(m.loc)
	uid := m.userID()
	rows := make([]dashboardRow, len(msg.habits))
	for i, h := range msg.habits {
		rows[i] = dashboardRow{
			habit:  h,
			check:  checkbox.New(m.backend, uid, h, h.CompletedOn(today)).WithTimeout(m.timeout),
			streak: streak.New(h.ID, h.CurrentStreak, true),
		}
	}
	m.dashRows = rows
	m.dashTasks = msg.tasks
	if m.dashCursor >= len(rows) {
		m.dashCursor = max(len(rows)-1, 0)
	}
	return m, nil
}

func (m Model) habitDetailLoaded(msg habitDetailLoadedMsg) (Model, tea.Cmd) {
	if !m.detailGen.IsCurrent(msg.gen) || m.screen != ScreenHabitDetail {
		return m, nil
	}
	if msg.err != nil {
		if msg.refresh {
			logger.Debug("Failed to refresh habit", "error", msg.err)
			return m, msgs.CheckAuth(msg.err)
		}
		return m.loadFailed(msg.err, "Habit not found", constants.PathHabits)
	}

	h := msg.habit
	today := m.now().In(m.loc)
	if msg.refresh && m.detail != nil && m.detail.ID == h.ID {
		// Only settle the checkbox; a completion in flight owns its state
		m.detail = h
		done := h.CompletedOn(today)
		switch m.detailCheck.State() {
		case checkbox.Unchecked, checkbox.Completed:
			if done != (m.detailCheck.State() == checkbox.Completed) {
				m.detailCheck = m.detailCheck.Reset(done)
			}
		}
		var cmd tea.Cmd
		m.detailStreak, cmd = m.detailStreak.Set(h.CurrentStreak)
		return m, cmd
	}

	m.detail = h
	uid := m.userID()
	m.detailCheck = checkbox.New(m.backend, uid, *h, h.CompletedOn(today)).WithTimeout(m.timeout)
	m.detailStreak = streak.New(h.ID, h.CurrentStreak, false)
	m.history = history.New(m.backend, uid, h.ID, m.loc).WithTimeout(m.timeout)
	var cmd tea.Cmd
	m.history, cmd = m.history.Load()
	return m, cmd
}

func (m Model) habitActionDone(msg habitActionMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		if msg.action == actionDelete && isAnchorConflict(msg.err) {
			m.confirm = &confirmation{kind: confirmForceDeleteHabit, id: msg.id}
			return m, nil
		}
		logger.Warn("Habit action failed", "action", msg.action, "habit_id", msg.id, "error", msg.err)
		return m, tea.Batch(toast.Error(errors.Describe(msg.err)), msgs.CheckAuth(msg.err))
	}
	text := "Habit " + string(msg.action)
	if msg.action == actionForceDelete {
		text = "Habit deleted"
	}
	m, cmd := m.reload()
	return m, tea.Batch(cmd, toast.Success(text))
}

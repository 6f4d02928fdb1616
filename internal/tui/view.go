package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/tui/components/checkbox"
	"github.com/julianstephens/habitual/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch {
	case m.confirm != nil:
		content = m.viewConfirm()
	case m.modalOpen():
		content = m.viewModal()
	default:
		switch m.screen {
		case ScreenLogin, ScreenRegister:
			content = m.viewAuth()
		case ScreenDashboard:
			content = docStyle.Render(m.viewDashboard())
		case ScreenHabits:
			content = docStyle.Render(m.habitsModel.View())
		case ScreenHabitDetail:
			content = docStyle.Render(m.viewHabitDetail())
		case ScreenHabitForm, ScreenTaskForm:
			content = docStyle.Render(m.viewForm())
		case ScreenTasks:
			content = docStyle.Render(m.taskList.View())
		}
	}

	parts := []string{m.viewHeader(), content}
	if t := m.toasts.View(); t != "" {
		parts = append(parts, t)
	}
	parts = append(parts, m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewHeader() string {
	if m.screen == ScreenLogin || m.screen == ScreenRegister {
		return headingStyle.Render(constants.AppName)
	}

	active := tabIndex(m.screen)
	var rendered []string
	for i, t := range tabs {
		if i == active {
			rendered = append(rendered, activeTabStyle.Render(t.title))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(t.title))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	if u := m.session.User(); u != nil {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, userStyle.Render(u.Email))
	}
	if m.session.Offline() {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, warningStyle.Render("  offline"))
	}
	return header
}

func (m Model) viewAuth() string {
	if m.form == nil {
		return ""
	}
	body := m.form.View()
	if m.submitting {
		body = lipgloss.JoinVertical(lipgloss.Left, body, subtleStyle.Render("Signing in…"))
	}
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		body,
	)
}

func (m Model) viewForm() string {
	if m.formLoading || m.form == nil {
		return subtleStyle.Render("Loading…")
	}
	title := "New habit"
	switch {
	case m.screen == ScreenHabitForm && m.habitForm != nil && m.habitForm.EditingID != "":
		title = "Edit habit"
	case m.screen == ScreenTaskForm && m.taskForm != nil && m.taskForm.EditingID != "":
		title = "Edit task"
	case m.screen == ScreenTaskForm:
		title = "New task"
	}

	parts := []string{headingStyle.Render(title), m.form.View()}
	if m.formError != "" {
		parts = append(parts, dangerStyle.Render(m.formError))
	}
	if m.submitting {
		parts = append(parts, subtleStyle.Render("Saving…"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewDashboard() string {
	if !m.dashLoaded {
		return subtleStyle.Render("Loading…")
	}

	now := m.now().In(m.loc)
	var b strings.Builder
	b.WriteString(headingStyle.Render("Today · " + now.Format(constants.DisplayDateFormat)))
	b.WriteString("\n\n")

	if len(m.dashRows) == 0 {
		b.WriteString(subtleStyle.Render("No active habits. Press tab to add one on the Habits screen."))
		b.WriteString("\n")
	}
	done := 0
	for i, r := range m.dashRows {
		if r.check.State() == checkbox.Completed {
			done++
		}
		cursor := "  "
		if i == m.dashCursor {
			cursor = cursorStyle.Render("> ")
		}
		line := fmt.Sprintf("%s%s %s", cursor, r.check.View(), utils.Truncate(r.habit.IdentityStatement, 60))
		if s := r.streak.View(); s != "" {
			line += "  " + s
		}
		b.WriteString(line)
		b.WriteString("\n")
		b.WriteString(subtleStyle.Render("      " + r.habit.TwoMinuteVersion))
		b.WriteString("\n")
	}

	if len(m.dashRows) > 0 {
		b.WriteString(subtleStyle.Render(fmt.Sprintf("%d of %d done today", done, len(m.dashRows))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(headingStyle.Render("Pending tasks"))
	b.WriteString("\n")
	if len(m.dashTasks) == 0 {
		b.WriteString(subtleStyle.Render("Nothing pending."))
		b.WriteString("\n")
	}
	for _, t := range m.dashTasks {
		line := "  • " + utils.Truncate(t.Title, 60)
		if t.DueDate != nil {
			due := utils.FormatDueDate(t.DueDate, t.Status, now)
			if utils.IsOverdue(t.DueDate, t.Status, now) {
				line += "  " + dangerStyle.Render(due)
			} else {
				line += "  " + subtleStyle.Render(due)
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewHabitDetail() string {
	if m.detail == nil {
		return subtleStyle.Render("Loading habit…")
	}
	h := m.detail

	lines := []string{
		headingStyle.Render(h.IdentityStatement),
		"",
		fmt.Sprintf("%s Today: %s", m.detailCheck.View(), h.TwoMinuteVersion),
		m.detailStreak.View(),
		subtleStyle.Render(fmt.Sprintf("%s · %s · %s",
			h.Category,
			utils.FormatRecurringSchedule(h.RecurringSchedule),
			utils.LastCompleted(*h, m.now().In(m.loc)),
		)),
	}
	if h.IsArchived() {
		lines = append(lines, warningStyle.Render("Archived"))
	}
	if cue := derefCue(h); cue != "" {
		lines = append(lines, cueStyle.Render(cue))
	}
	if h.FullDescription != nil && *h.FullDescription != "" {
		lines = append(lines, "", *h.FullDescription)
	}
	if h.Motivation != nil && *h.Motivation != "" {
		lines = append(lines, "", subtleStyle.Render("Why: ")+*h.Motivation)
	}
	lines = append(lines, "", headingStyle.Render("History"), m.history.View())
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewModal() string {
	var modal string
	switch m.screen {
	case ScreenDashboard:
		for _, r := range m.dashRows {
			if r.check.ModalOpen() {
				modal = r.check.ModalView()
				break
			}
		}
	case ScreenHabitDetail:
		modal = m.detailCheck.ModalView()
	}
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		modal,
	)
}

func (m Model) viewConfirm() string {
	var question string
	switch m.confirm.kind {
	case confirmDeleteHabit:
		question = fmt.Sprintf("Delete habit %q?", utils.Truncate(m.confirm.title, 50))
	case confirmForceDeleteHabit:
		question = "Other habits stack on this one. Delete it anyway?"
	case confirmDeleteTask:
		question = fmt.Sprintf("Delete task %q?", utils.Truncate(m.confirm.title, 50))
	}
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(question),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

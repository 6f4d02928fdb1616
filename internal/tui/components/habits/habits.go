package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tui/components/streak"
	"github.com/julianstephens/habitual/internal/utils"
)

type AddHabitMsg struct{}

type EditHabitMsg struct {
	Habit models.Habit
}

type OpenHabitMsg struct {
	ID string
}

type ArchiveHabitMsg struct {
	ID string
}

type RestoreHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	Habit models.Habit
}

// FiltersChangedMsg is sent when the category or status selector moves
type FiltersChangedMsg struct {
	Filters models.HabitFilters
}

var statusCycle = []models.StatusSelection{
	models.StatusSelectActive,
	models.StatusSelectArchived,
	models.StatusSelectAll,
}

var (
	filterLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	filterActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

type Item struct {
	Habit     models.Habit
	Completed bool
	Now       time.Time
}

func (i Item) Title() string {
	title := utils.Truncate(i.Habit.IdentityStatement, 70)
	switch {
	case i.Habit.IsArchived():
		return "[ARCHIVED] " + title
	case i.Completed:
		return "✓ " + title
	}
	return "○ " + title
}

func (i Item) Description() string {
	parts := []string{
		string(i.Habit.Category),
		utils.FormatRecurringSchedule(i.Habit.RecurringSchedule),
	}
	if s := streak.Render(i.Habit.CurrentStreak, true, false); s != "" {
		parts = append(parts, s)
	}
	parts = append(parts, utils.LastCompleted(i.Habit, i.Now))
	return strings.Join(parts, " · ")
}

func (i Item) FilterValue() string { return i.Habit.IdentityStatement }

type KeyMap struct {
	Add      key.Binding
	Edit     key.Binding
	Open     key.Binding
	Archive  key.Binding
	Restore  key.Binding
	Delete   key.Binding
	Category key.Binding
	Status   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Archive: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "archive"),
		),
		Restore: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restore"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Category: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "category"),
		),
		Status: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "status"),
		),
	}
}

type Model struct {
	list     list.Model
	keys     KeyMap
	category int // 0 is "All", otherwise an index into models.HabitCategories plus one
	status   int
	loaded   bool
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Open, keys.Category, keys.Status}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Open, keys.Archive, keys.Restore, keys.Delete, keys.Category, keys.Status}
	}

	return Model{list: l, keys: keys}
}

func (m Model) Keys() KeyMap { return m.keys }

// Category returns the selected category; empty means all
func (m Model) Category() models.HabitCategory {
	if m.category == 0 {
		return ""
	}
	return models.HabitCategories[m.category-1]
}

func (m Model) Status() models.StatusSelection {
	return statusCycle[m.status]
}

// Filters builds the listing filters for the current selectors
func (m Model) Filters() models.HabitFilters {
	return models.NewHabitFilters(m.Category(), m.Status(), constants.DefaultHabitPageLimit)
}

// SetHabits replaces the list. completed reports which habits were done today.
func (m *Model) SetHabits(habits []models.Habit, now time.Time) {
	items := make([]list.Item, len(habits))
	for i, h := range habits {
		items[i] = Item{Habit: h, Completed: h.CompletedOn(now), Now: now}
	}
	m.list.SetItems(items)
	m.loaded = true
}

// Selected returns the highlighted habit
func (m Model) Selected() (models.Habit, bool) {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Habit, true
	}
	return models.Habit{}, false
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) filtersChanged() tea.Cmd {
	f := m.Filters()
	return func() tea.Msg { return FiltersChangedMsg{Filters: f} }
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Category):
			m.category = (m.category + 1) % (len(models.HabitCategories) + 1)
			return m, m.filtersChanged()
		case key.Matches(msg, m.keys.Status):
			m.status = (m.status + 1) % len(statusCycle)
			return m, m.filtersChanged()
		case key.Matches(msg, m.keys.Open):
			if h, ok := m.Selected(); ok {
				return m, func() tea.Msg { return OpenHabitMsg{ID: h.ID} }
			}
		case key.Matches(msg, m.keys.Edit):
			if h, ok := m.Selected(); ok {
				return m, func() tea.Msg { return EditHabitMsg{Habit: h} }
			}
		case key.Matches(msg, m.keys.Archive):
			if h, ok := m.Selected(); ok && !h.IsArchived() {
				return m, func() tea.Msg { return ArchiveHabitMsg{ID: h.ID} }
			}
		case key.Matches(msg, m.keys.Restore):
			if h, ok := m.Selected(); ok && h.IsArchived() {
				return m, func() tea.Msg { return RestoreHabitMsg{ID: h.ID} }
			}
		case key.Matches(msg, m.keys.Delete):
			if h, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{Habit: h} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) viewFilters() string {
	category := "All"
	if c := m.Category(); c != "" {
		category = string(c)
	}
	status := strings.ToUpper(string(m.Status())[:1]) + string(m.Status())[1:]
	return fmt.Sprintf("%s %s   %s %s",
		filterLabelStyle.Render("[c] Category:"), filterActiveStyle.Render(category),
		filterLabelStyle.Render("[s] Status:"), filterActiveStyle.Render(status),
	)
}

func (m Model) View() string {
	body := m.list.View()
	if !m.loaded {
		body = "\n  Loading habits…"
	} else if len(m.list.Items()) == 0 {
		body = "\n  No habits match these filters.\n  Press 'a' to add one."
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewFilters(), body)
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height-1)
}

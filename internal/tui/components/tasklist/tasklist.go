package tasklist

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/debounce"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

type AddTaskMsg struct{}

type EditTaskMsg struct {
	Task models.Task
}

type CompleteTaskMsg struct {
	ID string
}

type DeleteTaskMsg struct {
	Task models.Task
}

// FiltersChangedMsg asks the parent to reload with new filters
type FiltersChangedMsg struct {
	Filters models.TaskFilters
}

var (
	statusCycle   = []models.TaskStatus{"", models.TaskStatusPending, models.TaskStatusInProgress, models.TaskStatusCompleted}
	priorityCycle = []models.TaskPriority{models.PriorityNone, models.PriorityHigh, models.PriorityMedium, models.PriorityLow}
	sortCycle     = []models.TaskSort{
		models.SortCreatedDesc,
		models.SortCreatedAsc,
		models.SortDueDateAsc,
		models.SortDueDateDesc,
		models.SortPriorityDesc,
		models.SortPriorityAsc,
	}
)

var (
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	habitTagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
)

type Item struct {
	Task models.Task
	Now  time.Time
}

func (i Item) Title() string {
	if i.Task.Completed || i.Task.Status == models.TaskStatusCompleted {
		return "✓ " + i.Task.Title
	}
	return "○ " + i.Task.Title
}

func (i Item) Description() string {
	parts := []string{"priority: " + i.Task.Priority.Label()}

	due := utils.FormatDueDate(i.Task.DueDate, i.Task.Status, i.Now)
	if utils.IsOverdue(i.Task.DueDate, i.Task.Status, i.Now) {
		due = overdueStyle.Render(due)
	}
	parts = append(parts, due)

	if len(i.Task.Tags) > 0 {
		parts = append(parts, "#"+strings.Join(i.Task.Tags, " #"))
	}
	if i.Task.IsHabitTask {
		parts = append(parts, habitTagStyle.Render("habit"))
	}
	return strings.Join(parts, " · ")
}

func (i Item) FilterValue() string { return i.Task.Title }

type KeyMap struct {
	Add      key.Binding
	Edit     key.Binding
	Complete key.Binding
	Delete   key.Binding
	Search   key.Binding
	Blur     key.Binding
	Status   key.Binding
	Priority key.Binding
	Sort     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
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
		Complete: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle done"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Blur: key.NewBinding(
			key.WithKeys("esc", "enter"),
			key.WithHelp("esc", "done searching"),
		),
		Status: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "status"),
		),
		Priority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "priority"),
		),
		Sort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "sort"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev page"),
		),
	}
}

type Model struct {
	list      list.Model
	keys      KeyMap
	search    textinput.Model
	debouncer debounce.Debouncer[string]
	pages     paginator.Model
	filters   models.TaskFilters
	status    int
	priority  int
	sort      int
	total     int
	loaded    bool
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Tasks"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // We handle help globally in the main model
	l.SetFilteringEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Complete, keys.Search, keys.Status, keys.Priority, keys.Sort}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Complete, keys.Delete, keys.Search, keys.Status, keys.Priority, keys.Sort, keys.PrevPage, keys.NextPage}
	}

	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "title or description"

	pages := paginator.New()
	pages.Type = paginator.Dots
	pages.PerPage = constants.DefaultTaskPageLimit

	return Model{
		list:      l,
		keys:      keys,
		search:    search,
		debouncer: debounce.New[string](constants.DebounceDelay),
		pages:     pages,
		filters:   models.TaskFilters{Page: 1, Limit: constants.DefaultTaskPageLimit},
	}
}

// WithDebouncer swaps the search debouncer; tests use an immediate tick
func (m Model) WithDebouncer(d debounce.Debouncer[string]) Model {
	m.debouncer = d
	return m
}

func (m Model) Keys() KeyMap                { return m.keys }
func (m Model) Filters() models.TaskFilters { return m.filters }
func (m Model) Searching() bool             { return m.search.Focused() }

// SetTasks shows one page of results
func (m *Model) SetTasks(resp *models.TaskListResponse, now time.Time) {
	items := make([]list.Item, len(resp.Tasks))
	for i, t := range resp.Tasks {
		items[i] = Item{Task: t, Now: now}
	}
	m.list.SetItems(items)
	m.total = resp.Total
	m.pages.SetTotalPages(resp.Total)
	if m.pages.TotalPages < 1 {
		m.pages.TotalPages = 1
	}
	m.pages.Page = m.filters.Page - 1
	m.loaded = true
}

// TotalPages is at least one
func (m Model) TotalPages() int {
	return m.pages.TotalPages
}

// Selected returns the highlighted task
func (m Model) Selected() (models.Task, bool) {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Task, true
	}
	return models.Task{}, false
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) changed() tea.Cmd {
	f := m.filters
	return func() tea.Msg { return FiltersChangedMsg{Filters: f} }
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case debounce.FiredMsg[string]:
		if !m.debouncer.Accept(msg) || msg.Value == m.filters.Search {
			return m, nil
		}
		m.filters.Search = msg.Value
		m.filters.Page = 1
		return m, m.changed()

	case tea.KeyMsg:
		if m.search.Focused() {
			if key.Matches(msg, m.keys.Blur) {
				m.search.Blur()
				return m, nil
			}
			before := m.search.Value()
			m.search, cmd = m.search.Update(msg)
			if v := strings.TrimSpace(m.search.Value()); v != strings.TrimSpace(before) {
				return m, tea.Batch(cmd, m.debouncer.Trigger(v))
			}
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Search):
			return m, m.search.Focus()
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddTaskMsg{} }
		case key.Matches(msg, m.keys.Edit):
			if t, ok := m.Selected(); ok {
				return m, func() tea.Msg { return EditTaskMsg{Task: t} }
			}
		case key.Matches(msg, m.keys.Complete):
			if t, ok := m.Selected(); ok {
				return m, func() tea.Msg { return CompleteTaskMsg{ID: t.ID} }
			}
		case key.Matches(msg, m.keys.Delete):
			if t, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteTaskMsg{Task: t} }
			}
		case key.Matches(msg, m.keys.Status):
			m.status = (m.status + 1) % len(statusCycle)
			m.filters.Status = statusCycle[m.status]
			m.filters.Page = 1
			return m, m.changed()
		case key.Matches(msg, m.keys.Priority):
			m.priority = (m.priority + 1) % len(priorityCycle)
			m.filters.Priority = priorityCycle[m.priority]
			m.filters.Page = 1
			return m, m.changed()
		case key.Matches(msg, m.keys.Sort):
			m.sort = (m.sort + 1) % len(sortCycle)
			m.filters.Sort = sortCycle[m.sort]
			m.filters.Page = 1
			return m, m.changed()
		case key.Matches(msg, m.keys.NextPage):
			if m.filters.Page < m.TotalPages() {
				m.filters.Page++
				return m, m.changed()
			}
			return m, nil
		case key.Matches(msg, m.keys.PrevPage):
			if m.filters.Page > 1 {
				m.filters.Page--
				return m, m.changed()
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func orAny(s string) string {
	if s == "" {
		return "any"
	}
	return strings.ReplaceAll(s, "_", " ")
}

func (m Model) viewFilters() string {
	return fmt.Sprintf("%s %s  %s %s  %s %s",
		labelStyle.Render("[s] Status:"), valueStyle.Render(orAny(string(m.filters.Status))),
		labelStyle.Render("[p] Priority:"), valueStyle.Render(orAny(string(m.filters.Priority))),
		labelStyle.Render("[o] Sort:"), valueStyle.Render(orAny(string(sortCycle[m.sort]))),
	)
}

func (m Model) viewFooter() string {
	if m.TotalPages() <= 1 {
		return labelStyle.Render(fmt.Sprintf("%d %s", m.total, utils.Plural(m.total, "task", "tasks")))
	}
	return fmt.Sprintf("%s  %s",
		m.pages.View(),
		labelStyle.Render(fmt.Sprintf("page %d of %d · %d tasks", m.filters.Page, m.TotalPages(), m.total)),
	)
}

func (m Model) View() string {
	var body string
	switch {
	case !m.loaded:
		body = "\n  Loading tasks…"
	case len(m.list.Items()) == 0 && m.filters.Search != "":
		body = fmt.Sprintf("\n  No tasks match %q.", m.filters.Search)
	case len(m.list.Items()) == 0:
		body = "\n  No tasks yet.\n  Press 'a' to add one."
	default:
		body = m.list.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.search.View(), m.viewFilters(), body, m.viewFooter())
}

func (m *Model) SetSize(width, height int) {
	m.search.Width = width - len(m.search.Prompt) - 1
	m.list.SetSize(width, height-3)
}

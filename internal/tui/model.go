package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/debounce"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tui/components/checkbox"
	"github.com/julianstephens/habitual/internal/tui/components/habits"
	"github.com/julianstephens/habitual/internal/tui/components/history"
	"github.com/julianstephens/habitual/internal/tui/components/streak"
	"github.com/julianstephens/habitual/internal/tui/components/tasklist"
	"github.com/julianstephens/habitual/internal/tui/components/toast"
	"github.com/julianstephens/habitual/internal/validation"
)

// Backend is the API surface the TUI drives
type Backend interface {
	checkbox.Completer
	history.Backend

	ListHabits(ctx context.Context, userID string, f models.HabitFilters) (*models.HabitListResponse, error)
	GetHabit(ctx context.Context, userID, habitID string) (*models.Habit, error)
	CreateHabit(ctx context.Context, userID string, in models.HabitCreate) (*models.Habit, error)
	UpdateHabit(ctx context.Context, userID, habitID string, in models.HabitUpdate) (*models.Habit, error)
	DeleteHabit(ctx context.Context, userID, habitID string, force bool) error
	ArchiveHabit(ctx context.Context, userID, habitID string) (*models.Habit, error)
	RestoreHabit(ctx context.Context, userID, habitID string) (*models.Habit, error)

	ListTasks(ctx context.Context, userID string, f models.TaskFilters) (*models.TaskListResponse, error)
	GetTask(ctx context.Context, userID, taskID string) (*models.Task, error)
	CreateTask(ctx context.Context, userID string, in models.TaskCreate) (*models.Task, error)
	UpdateTask(ctx context.Context, userID, taskID string, in models.TaskUpdate) (*models.Task, error)
	CompleteTask(ctx context.Context, userID, taskID string) (*models.Task, error)
	DeleteTask(ctx context.Context, userID, taskID string) error
	TaskTags(ctx context.Context, userID string) ([]string, error)
}

// Session is the signed-in user state the TUI reads and changes
type Session interface {
	User() *models.User
	Authenticated() bool
	Offline() bool
	SignIn(ctx context.Context, creds models.Credentials) (*models.User, error)
	Register(ctx context.Context, creds models.Credentials) (*models.User, error)
	SignOut(ctx context.Context) error
	Expire()
}

type Options struct {
	Backend   Backend
	Session   Session
	Timeout   time.Duration
	Location  *time.Location
	StartPath string
	Now       func() time.Time
}

type confirmKind int

const (
	confirmDeleteHabit confirmKind = iota
	confirmForceDeleteHabit
	confirmDeleteTask
)

type confirmation struct {
	kind  confirmKind
	id    string
	title string
}

// dashboardRow is one checkable habit on the dashboard
type dashboardRow struct {
	habit  models.Habit
	check  checkbox.Model
	streak streak.Model
}

type Model struct {
	backend Backend
	session Session
	timeout time.Duration
	loc     *time.Location
	now     func() time.Time
	val     *validation.Validator

	path   string
	screen Screen
	keys   KeyMap
	help   help.Model
	toasts toast.Model

	// dashboard
	dashRows   []dashboardRow
	dashTasks  []models.Task
	dashCursor int
	dashGen    debounce.Generation
	dashLoaded bool

	// habits
	habitsModel habits.Model
	habitsGen   debounce.Generation

	// habit detail
	detail       *models.Habit
	detailGen    debounce.Generation
	detailCheck  checkbox.Model
	detailStreak streak.Model
	history      history.Model

	// tasks
	taskList tasklist.Model
	tasksGen debounce.Generation

	// forms
	form        *huh.Form
	formGen     debounce.Generation
	formLoading bool
	submitting  bool
	formError   string
	authForm    *CredentialsFormModel
	habitForm   *HabitFormModel
	taskForm    *TaskFormModel

	confirm  *confirmation
	quitting bool
	width    int
	height   int
}

func NewModel(opts Options) Model {
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultHTTPTimeout
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.StartPath == "" {
		opts.StartPath = constants.PathDashboard
	}
	return Model{
		backend:     opts.Backend,
		session:     opts.Session,
		timeout:     opts.Timeout,
		loc:         opts.Location,
		now:         opts.Now,
		val:         validation.New(),
		path:        opts.StartPath,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		toasts:      toast.New(),
		habitsModel: habits.New(0, 0),
		taskList:    tasklist.New(0, 0),
	}
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return navigateStartMsg{} }
}

// Path is the current guarded path
func (m Model) Path() string   { return m.path }
func (m Model) Screen() Screen { return m.screen }

func (m Model) userID() string {
	if u := m.session.User(); u != nil {
		return u.ID
	}
	return ""
}

func (m Model) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.timeout)
}

// inputFocused reports whether keystrokes belong to a text field, so single
// letter shortcuts must not fire
func (m Model) inputFocused() bool {
	switch m.screen {
	case ScreenLogin, ScreenRegister, ScreenHabitForm, ScreenTaskForm:
		return true
	case ScreenTasks:
		return m.taskList.Searching()
	}
	return m.modalOpen()
}

func (m Model) modalOpen() bool {
	switch m.screen {
	case ScreenDashboard:
		for _, r := range m.dashRows {
			if r.check.ModalOpen() {
				return true
			}
		}
	case ScreenHabitDetail:
		return m.detail != nil && m.detailCheck.ModalOpen()
	}
	return false
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.screen {
	case ScreenDashboard:
		keys = append(keys, m.keys.Complete, m.keys.Enter)
	case ScreenHabits:
		hk := m.habitsModel.Keys()
		keys = append(keys, hk.Add, hk.Open, hk.Category, hk.Status)
	case ScreenHabitDetail:
		hk := m.history.Keys()
		keys = append(keys, m.keys.Complete, hk.Undo, hk.Range, m.keys.Edit, m.keys.Back)
	case ScreenTasks:
		tk := m.taskList.Keys()
		keys = append(keys, tk.Add, tk.Complete, tk.Search, tk.Status, tk.Priority, tk.Sort)
	case ScreenLogin:
		return []key.Binding{m.keys.Register}
	case ScreenRegister:
		return []key.Binding{m.keys.Login}
	case ScreenHabitForm:
		return []key.Binding{m.keys.CopyCue, m.keys.Back}
	case ScreenTaskForm:
		return []key.Binding{m.keys.Back}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh, m.keys.Logout}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter, m.keys.Back}

	var actions []key.Binding
	switch m.screen {
	case ScreenDashboard:
		actions = []key.Binding{m.keys.Complete}
	case ScreenHabits:
		hk := m.habitsModel.Keys()
		actions = []key.Binding{hk.Add, hk.Edit, hk.Open, hk.Archive, hk.Restore, hk.Delete, hk.Category, hk.Status}
	case ScreenHabitDetail:
		hk := m.history.Keys()
		actions = []key.Binding{m.keys.Complete, hk.Undo, hk.Range, m.keys.Edit, m.keys.CopyCue}
	case ScreenTasks:
		tk := m.taskList.Keys()
		actions = []key.Binding{tk.Add, tk.Edit, tk.Complete, tk.Delete, tk.Search, tk.Status, tk.Priority, tk.Sort, tk.PrevPage, tk.NextPage}
	}
	return [][]key.Binding{global, navigation, actions}
}

// Run starts the TUI and blocks until the user quits
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/debounce"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tui/msgs"
	"github.com/julianstephens/habitual/internal/utils"
)

// Backend is the part of the API the history view calls
type Backend interface {
	CompletionHistory(ctx context.Context, userID, habitID string, r models.DateRange) (*models.CompletionHistoryResponse, error)
	UndoCompletion(ctx context.Context, userID, habitID, completionID string) (*models.UndoCompletionResponse, error)
}

type loadedMsg struct {
	habitID string
	gen     uint64
	resp    *models.CompletionHistoryResponse
	err     error
}

type undoneMsg struct {
	habitID      string
	completionID string
	streak       int
	err          error
}

// Preset is a named date range the user can cycle through
type Preset int

const (
	AllTime Preset = iota
	Last7Days
	Last30Days
	ThisMonth
	presetCount
)

func (p Preset) String() string {
	switch p {
	case Last7Days:
		return "Last 7 days"
	case Last30Days:
		return "Last 30 days"
	case ThisMonth:
		return "This month"
	}
	return "All time"
}

// Range resolves the preset against now
func (p Preset) Range(now time.Time) models.DateRange {
	today := now.Format(constants.DateFormat)
	switch p {
	case Last7Days:
		return models.DateRange{Start: now.AddDate(0, 0, -6).Format(constants.DateFormat), End: today}
	case Last30Days:
		return models.DateRange{Start: now.AddDate(0, 0, -29).Format(constants.DateFormat), End: today}
	case ThisMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return models.DateRange{Start: first.Format(constants.DateFormat), End: today}
	}
	return models.DateRange{}
}

var (
	dateStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	undoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Undo  key.Binding
	Range key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		Range: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "date range"),
		),
	}
}

type Model struct {
	backend     Backend
	userID      string
	habitID     string
	timeout     time.Duration
	loc         *time.Location
	now         func() time.Time
	gen         debounce.Generation
	loading     bool
	completions []models.HabitCompletion
	total       int
	undoing     map[string]bool
	preset      Preset
	rng         models.DateRange
	cursor      int
	keys        KeyMap
}

func New(b Backend, userID, habitID string, loc *time.Location) Model {
	if loc == nil {
		loc = time.Local
	}
	return Model{
		backend: b,
		userID:  userID,
		habitID: habitID,
		timeout: constants.DefaultHTTPTimeout,
		loc:     loc,
		now:     time.Now,
		undoing: map[string]bool{},
		keys:    DefaultKeyMap(),
	}
}

func (m Model) WithTimeout(d time.Duration) Model {
	if d > 0 {
		m.timeout = d
	}
	return m
}

func (m Model) Completions() []models.HabitCompletion { return m.completions }
func (m Model) Total() int                            { return m.total }
func (m Model) Loading() bool                         { return m.loading }
func (m Model) Range() models.DateRange               { return m.rng }
func (m Model) Keys() KeyMap                          { return m.keys }

// Undoing reports whether an undo is in flight for the completion
func (m Model) Undoing(completionID string) bool {
	return m.undoing[completionID]
}

// Load fetches the history for the current range. Any response to an
// earlier Load is discarded when it arrives.
func (m Model) Load() (Model, tea.Cmd) {
	gen := m.gen.Next()
	m.loading = true
	b, uid, hid, rng, timeout := m.backend, m.userID, m.habitID, m.rng, m.timeout
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, err := b.CompletionHistory(ctx, uid, hid, rng)
		return loadedMsg{habitID: hid, gen: gen, resp: resp, err: err}
	}
}

// SetRange changes the date range and reloads
func (m Model) SetRange(r models.DateRange) (Model, tea.Cmd) {
	m.rng = r
	return m.Load()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.habitID != m.habitID || !m.gen.IsCurrent(msg.gen) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			logger.Debug("Failed to load completion history", "habit_id", m.habitID, "error", msg.err)
			m.completions, m.total = nil, 0
			m.cursor = 0
			return m, msgs.CheckAuth(msg.err)
		}
		m.completions = msg.resp.Completions
		m.total = msg.resp.Total
		m.clampCursor()

	case undoneMsg:
		if msg.habitID != m.habitID {
			return m, nil
		}
		delete(m.undoing, msg.completionID)
		if msg.err != nil {
			logger.Debug("Failed to undo completion", "completion_id", msg.completionID, "error", msg.err)
			return m, msgs.CheckAuth(msg.err)
		}
		m.remove(msg.completionID)
		return m, msgs.StreakChanged(m.habitID, msg.streak)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.completions)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Undo):
			if m.cursor < len(m.completions) {
				return m.Undo(m.completions[m.cursor].ID)
			}
		case key.Matches(msg, m.keys.Range):
			m.preset = (m.preset + 1) % presetCount
			return m.SetRange(m.preset.Range(m.now().In(m.loc)))
		}
	}
	return m, nil
}

// Undo removes a completion. Undos of different entries may overlap; a
// second undo of the same entry is ignored while the first is in flight.
func (m Model) Undo(completionID string) (Model, tea.Cmd) {
	if m.undoing[completionID] {
		return m, nil
	}
	undoing := make(map[string]bool, len(m.undoing)+1)
	for k, v := range m.undoing {
		undoing[k] = v
	}
	undoing[completionID] = true
	m.undoing = undoing

	b, uid, hid, timeout := m.backend, m.userID, m.habitID, m.timeout
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, err := b.UndoCompletion(ctx, uid, hid, completionID)
		if err != nil {
			return undoneMsg{habitID: hid, completionID: completionID, err: err}
		}
		return undoneMsg{habitID: hid, completionID: completionID, streak: resp.RecalculatedStreak}
	}
}

func (m *Model) remove(completionID string) {
	kept := make([]models.HabitCompletion, 0, len(m.completions))
	for _, c := range m.completions {
		if c.ID != completionID {
			kept = append(kept, c)
		}
	}
	if len(kept) < len(m.completions) {
		m.total--
	}
	m.completions = kept
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.completions) {
		m.cursor = len(m.completions) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	var b strings.Builder
	header := fmt.Sprintf("%d %s total", m.total, utils.Plural(m.total, "completion", "completions"))
	b.WriteString(subtleStyle.Render(header + " · " + m.preset.String()))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(subtleStyle.Render("Loading history…"))
		return b.String()
	}
	if len(m.completions) == 0 {
		b.WriteString(subtleStyle.Render("No completions yet."))
		return b.String()
	}

	for i, c := range m.completions {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		action := undoStyle.Render("[u] Undo")
		if m.undoing[c.ID] {
			action = subtleStyle.Render("Undoing…")
		}
		date := c.CompletedAt.In(m.loc).Format(constants.DisplayDateFormat)
		fmt.Fprintf(&b, "%s%s  %s  %s\n", cursor, dateStyle.Render(date), subtleStyle.Render(c.CompletionType.Label()), action)
	}
	return b.String()
}

// Package checkbox is the completion control for a single habit. It opens the
// completion type modal, submits at most one completion, and settles into a
// terminal checked state.
package checkbox

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/api"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/sound"
	"github.com/julianstephens/habitual/internal/tui/components/completiontype"
	"github.com/julianstephens/habitual/internal/tui/msgs"
)

type State int

const (
	Unchecked State = iota
	AwaitingType
	Submitting
	Completed
)

func (s State) String() string {
	switch s {
	case AwaitingType:
		return "awaiting-type"
	case Submitting:
		return "submitting"
	case Completed:
		return "completed"
	}
	return "unchecked"
}

// Completer records a completion on the backend
type Completer interface {
	CompleteHabit(ctx context.Context, userID, habitID string, t models.CompletionType) (*models.CompleteHabitResponse, error)
}

type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeConflict
	outcomeFailure
)

type resultMsg struct {
	habitID string
	outcome outcome
	streak  int
	err     error
}

type pulseDoneMsg struct {
	habitID string
	gen     int
}

var (
	uncheckedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	pulseStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("42")).Bold(true)
)

type KeyMap struct {
	Toggle key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "complete"),
		),
	}
}

type Model struct {
	habitID   string
	userID    string
	twoMinute string
	completer Completer
	timeout   time.Duration
	state     State
	modal     completiontype.Model
	pulsing   bool
	pulseGen  int
	keys      KeyMap
	play      func()
}

func New(c Completer, userID string, habit models.Habit, completed bool) Model {
	m := Model{
		habitID:   habit.ID,
		userID:    userID,
		twoMinute: habit.TwoMinuteVersion,
		completer: c,
		timeout:   constants.DefaultHTTPTimeout,
		keys:      DefaultKeyMap(),
		play:      sound.PlayCompletion,
	}
	if completed {
		m.state = Completed
	}
	return m
}

// WithTimeout bounds the completion request
func (m Model) WithTimeout(d time.Duration) Model {
	if d > 0 {
		m.timeout = d
	}
	return m
}

func (m Model) HabitID() string { return m.habitID }
func (m Model) State() State    { return m.state }
func (m Model) Pulsing() bool   { return m.pulsing }
func (m Model) Keys() KeyMap    { return m.keys }

// ModalOpen reports whether the completion type modal should be shown
func (m Model) ModalOpen() bool {
	return m.state == AwaitingType
}

func (m Model) ModalView() string {
	if !m.ModalOpen() {
		return ""
	}
	return m.modal.View()
}

// Toggle opens the modal. It does nothing unless the box is unchecked.
func (m Model) Toggle() (Model, tea.Cmd) {
	if m.state != Unchecked {
		return m, nil
	}
	m.state = AwaitingType
	m.modal = completiontype.New(m.habitID).WithTwoMinute(m.twoMinute)
	return m, nil
}

// Reset is how the parent re-syncs the box, e.g. after an undo
func (m Model) Reset(completed bool) Model {
	m.pulsing = false
	if completed {
		m.state = Completed
	} else {
		m.state = Unchecked
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == AwaitingType {
			var cmd tea.Cmd
			m.modal, cmd = m.modal.Update(msg)
			return m, cmd
		}
		if key.Matches(msg, m.keys.Toggle) {
			return m.Toggle()
		}

	case completiontype.CancelledMsg:
		if msg.Owner == m.habitID && m.state == AwaitingType {
			m.state = Unchecked
		}

	case completiontype.SelectedMsg:
		if msg.Owner != m.habitID || m.state != AwaitingType {
			return m, nil
		}
		m.state = Submitting
		if m.play != nil {
			m.play()
		}
		return m, m.submit(msg.Type)

	case resultMsg:
		if msg.habitID != m.habitID || m.state != Submitting {
			return m, nil
		}
		switch msg.outcome {
		case outcomeSuccess:
			m.state = Completed
			m.pulsing = true
			m.pulseGen++
			id, gen := m.habitID, m.pulseGen
			pulse := tea.Tick(constants.PulseDuration, func(time.Time) tea.Msg {
				return pulseDoneMsg{habitID: id, gen: gen}
			})
			return m, tea.Batch(pulse, msgs.StreakChanged(m.habitID, msg.streak))
		case outcomeConflict:
			m.state = Completed
		default:
			logger.Warn("Failed to complete habit", "habit_id", m.habitID, "error", msg.err)
			m.state = Unchecked
			return m, msgs.CheckAuth(msg.err)
		}

	case pulseDoneMsg:
		if msg.habitID == m.habitID && msg.gen == m.pulseGen {
			m.pulsing = false
		}
	}
	return m, nil
}

func (m Model) submit(t models.CompletionType) tea.Cmd {
	c, uid, hid, timeout := m.completer, m.userID, m.habitID, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		resp, err := c.CompleteHabit(ctx, uid, hid, t)
		switch {
		case err == nil:
			return resultMsg{habitID: hid, outcome: outcomeSuccess, streak: resp.CurrentStreak}
		case api.IsConflict(err):
			// Already completed today
			return resultMsg{habitID: hid, outcome: outcomeConflict}
		default:
			return resultMsg{habitID: hid, outcome: outcomeFailure, err: err}
		}
	}
}

func (m Model) View() string {
	switch m.state {
	case AwaitingType:
		return pendingStyle.Render("[?]")
	case Submitting:
		return pendingStyle.Render("[…]")
	case Completed:
		if m.pulsing {
			return pulseStyle.Render("[✓]")
		}
		return completedStyle.Render("[✓]")
	}
	return uncheckedStyle.Render("[ ]")
}

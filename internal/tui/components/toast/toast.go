package toast

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/constants"
)

// Toast is a transient notification
type Toast struct {
	ID      string
	Message string
	Kind    constants.ToastKind
}

// ShowMsg asks the app to queue a toast
type ShowMsg struct {
	Message string
	Kind    constants.ToastKind
}

type expireMsg struct {
	id string
}

func Success(message string) tea.Cmd { return show(message, constants.ToastSuccess) }
func Error(message string) tea.Cmd   { return show(message, constants.ToastError) }
func Info(message string) tea.Cmd    { return show(message, constants.ToastInfo) }

func show(message string, kind constants.ToastKind) tea.Cmd {
	return func() tea.Msg { return ShowMsg{Message: message, Kind: kind} }
}

var (
	baseStyle    = lipgloss.NewStyle().Padding(0, 1).Bold(true)
	successStyle = baseStyle.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("42"))
	errorStyle   = baseStyle.Foreground(lipgloss.Color("15")).Background(lipgloss.Color("160"))
	infoStyle    = baseStyle.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("39"))
)

// Model is the toast queue. Each toast expires on its own timer.
type Model struct {
	toasts   []Toast
	duration time.Duration
}

func New() Model {
	return Model{duration: constants.ToastDuration}
}

func (m Model) Toasts() []Toast { return m.toasts }

// Push queues a toast and schedules its expiry
func (m Model) Push(message string, kind constants.ToastKind) (Model, tea.Cmd) {
	t := Toast{ID: uuid.NewString(), Message: message, Kind: kind}
	m.toasts = append(append([]Toast(nil), m.toasts...), t)
	id := t.ID
	return m, tea.Tick(m.duration, func(time.Time) tea.Msg { return expireMsg{id: id} })
}

// Dismiss removes a toast; unknown ids are ignored
func (m Model) Dismiss(id string) Model {
	kept := make([]Toast, 0, len(m.toasts))
	for _, t := range m.toasts {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
	return m
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ShowMsg:
		return m.Push(msg.Message, msg.Kind)
	case expireMsg:
		return m.Dismiss(msg.id), nil
	}
	return m, nil
}

func (m Model) View() string {
	if len(m.toasts) == 0 {
		return ""
	}
	lines := make([]string, len(m.toasts))
	for i, t := range m.toasts {
		switch t.Kind {
		case constants.ToastSuccess:
			lines[i] = successStyle.Render("✓ " + t.Message)
		case constants.ToastError:
			lines[i] = errorStyle.Render("✗ " + t.Message)
		default:
			lines[i] = infoStyle.Render("ℹ " + t.Message)
		}
	}
	return strings.Join(lines, "\n")
}

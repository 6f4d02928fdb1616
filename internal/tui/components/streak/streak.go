package streak

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/tui/msgs"
	"github.com/julianstephens/habitual/internal/utils"
)

var (
	flameStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	bounceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true).Underline(true)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	milestoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Italic(true)
	emptyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type bounceDoneMsg struct {
	habitID string
	gen     int
}

// Model renders a habit's streak. It remembers the last value it showed so
// that only a strict increase starts the bounce.
type Model struct {
	habitID  string
	streak   int
	compact  bool
	bouncing bool
	gen      int
}

func New(habitID string, streak int, compact bool) Model {
	return Model{habitID: habitID, streak: streak, compact: compact}
}

func (m Model) Streak() int    { return m.streak }
func (m Model) Bouncing() bool { return m.bouncing }

// ShouldBounce reports whether moving from prev to next animates
func ShouldBounce(prev, next int) bool {
	return next > prev
}

// Set updates the displayed value
func (m Model) Set(streak int) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if ShouldBounce(m.streak, streak) {
		m.bouncing = true
		m.gen++
		id, gen := m.habitID, m.gen
		cmd = tea.Tick(constants.BounceDuration, func(time.Time) tea.Msg {
			return bounceDoneMsg{habitID: id, gen: gen}
		})
	}
	m.streak = streak
	return m, cmd
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case msgs.StreakChangedMsg:
		if msg.HabitID == m.habitID {
			return m.Set(msg.Streak)
		}
	case bounceDoneMsg:
		if msg.habitID == m.habitID && msg.gen == m.gen {
			m.bouncing = false
		}
	}
	return m, nil
}

func (m Model) View() string {
	return Render(m.streak, m.compact, m.bouncing)
}

// Render draws a streak without any state
func Render(streak int, compact, bouncing bool) string {
	if streak <= 0 {
		if compact {
			return ""
		}
		return emptyStyle.Render("No streak yet")
	}

	style := flameStyle
	if bouncing {
		style = bounceStyle
	}
	out := style.Render(fmt.Sprintf("🔥 %d", streak))
	if !compact {
		out += " " + labelStyle.Render(utils.Plural(streak, "day", "days"))
	}
	if text := utils.StreakMilestone(streak); text != "" {
		out += "  " + milestoneStyle.Render(text)
	}
	return out
}

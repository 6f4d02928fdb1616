package completiontype

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/models"
)

// SelectedMsg carries the chosen completion type. Owner is the habit the
// modal was opened for.
type SelectedMsg struct {
	Owner string
	Type  models.CompletionType
}

type CancelledMsg struct {
	Owner string
}

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
	titleStyle    = lipgloss.NewStyle().Bold(true)
	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

type option struct {
	label  string
	hint   string
	typ    models.CompletionType
	cancel bool
}

var options = []option{
	{label: models.CompletionFull.Label(), hint: "Complete version", typ: models.CompletionFull},
	{label: models.CompletionTwoMinute.Label(), hint: "Never miss twice", typ: models.CompletionTwoMinute},
	{label: "Cancel", cancel: true},
}

type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	Full      key.Binding
	TwoMinute key.Binding
	Cancel    key.Binding
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
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "choose"),
		),
		Full: key.NewBinding(
			key.WithKeys("1", "f"),
			key.WithHelp("1", "full"),
		),
		TwoMinute: key.NewBinding(
			key.WithKeys("2", "t"),
			key.WithHelp("2", "2-minute"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// Model asks how a habit was completed. Whether it is shown is up to the owner.
type Model struct {
	owner     string
	twoMinute string
	cursor    int
	keys      KeyMap
}

func New(owner string) Model {
	return Model{owner: owner, keys: DefaultKeyMap()}
}

// WithTwoMinute shows the habit's own 2-minute version under that option
func (m Model) WithTwoMinute(text string) Model {
	m.twoMinute = strings.TrimSpace(text)
	return m
}

func (m Model) Keys() KeyMap { return m.keys }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Cancel):
		return m, m.cancel()
	case key.Matches(keyMsg, m.keys.Full):
		return m, m.choose(models.CompletionFull)
	case key.Matches(keyMsg, m.keys.TwoMinute):
		return m, m.choose(models.CompletionTwoMinute)
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(options)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Select):
		opt := options[m.cursor]
		if opt.cancel {
			return m, m.cancel()
		}
		return m, m.choose(opt.typ)
	}
	return m, nil
}

func (m Model) choose(t models.CompletionType) tea.Cmd {
	owner := m.owner
	return func() tea.Msg { return SelectedMsg{Owner: owner, Type: t} }
}

func (m Model) cancel() tea.Cmd {
	owner := m.owner
	return func() tea.Msg { return CancelledMsg{Owner: owner} }
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Complete this habit"))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("Choose how you completed it today"))
	b.WriteString("\n\n")

	for i, opt := range options {
		cursor := "  "
		label := opt.label
		if i == m.cursor {
			cursor = "> "
			label = selectedStyle.Render(label)
		}
		b.WriteString(cursor + label + "\n")

		hint := opt.hint
		if opt.typ == models.CompletionTwoMinute && m.twoMinute != "" {
			hint = m.twoMinute
		}
		if hint != "" {
			b.WriteString("    " + subtleStyle.Render(hint) + "\n")
		}
	}
	b.WriteString("\n" + subtleStyle.Render("[1] full  [2] 2-minute  [esc] cancel"))
	return boxStyle.Render(b.String())
}

package completiontype

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/models"
)

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want tea.Msg
	}{
		{"shortcut full", []string{"1"}, SelectedMsg{Owner: "h1", Type: models.CompletionFull}},
		{"shortcut two minute", []string{"t"}, SelectedMsg{Owner: "h1", Type: models.CompletionTwoMinute}},
		{"enter on first option", []string{"enter"}, SelectedMsg{Owner: "h1", Type: models.CompletionFull}},
		{"navigate to two minute", []string{"down", "enter"}, SelectedMsg{Owner: "h1", Type: models.CompletionTwoMinute}},
		{"cancel option", []string{"down", "down", "enter"}, CancelledMsg{Owner: "h1"}},
		{"escape", []string{"esc"}, CancelledMsg{Owner: "h1"}},
		{"backdrop", []string{"q"}, CancelledMsg{Owner: "h1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New("h1")
			var cmd tea.Cmd
			for _, k := range tt.keys {
				m, cmd = m.Update(keyPress(k))
			}
			if cmd == nil {
				t.Fatal("expected a command")
			}
			if got := cmd(); got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestUpdate_CursorStaysInBounds(t *testing.T) {
	m := New("h1")
	for i := 0; i < 10; i++ {
		m, _ = m.Update(keyPress("down"))
	}
	if m.cursor != len(options)-1 {
		t.Errorf("cursor = %d", m.cursor)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Errorf("cursor = %d", m.cursor)
	}
}

func TestView_ShowsTwoMinuteVersion(t *testing.T) {
	v := New("h1").WithTwoMinute("Put on running shoes").View()
	if !strings.Contains(v, "Put on running shoes") || !strings.Contains(v, "Full habit") {
		t.Errorf("View() = %q", v)
	}
}

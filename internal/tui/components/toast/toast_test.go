package toast

import (
	"strings"
	"testing"

	"github.com/julianstephens/habitual/internal/constants"
)

func TestQueue(t *testing.T) {
	m := New()

	m, _ = m.Update(ShowMsg{Message: "Habit created", Kind: constants.ToastSuccess})
	m, _ = m.Update(ShowMsg{Message: "Save failed", Kind: constants.ToastError})
	if len(m.Toasts()) != 2 {
		t.Fatalf("got %d toasts", len(m.Toasts()))
	}
	first, second := m.Toasts()[0], m.Toasts()[1]
	if first.ID == second.ID {
		t.Error("toast ids must be unique")
	}

	m, _ = m.Update(expireMsg{id: first.ID})
	if len(m.Toasts()) != 1 || m.Toasts()[0].ID != second.ID {
		t.Errorf("wrong toast expired: %+v", m.Toasts())
	}
	m, _ = m.Update(expireMsg{id: "unknown"})
	if len(m.Toasts()) != 1 {
		t.Error("unknown id removed a toast")
	}
}

func TestPush_SchedulesExpiry(t *testing.T) {
	if _, cmd := New().Push("hi", constants.ToastInfo); cmd == nil {
		t.Error("expected an expiry timer")
	}
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		msg  ShowMsg
		want constants.ToastKind
	}{
		{Success("ok")().(ShowMsg), constants.ToastSuccess},
		{Error("bad")().(ShowMsg), constants.ToastError},
		{Info("fyi")().(ShowMsg), constants.ToastInfo},
	}
	for _, tt := range tests {
		if tt.msg.Kind != tt.want {
			t.Errorf("kind = %s, want %s", tt.msg.Kind, tt.want)
		}
	}
}

func TestView(t *testing.T) {
	m := New()
	if m.View() != "" {
		t.Error("empty queue should render nothing")
	}
	m, _ = m.Push("Task deleted", constants.ToastSuccess)
	if !strings.Contains(m.View(), "Task deleted") {
		t.Errorf("View() = %q", m.View())
	}
}

package debounce

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func immediate(_ time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg { return fn(time.Now()) }
}

func TestDebouncer_OnlyLastTriggerFires(t *testing.T) {
	d := New[string](300 * time.Millisecond).WithTick(immediate)

	var cmds []tea.Cmd
	for _, v := range []string{"m", "mi", "mil", "milk"} {
		cmds = append(cmds, d.Trigger(v))
	}

	var fired []string
	for _, cmd := range cmds {
		msg := cmd().(FiredMsg[string])
		if d.Accept(msg) {
			fired = append(fired, msg.Value)
		}
	}

	if len(fired) != 1 || fired[0] != "milk" {
		t.Errorf("fired = %v, want [milk]", fired)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	d := New[string](time.Millisecond).WithTick(immediate)
	cmd := d.Trigger("x")
	d.Cancel()

	if d.Accept(cmd().(FiredMsg[string])) {
		t.Error("cancelled timer should not be accepted")
	}
}

func TestDebouncer_StreamsAreIndependent(t *testing.T) {
	a := New[string](time.Millisecond).WithTick(immediate)
	b := New[string](time.Millisecond).WithTick(immediate)

	msgA := a.Trigger("a")().(FiredMsg[string])
	b.Trigger("b")

	if b.Accept(msgA) {
		t.Error("debouncer accepted another stream's timer")
	}
	if !a.Accept(msgA) {
		t.Error("debouncer rejected its own latest timer")
	}
}

func TestDebouncer_UsesDelay(t *testing.T) {
	var got time.Duration
	d := New[int](300 * time.Millisecond).WithTick(func(dur time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
		got = dur
		return nil
	})
	d.Trigger(1)
	if got != 300*time.Millisecond {
		t.Errorf("delay = %v, want 300ms", got)
	}
}

func TestGeneration(t *testing.T) {
	var g Generation
	first := g.Next()
	second := g.Next()

	if g.IsCurrent(first) {
		t.Error("stale tag reported current")
	}
	if !g.IsCurrent(second) || g.Current() != second {
		t.Error("latest tag not current")
	}
}

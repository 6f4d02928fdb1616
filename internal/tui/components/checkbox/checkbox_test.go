package checkbox

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/api"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tui/components/completiontype"
	"github.com/julianstephens/habitual/internal/tui/msgs"
)

type fakeCompleter struct {
	calls  []models.CompletionType
	streak int
	err    error
}

func (f *fakeCompleter) CompleteHabit(_ context.Context, _, _ string, t models.CompletionType) (*models.CompleteHabitResponse, error) {
	f.calls = append(f.calls, t)
	if f.err != nil {
		return nil, f.err
	}
	return &models.CompleteHabitResponse{CurrentStreak: f.streak}, nil
}

func newBox(c Completer, completed bool) (Model, *int) {
	plays := 0
	m := New(c, "u1", models.Habit{ID: "h1", TwoMinuteVersion: "one push-up"}, completed)
	m.play = func() { plays++ }
	return m, &plays
}

// collect runs cmd and flattens batches into their messages
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func selectType(t *testing.T, m Model, ct models.CompletionType) (Model, tea.Msg) {
	t.Helper()
	m, _ = m.Toggle()
	m, cmd := m.Update(completiontype.SelectedMsg{Owner: "h1", Type: ct})
	if m.State() != Submitting {
		t.Fatalf("state = %s, want submitting", m.State())
	}
	if cmd == nil {
		t.Fatal("expected submit command")
	}
	return m, cmd()
}

func TestToggle_OpensModalWithoutNetwork(t *testing.T) {
	fc := &fakeCompleter{}
	m, plays := newBox(fc, false)

	m, cmd := m.Toggle()
	if m.State() != AwaitingType || !m.ModalOpen() || cmd != nil {
		t.Fatalf("state = %s, cmd = %v", m.State(), cmd)
	}
	if len(fc.calls) != 0 || *plays != 0 {
		t.Error("toggle must not submit or play a sound")
	}
}

func TestCancel_ReturnsToUnchecked(t *testing.T) {
	fc := &fakeCompleter{}
	m, _ := newBox(fc, false)
	m, _ = m.Toggle()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("escape should emit a cancel")
	}
	m, _ = m.Update(cmd())
	if m.State() != Unchecked || len(fc.calls) != 0 {
		t.Errorf("state = %s, calls = %d", m.State(), len(fc.calls))
	}
}

func TestSelect_Success(t *testing.T) {
	fc := &fakeCompleter{streak: 4}
	m, plays := newBox(fc, false)

	m, result := selectType(t, m, models.CompletionTwoMinute)
	if *plays != 1 {
		t.Errorf("sound played %d times, want 1", *plays)
	}
	if len(fc.calls) != 1 || fc.calls[0] != models.CompletionTwoMinute {
		t.Fatalf("calls = %v", fc.calls)
	}

	m, cmd := m.Update(result)
	if m.State() != Completed || !m.Pulsing() {
		t.Fatalf("state = %s, pulsing = %v", m.State(), m.Pulsing())
	}

	var streak *msgs.StreakChangedMsg
	for _, msg := range collect(cmd) {
		switch msg := msg.(type) {
		case msgs.StreakChangedMsg:
			streak = &msg
		case pulseDoneMsg:
			m, _ = m.Update(msg)
		}
	}
	if streak == nil || streak.Streak != 4 || streak.HabitID != "h1" {
		t.Errorf("streak message = %+v", streak)
	}
	if m.Pulsing() {
		t.Error("pulse did not end")
	}
}

func TestSelect_ConflictMeansCompleted(t *testing.T) {
	fc := &fakeCompleter{err: &api.APIError{Status: 409, Message: "already completed today"}}
	m, _ := newBox(fc, false)

	m, result := selectType(t, m, models.CompletionFull)
	m, cmd := m.Update(result)
	if m.State() != Completed {
		t.Errorf("state = %s, want completed", m.State())
	}
	if cmd != nil {
		t.Error("conflict should not emit a streak change")
	}
}

func TestSelect_FailureIsSilent(t *testing.T) {
	fc := &fakeCompleter{err: &api.APIError{Status: 500, Message: "boom"}}
	m, _ := newBox(fc, false)

	m, result := selectType(t, m, models.CompletionFull)
	m, cmd := m.Update(result)
	if m.State() != Unchecked {
		t.Errorf("state = %s, want unchecked", m.State())
	}
	if cmd != nil {
		t.Error("non-auth failure should not emit anything")
	}
}

func TestSelect_UnauthorizedSignalsApp(t *testing.T) {
	fc := &fakeCompleter{err: &api.APIError{Status: 401, Message: "expired"}}
	m, _ := newBox(fc, false)

	m, result := selectType(t, m, models.CompletionFull)
	_, cmd := m.Update(result)
	if cmd == nil {
		t.Fatal("expected an unauthorized message")
	}
	if _, ok := cmd().(msgs.UnauthorizedMsg); !ok {
		t.Error("wrong message type")
	}
}

func TestIgnoresInputWhileBusy(t *testing.T) {
	fc := &fakeCompleter{streak: 1}
	m, plays := newBox(fc, false)

	m, _ = selectType(t, m, models.CompletionFull)

	// Second select and toggle while submitting
	m, cmd := m.Update(completiontype.SelectedMsg{Owner: "h1", Type: models.CompletionFull})
	if cmd != nil {
		t.Error("second select while submitting produced a command")
	}
	m, _ = m.Toggle()
	if m.State() != Submitting || *plays != 1 {
		t.Errorf("state = %s, plays = %d", m.State(), *plays)
	}

	done, _ := newBox(fc, true)
	done, cmd = done.Toggle()
	if done.State() != Completed || cmd != nil {
		t.Error("completed box should ignore toggle")
	}
}

func TestIgnoresOtherHabits(t *testing.T) {
	fc := &fakeCompleter{}
	m, _ := newBox(fc, false)
	m, _ = m.Toggle()

	m, cmd := m.Update(completiontype.SelectedMsg{Owner: "h2", Type: models.CompletionFull})
	if cmd != nil || m.State() != AwaitingType {
		t.Error("selection for another habit was applied")
	}
	m, _ = m.Update(resultMsg{habitID: "h2", outcome: outcomeSuccess, streak: 9})
	if m.State() != AwaitingType {
		t.Error("result for another habit was applied")
	}
}

func TestReset(t *testing.T) {
	fc := &fakeCompleter{}
	m, _ := newBox(fc, true)
	m = m.Reset(false)
	if m.State() != Unchecked {
		t.Errorf("state = %s", m.State())
	}
	m = m.Reset(true)
	if m.State() != Completed {
		t.Errorf("state = %s", m.State())
	}
}

func TestSubmit_Error(t *testing.T) {
	fc := &fakeCompleter{err: errors.New("dial tcp: refused")}
	m, _ := newBox(fc, false)
	m, result := selectType(t, m, models.CompletionFull)
	if r := result.(resultMsg); r.outcome != outcomeFailure {
		t.Errorf("outcome = %v", r.outcome)
	}
	m, _ = m.Update(result)
	if m.State() != Unchecked {
		t.Errorf("state = %s", m.State())
	}
}

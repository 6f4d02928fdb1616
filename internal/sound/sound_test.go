package sound

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu     sync.Mutex
	writes int
	err    error
	done   chan struct{}
}

func (r *recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	r.writes++
	r.mu.Unlock()
	close(r.done)
	return len(p), r.err
}

func withWriter(t *testing.T, w *recorder) {
	t.Helper()
	prev := out
	out = w
	t.Cleanup(func() {
		out = prev
		SetEnabled(true)
	})
}

func TestPlayCompletion(t *testing.T) {
	rec := &recorder{done: make(chan struct{})}
	withWriter(t, rec)

	PlayCompletion()

	select {
	case <-rec.done:
	case <-time.After(time.Second):
		t.Fatal("sound was not played")
	}
}

func TestPlayCompletion_ErrorIsSwallowed(t *testing.T) {
	rec := &recorder{done: make(chan struct{}), err: errors.New("no terminal")}
	withWriter(t, rec)

	PlayCompletion()

	select {
	case <-rec.done:
	case <-time.After(time.Second):
		t.Fatal("sound was not attempted")
	}
}

func TestPlayCompletion_Disabled(t *testing.T) {
	rec := &recorder{done: make(chan struct{})}
	withWriter(t, rec)
	SetEnabled(false)

	PlayCompletion()
	time.Sleep(20 * time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.writes != 0 {
		t.Errorf("writes = %d, want 0", rec.writes)
	}
}

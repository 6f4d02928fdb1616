// Package sound plays the short cue that accompanies a habit completion.
package sound

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/julianstephens/habitual/internal/logger"
)

var (
	enabled atomic.Bool
	out     io.Writer = os.Stderr
)

func init() {
	enabled.Store(true)
}

// SetEnabled turns the completion cue on or off
func SetEnabled(on bool) {
	enabled.Store(on)
}

// PlayCompletion rings the terminal bell without blocking the caller.
// Playback failures are logged and otherwise ignored.
func PlayCompletion() {
	if !enabled.Load() {
		return
	}
	w := out
	go func() {
		if _, err := w.Write([]byte("\a")); err != nil {
			logger.Debug("Failed to play completion sound", "error", err)
		}
	}()
}

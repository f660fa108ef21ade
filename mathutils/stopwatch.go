package mathutils

import (
	"sync"
	"time"

	"github.com/gas2d/engine/enforce"
)

// Watch is a pausable elapsed-time timer. The engine starts one per rank and
// logs its AbsoluteElapsed when the rank finishes; it never pauses it.
type Watch struct {
	Mu           sync.RWMutex
	Paused       bool
	PauseTime    time.Time
	StartTime    time.Time
	AdjustedTime time.Time
}

func (w *Watch) Start() {
	w.Mu.Lock()
	defer w.Mu.Unlock()
	enforce.ENFORCE(!w.Paused, "watch cannot start while paused")
	w.StartTime = time.Now()
	w.AdjustedTime = w.StartTime
}

func (w *Watch) Elapsed() time.Duration {
	w.Mu.RLock()
	defer w.Mu.RUnlock()
	now := time.Now()
	if w.Paused {
		return now.Sub(w.AdjustedTime) - now.Sub(w.PauseTime)
	}
	return now.Sub(w.AdjustedTime)
}

func (w *Watch) AbsoluteElapsed() time.Duration {
	w.Mu.RLock()
	defer w.Mu.RUnlock()
	return time.Since(w.StartTime)
}

func (w *Watch) Pause() {
	w.Mu.Lock()
	defer w.Mu.Unlock()
	enforce.ENFORCE(!w.Paused, "watch already paused")
	w.PauseTime = time.Now()
	w.Paused = true
}

func (w *Watch) UnPause() {
	w.Mu.Lock()
	defer w.Mu.Unlock()
	enforce.ENFORCE(w.Paused, "watch wasn't paused")
	w.Paused = false
	w.AdjustedTime = w.AdjustedTime.Add(time.Since(w.PauseTime))
}

package usecase

import "sync"

// RunToken is the per-job pause/cancel control handed to the scan engine. The
// engine calls Checkpoint before starting each matrix cell and before
// evaluation; a paused token blocks there until it is resumed or cancelled.
// In-flight provider calls are never interrupted.
type RunToken struct {
	mu        sync.Mutex
	cond      *sync.Cond
	paused    bool
	cancelled bool
}

func NewRunToken() *RunToken {
	t := &RunToken{}
	t.cond = sync.NewCond(&t.mu)
	return t
}

func (t *RunToken) Pause() {
	t.mu.Lock()
	t.paused = true
	t.mu.Unlock()
}

func (t *RunToken) Resume() {
	t.mu.Lock()
	t.paused = false
	t.mu.Unlock()
	t.cond.Broadcast()
}

func (t *RunToken) Cancel() {
	t.mu.Lock()
	t.cancelled = true
	t.mu.Unlock()
	t.cond.Broadcast()
}

func (t *RunToken) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// Checkpoint blocks while the token is paused and reports whether the run may
// continue. False means cancelled.
func (t *RunToken) Checkpoint() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for t.paused && !t.cancelled {
		t.cond.Wait()
	}
	return !t.cancelled
}

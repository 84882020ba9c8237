package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrRunSuperseded is the cancel cause of a run replaced by a newer run of
// the same operator session.
var ErrRunSuperseded = errors.New("planning run superseded by a newer request")

// RunRegistry keeps at most one in-flight planning run per operator session.
type RunRegistry struct {
	mu   sync.Mutex
	runs map[string]activeRun
}

type activeRun struct {
	id     string
	cancel context.CancelCauseFunc
}

func NewRunRegistry() *RunRegistry {
	return &RunRegistry{runs: make(map[string]activeRun)}
}

// Begin starts a run for session, cancelling any run the session still has in
// flight. The returned release func must be called when the run ends; it is
// safe to call more than once.
func (r *RunRegistry) Begin(ctx context.Context, session string) (context.Context, string, func()) {
	runCtx, cancel := context.WithCancelCause(ctx)
	id := uuid.NewString()

	r.mu.Lock()
	if prev, ok := r.runs[session]; ok {
		prev.cancel(ErrRunSuperseded)
	}
	r.runs[session] = activeRun{id: id, cancel: cancel}
	r.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			r.mu.Lock()
			if cur, ok := r.runs[session]; ok && cur.id == id {
				delete(r.runs, session)
			}
			r.mu.Unlock()
			cancel(context.Canceled)
		})
	}
	return runCtx, id, release
}

// Active reports how many sessions have a run in flight.
func (r *RunRegistry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.runs)
}

// Superseded reports whether ctx was cancelled because a newer run of the
// same session started.
func Superseded(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), ErrRunSuperseded)
}

// Package tasks runs cancellable, supersedable client operations.
//
// Each task runs in a named slot and gets a fresh request token. Starting a
// task in a slot that is still busy cancels the older task; its caller gets
// ErrSuperseded.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var ErrSuperseded = errors.New("superseded by a newer request")

// Func is the body of a task. requestID identifies this attempt.
type Func func(ctx context.Context, requestID string) error

type task struct {
	id     string
	cancel context.CancelCauseFunc
}

type Runner struct {
	mu      sync.Mutex
	running map[string]*task
	newID   func() string
}

func NewRunner() *Runner {
	return &Runner{
		running: make(map[string]*task),
		newID:   uuid.NewString,
	}
}

// Run executes fn in slot and waits for it. A task already running in the
// same slot is cancelled first.
func (r *Runner) Run(ctx context.Context, slot string, fn Func) (string, error) {
	tctx, cancel := context.WithCancelCause(ctx)
	t := &task{id: r.newID(), cancel: cancel}

	r.mu.Lock()
	if prev, ok := r.running[slot]; ok {
		prev.cancel(ErrSuperseded)
	}
	r.running[slot] = t
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		if r.running[slot] == t {
			delete(r.running, slot)
		}
		r.mu.Unlock()
		cancel(nil)
	}()

	err := fn(tctx, t.id)
	if err == nil {
		return t.id, nil
	}

	if errors.Is(context.Cause(tctx), ErrSuperseded) {
		return t.id, fmt.Errorf("task %s: %w", t.id, ErrSuperseded)
	}
	return t.id, err
}

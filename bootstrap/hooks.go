package bootstrap

import (
	"context"
	"fmt"
)

// Hook is a lifecycle callback.
type Hook func(ctx context.Context) error

// OnStart registers hooks that run after components start.
func (a *App[C]) OnStart(hooks ...Hook) {
	a.onStart = append(a.onStart, hooks...)
}

// OnReady registers hooks that run once the ready check has passed.
func (a *App[C]) OnReady(hooks ...Hook) {
	a.onReady = append(a.onReady, hooks...)
}

// OnStop registers hooks that run before components stop.
func (a *App[C]) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

func runHooks(ctx context.Context, phase string, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("%s hook %d: %w", phase, i, err)
		}
	}
	return nil
}

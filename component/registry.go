package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/asrgateway/logger"
)

// DefaultStopTimeout bounds each component's Stop call.
const DefaultStopTimeout = 10 * time.Second

type entry struct {
	component Component
	started   bool
}

// Registry manages component lifecycle. Components start in registration
// order and stop in reverse.
type Registry struct {
	mu      sync.RWMutex
	entries []*entry
	byName  map[string]*entry
	log     *logger.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*entry),
		log:    logger.WithComponent("registry"),
	}
}

// Register adds a component. Register dependencies first.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("component %s already registered", name)
	}
	e := &entry{component: c}
	r.entries = append(r.entries, e)
	r.byName[name] = e

	r.log.Debug("component registered", logger.Fields("name", name))
	return nil
}

// StartAll starts every component in registration order and stops at the
// first failure. Components already started stay started; call StopAll.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.started {
			continue
		}
		name := e.component.Name()
		if err := e.component.Start(ctx); err != nil {
			r.log.Error("component start failed", logger.Fields("name", name, logger.FieldError, err.Error()))
			return fmt.Errorf("start %s: %w", name, err)
		}
		e.started = true
		r.log.Debug("component started", logger.Fields("name", name))
	}
	r.log.Info("components started", logger.Fields("count", len(r.entries)))
	return nil
}

// StopAll stops started components in reverse order, collecting errors.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if !e.started {
			continue
		}
		name := e.component.Name()
		stopCtx, cancel := context.WithTimeout(ctx, DefaultStopTimeout)
		if err := e.component.Stop(stopCtx); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", name, err))
			r.log.Error("component stop failed", logger.Fields("name", name, logger.FieldError, err.Error()))
		} else {
			r.log.Debug("component stopped", logger.Fields("name", name))
		}
		cancel()
		e.started = false
	}
	return errors.Join(errs...)
}

// HealthAll returns the health of every registered component.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Health, 0, len(r.entries))
	for _, e := range r.entries {
		h := e.component.Health(ctx)
		if h.Name == "" {
			h.Name = e.component.Name()
		}
		out = append(out, h)
	}
	return out
}

// Overall folds component health into one status: any unhealthy component
// makes the whole unhealthy, any degraded one makes it degraded.
func Overall(healths []Health) HealthStatus {
	status := StatusHealthy
	for _, h := range healths {
		switch h.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}

// Get returns a registered component by name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.byName[name]; ok {
		return e.component
	}
	return nil
}

// All returns registered components in registration order.
func (r *Registry) All() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Component, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.component)
	}
	return out
}

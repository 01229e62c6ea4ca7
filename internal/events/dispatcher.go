// Package events delivers session notifications to registered listeners.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmynk/consoleatm/internal/models"
)

// Listener receives events. A returned error is logged by the dispatcher and
// otherwise ignored.
type Listener interface {
	Notify(ctx context.Context, event models.Event) error
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(ctx context.Context, event models.Event) error

// Notify calls f(ctx, event).
func (f ListenerFunc) Notify(ctx context.Context, event models.Event) error {
	return f(ctx, event)
}

// Dispatcher fans events out to its listeners in registration order.
// A failing or panicking listener never affects the caller or the other
// listeners.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners []Listener
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher with the given initial listeners.
func NewDispatcher(logger *slog.Logger, listeners ...Listener) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		listeners: listeners,
		logger:    logger,
	}
}

// Subscribe adds a listener.
func (d *Dispatcher) Subscribe(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}

// Dispatch delivers event to every listener. It is safe on a nil Dispatcher.
func (d *Dispatcher) Dispatch(ctx context.Context, event models.Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	listeners := make([]Listener, len(d.listeners))
	copy(listeners, d.listeners)
	d.mu.RUnlock()

	for _, l := range listeners {
		if err := d.notify(ctx, l, event); err != nil {
			d.logger.Warn("Event listener failed",
				"kind", event.Kind,
				"event_id", event.ID,
				"error", err,
			)
		}
	}
}

func (d *Dispatcher) notify(ctx context.Context, l Listener, event models.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panic: %v", r)
		}
	}()
	return l.Notify(ctx, event)
}

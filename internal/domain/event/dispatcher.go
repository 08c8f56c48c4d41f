package event

import (
	"sync"

	"go.uber.org/zap"
)

// EventHandler handles domain events
type EventHandler interface {
	// Handle processes the event
	Handle(event DomainEvent) error
	// HandledEvents returns the event names this handler handles
	HandledEvents() []string
}

// EventDispatcher dispatches domain events to registered handlers
type EventDispatcher interface {
	// Dispatch sends an event to all registered handlers
	Dispatch(event DomainEvent)
	// Subscribe registers a handler for events
	Subscribe(handler EventHandler)
}

// InMemoryDispatcher is an in-memory implementation of EventDispatcher
type InMemoryDispatcher struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
	async    bool
	wg       sync.WaitGroup
	logger   *zap.Logger
}

// NewInMemoryDispatcher creates a new InMemoryDispatcher. Handler errors
// are logged to logger.
func NewInMemoryDispatcher(async bool, logger *zap.Logger) *InMemoryDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryDispatcher{
		handlers: make(map[string][]EventHandler),
		async:    async,
		logger:   logger,
	}
}

// Dispatch sends an event to all registered handlers
func (d *InMemoryDispatcher) Dispatch(event DomainEvent) {
	d.mu.RLock()
	handlers := make([]EventHandler, 0, len(d.handlers[event.EventName()])+len(d.handlers[NameAll]))
	handlers = append(handlers, d.handlers[event.EventName()]...)
	// Also get handlers registered for all events
	handlers = append(handlers, d.handlers[NameAll]...)
	d.mu.RUnlock()

	for _, handler := range handlers {
		if d.async {
			d.wg.Add(1)
			go func(h EventHandler) {
				defer d.wg.Done()
				d.handle(h, event)
			}(handler)
		} else {
			d.handle(handler, event)
		}
	}
}

func (d *InMemoryDispatcher) handle(h EventHandler, event DomainEvent) {
	if err := h.Handle(event); err != nil {
		d.logger.Warn("event handler failed",
			zap.String("event", event.EventName()),
			zap.Error(err))
	}
}

// Wait blocks until every asynchronously dispatched handler has returned
func (d *InMemoryDispatcher) Wait() {
	d.wg.Wait()
}

// Subscribe registers a handler for events
func (d *InMemoryDispatcher) Subscribe(handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, eventName := range handler.HandledEvents() {
		d.handlers[eventName] = append(d.handlers[eventName], handler)
	}
}
